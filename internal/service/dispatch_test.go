package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WellCheck/internal/model"
	"WellCheck/pkg/sms"
)

type fakeAccountDirectory struct {
	due     []*model.Account
	findErr error

	mu          sync.Mutex
	lastSentIDs []int64
	lastSentAt  time.Time
	setErr      error
}

func (f *fakeAccountDirectory) FindDue(ctx context.Context, hour int, dayStart time.Time) ([]*model.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.due, nil
}

func (f *fakeAccountDirectory) SetLastSent(ctx context.Context, accountIDs []int64, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.lastSentIDs = append(f.lastSentIDs, accountIDs...)
	f.lastSentAt = sentAt
	return nil
}

type fakeRecipientDirectory struct {
	recipients []*model.Recipient
	err        error
}

func (f *fakeRecipientDirectory) FindActiveByAccounts(ctx context.Context, accountIDs []int64) ([]*model.Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recipients, nil
}

type fakeAttestationLog struct {
	mu       sync.Mutex
	upserted []*model.Attestation
	err      error
}

func (f *fakeAttestationLog) Upsert(ctx context.Context, attestation *model.Attestation, dayStart time.Time) (*model.Attestation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	// 同一接收人同一天只留一行
	for _, existing := range f.upserted {
		if existing.RecipientID == attestation.RecipientID {
			existing.MessageSent = attestation.MessageSent
			return existing, nil
		}
	}
	stored := *attestation
	stored.ID = int64(len(f.upserted) + 1)
	f.upserted = append(f.upserted, &stored)
	return &stored, nil
}

func testRecipient(id, accountID int64, firstName, phone string) *model.Recipient {
	return &model.Recipient{
		BaseModel:    model.BaseModel{ID: id},
		PublicID:     id * 100,
		AccountID:    accountID,
		FirstName:    firstName,
		LastName:     "Tester",
		Active:       true,
		PrimaryPhone: phone,
	}
}

func testAccount(id int64, hour int) *model.Account {
	return &model.Account{
		BaseModel:     model.BaseModel{ID: id},
		PublicID:      id * 100,
		Name:          "Acme",
		Active:        true,
		DailySendHour: hour,
	}
}

func TestRunCycleNoDueAccounts(t *testing.T) {
	accounts := &fakeAccountDirectory{}
	sender := sms.NewMockClient()
	svc := NewDispatchService(accounts, &fakeRecipientDirectory{}, &fakeAttestationLog{}, sender,
		DispatchConfig{TransportEnabled: true, CountryPrefix: "+1"})

	result, err := svc.RunCycle(context.Background(), "cycle-empty", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, result.AccountsDue)
	assert.Equal(t, 0, result.MessagesSent)
	assert.Equal(t, 0, sender.CallCount())
	assert.Empty(t, accounts.lastSentIDs)
}

func TestRunCycleTransportDisabled(t *testing.T) {
	accounts := &fakeAccountDirectory{due: []*model.Account{testAccount(1, 9)}}
	recipients := &fakeRecipientDirectory{recipients: []*model.Recipient{
		testRecipient(10, 1, "Alice", "5550000001"),
		testRecipient(11, 1, "Bob", "5550000002"),
	}}
	attestations := &fakeAttestationLog{}
	sender := sms.NewMockClient()
	svc := NewDispatchService(accounts, recipients, attestations, sender,
		DispatchConfig{TransportEnabled: false, CountryPrefix: "+1"})

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	result, err := svc.RunCycle(context.Background(), "cycle-dryrun", now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.AccountsDue)
	assert.Equal(t, 2, result.RecipientsProcessed)
	assert.Equal(t, 2, result.AttestationsWritten)
	assert.Equal(t, 0, result.MessagesSent)
	assert.Equal(t, 0, sender.CallCount(), "transport disabled must not send")
	assert.Len(t, attestations.upserted, 2)
	assert.Equal(t, []int64{1}, accounts.lastSentIDs, "watermark still stamped in dry-run mode")
}

func TestRunCycleSendsPrefixedWellnessCheck(t *testing.T) {
	accounts := &fakeAccountDirectory{due: []*model.Account{testAccount(1, 14)}}
	recipients := &fakeRecipientDirectory{recipients: []*model.Recipient{
		testRecipient(10, 1, "Alice", "5550000001"),
	}}
	sender := sms.NewMockClient()
	svc := NewDispatchService(accounts, recipients, &fakeAttestationLog{}, sender,
		DispatchConfig{TransportEnabled: true, CountryPrefix: "+1"})

	now := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	result, err := svc.RunCycle(context.Background(), "cycle-send", now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.MessagesSent)
	assert.Equal(t, 0, result.SendFailures)
	require.Equal(t, 1, sender.CallCount())

	call := sender.LastCall()
	assert.Equal(t, "+15550000001", call.Phone)
	assert.Equal(t, WellnessCheckBody("Alice"), call.Body)
	assert.True(t, strings.Contains(call.Body, "Alice"))
}

func TestRunCycleSendFailureKeepsAttestation(t *testing.T) {
	accounts := &fakeAccountDirectory{due: []*model.Account{testAccount(1, 9)}}
	recipients := &fakeRecipientDirectory{recipients: []*model.Recipient{
		testRecipient(10, 1, "Alice", "5550000001"),
	}}
	attestations := &fakeAttestationLog{}
	sender := sms.NewMockClient()
	sender.FailNext = true
	svc := NewDispatchService(accounts, recipients, attestations, sender,
		DispatchConfig{TransportEnabled: true, CountryPrefix: "+1"})

	result, err := svc.RunCycle(context.Background(), "cycle-fail", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, result.AttestationsWritten)
	assert.Equal(t, 0, result.MessagesSent)
	assert.Equal(t, 1, result.SendFailures)
	assert.Len(t, attestations.upserted, 1, "attestation survives SMS failure")
	assert.Equal(t, []int64{1}, accounts.lastSentIDs, "watermark survives SMS failure")
}

func TestRunCycleWatermarkOnlyForProcessedAccounts(t *testing.T) {
	accounts := &fakeAccountDirectory{due: []*model.Account{
		testAccount(1, 9),
		testAccount(2, 9),
	}}
	// 账户 2 没有活跃接收人
	recipients := &fakeRecipientDirectory{recipients: []*model.Recipient{
		testRecipient(10, 1, "Alice", "5550000001"),
	}}
	svc := NewDispatchService(accounts, recipients, &fakeAttestationLog{}, sms.NewMockClient(),
		DispatchConfig{TransportEnabled: false, CountryPrefix: "+1"})

	result, err := svc.RunCycle(context.Background(), "cycle-partial", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 2, result.AccountsDue)
	assert.Equal(t, []int64{1}, accounts.lastSentIDs, "empty account is re-evaluated next cycle")
}

func TestRunCycleSameRecipientUpsertedOnce(t *testing.T) {
	accounts := &fakeAccountDirectory{due: []*model.Account{testAccount(1, 9)}}
	recipients := &fakeRecipientDirectory{recipients: []*model.Recipient{
		testRecipient(10, 1, "Alice", "5550000001"),
	}}
	attestations := &fakeAttestationLog{}
	svc := NewDispatchService(accounts, recipients, attestations, sms.NewMockClient(),
		DispatchConfig{TransportEnabled: false, CountryPrefix: "+1"})

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	_, err := svc.RunCycle(context.Background(), "cycle-1", now)
	require.NoError(t, err)
	_, err = svc.RunCycle(context.Background(), "cycle-2", now.Add(10*time.Minute))
	require.NoError(t, err)

	assert.Len(t, attestations.upserted, 1, "second cycle on the same day reuses the record")
	assert.Equal(t, now.Add(10*time.Minute).UTC(), attestations.upserted[0].MessageSent)
}

func TestRunCycleFindDueError(t *testing.T) {
	accounts := &fakeAccountDirectory{findErr: errors.New("db down")}
	svc := NewDispatchService(accounts, &fakeRecipientDirectory{}, &fakeAttestationLog{}, sms.NewMockClient(),
		DispatchConfig{TransportEnabled: true, CountryPrefix: "+1"})

	result, err := svc.RunCycle(context.Background(), "cycle-err", time.Now())

	require.Error(t, err)
	assert.Nil(t, result)
}
