package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WellCheck/internal/model"
	"WellCheck/pkg/email"
)

type fakeSummaryAccounts struct {
	account    *model.Account
	stampedID  int64
	stampCount int
}

func (f *fakeSummaryAccounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	if f.account == nil || f.account.ID != id {
		return nil, errors.New("account not found")
	}
	return f.account, nil
}

func (f *fakeSummaryAccounts) SetSummaryLastSent(ctx context.Context, accountID int64, sentAt time.Time) error {
	f.stampedID = accountID
	f.stampCount++
	return nil
}

type fakeSummaryAttestations struct {
	list []*model.Attestation
}

func (f *fakeSummaryAttestations) ListForAccountOnDay(ctx context.Context, accountID int64, dayStart time.Time) ([]*model.Attestation, error) {
	return f.list, nil
}

type fakeRecipientBatch struct {
	recipients []*model.Recipient
}

func (f *fakeRecipientBatch) FindByIDs(ctx context.Context, ids []int64) ([]*model.Recipient, error) {
	return f.recipients, nil
}

type fakeAdminDirectory struct {
	admins []*model.User
}

func (f *fakeAdminDirectory) FindAdmins(ctx context.Context, accountID int64) ([]*model.User, error) {
	return f.admins, nil
}

// failingMailer 每次发送都失败
type failingMailer struct{}

func (failingMailer) Send(ctx context.Context, toName, toEmail, subject, plainBody string) error {
	return errors.New("smtp down")
}

func admin(id int64, name, addr string) *model.User {
	return &model.User{
		BaseModel: model.BaseModel{ID: id},
		AccountID: 1,
		Name:      name,
		Email:     addr,
		IsAdmin:   true,
	}
}

func resolvedAttestation(recipientID int64, phone string, pass *bool) *model.Attestation {
	a := &model.Attestation{
		BaseModel:   model.BaseModel{ID: recipientID},
		AccountID:   1,
		RecipientID: recipientID,
		PhoneNumber: phone,
		MessageSent: time.Now().UTC(),
		PassCheck:   pass,
	}
	if pass != nil {
		now := time.Now().UTC()
		a.ResponseReceived = &now
	}
	return a
}

func boolPtr(v bool) *bool { return &v }

func newSummaryFixture(mailer email.Client, admins []*model.User, attestations []*model.Attestation, recipients []*model.Recipient) (*SummaryService, *fakeSummaryAccounts) {
	accounts := &fakeSummaryAccounts{account: &model.Account{
		BaseModel: model.BaseModel{ID: 1},
		Name:      "Acme",
		Active:    true,
	}}
	svc := NewSummaryService(
		accounts,
		&fakeSummaryAttestations{list: attestations},
		&fakeRecipientBatch{recipients: recipients},
		&fakeAdminDirectory{admins: admins},
		mailer,
	)
	return svc, accounts
}

func TestSendSummaryGroupsResults(t *testing.T) {
	attestations := []*model.Attestation{
		resolvedAttestation(10, "5550000001", boolPtr(true)),
		resolvedAttestation(11, "5550000002", boolPtr(false)),
		resolvedAttestation(12, "5550000003", nil),
	}
	recipients := []*model.Recipient{
		testRecipient(10, 1, "Alice", "5550000001"),
		testRecipient(11, 1, "Bob", "5550000002"),
		testRecipient(12, 1, "Carol", "5550000003"),
	}
	mailer := email.NewMockClient()
	svc, accounts := newSummaryFixture(mailer, []*model.User{
		admin(1, "Dana", "dana@acme.test"),
		admin(2, "Evan", "evan@acme.test"),
	}, attestations, recipients)

	err := svc.SendSummary(context.Background(), 1, "2026-08-30")

	require.NoError(t, err)
	require.Len(t, mailer.Messages, 2, "one email per admin")

	msg := mailer.Messages[0]
	assert.Equal(t, "dana@acme.test", msg.ToEmail)
	assert.Contains(t, msg.Subject, "Acme")
	assert.Contains(t, msg.Body, "3 wellness checks")
	assert.Contains(t, msg.Body, "1 reported feeling well")
	assert.Contains(t, msg.Body, "1 reported not feeling well")
	assert.Contains(t, msg.Body, "1 has not responded")
	assert.Contains(t, msg.Body, "Bob Tester")
	assert.Contains(t, msg.Body, "Carol Tester")
	assert.NotContains(t, msg.Body, "5550000002", "phone numbers are masked")

	assert.Equal(t, int64(1), accounts.stampedID)
	assert.Equal(t, 1, accounts.stampCount)
}

func TestSendSummaryEmptyDay(t *testing.T) {
	mailer := email.NewMockClient()
	svc, _ := newSummaryFixture(mailer, []*model.User{admin(1, "Dana", "dana@acme.test")}, nil, nil)

	err := svc.SendSummary(context.Background(), 1, "2026-08-30")

	require.NoError(t, err)
	require.Len(t, mailer.Messages, 1)
	body := mailer.Messages[0].Body
	assert.Contains(t, body, "0 wellness checks")
	assert.Contains(t, body, "People reporting not feeling well: none")
	assert.Contains(t, body, "People that have not responded: none")
}

func TestSendSummaryInvalidDate(t *testing.T) {
	svc, _ := newSummaryFixture(email.NewMockClient(), []*model.User{admin(1, "Dana", "dana@acme.test")}, nil, nil)

	err := svc.SendSummary(context.Background(), 1, "30/08/2026")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid summary date")
}

func TestSendSummaryNoAdmins(t *testing.T) {
	mailer := email.NewMockClient()
	svc, accounts := newSummaryFixture(mailer, nil, nil, nil)

	err := svc.SendSummary(context.Background(), 1, "2026-08-30")

	require.NoError(t, err)
	assert.Empty(t, mailer.Messages)
	assert.Equal(t, 0, accounts.stampCount, "no watermark without delivery")
}

func TestSendSummaryAllAdminsFail(t *testing.T) {
	svc, accounts := newSummaryFixture(failingMailer{}, []*model.User{
		admin(1, "Dana", "dana@acme.test"),
		admin(2, "Evan", "evan@acme.test"),
	}, nil, nil)

	err := svc.SendSummary(context.Background(), 1, "2026-08-30")

	require.Error(t, err)
	assert.Equal(t, 0, accounts.stampCount)
}

func TestSendSummaryPartialFailureSucceeds(t *testing.T) {
	mailer := email.NewMockClient()
	mailer.FailNext = true
	svc, accounts := newSummaryFixture(mailer, []*model.User{
		admin(1, "Dana", "dana@acme.test"),
		admin(2, "Evan", "evan@acme.test"),
	}, nil, nil)

	err := svc.SendSummary(context.Background(), 1, "2026-08-30")

	require.NoError(t, err, "partial delivery is still a success")
	assert.Equal(t, 1, accounts.stampCount)
}
