package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"WellCheck/internal/model"
)

type resolveCall struct {
	id          int64
	respondedAt time.Time
	passCheck   bool
}

type fakeReplyAttestations struct {
	byPhone  map[string]*model.Attestation
	findErr  error
	finds    int
	resolved []resolveCall
}

func (f *fakeReplyAttestations) FindForPhoneOnDay(ctx context.Context, phone string, dayStart time.Time) (*model.Attestation, error) {
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byPhone[phone], nil
}

func (f *fakeReplyAttestations) Resolve(ctx context.Context, id int64, respondedAt time.Time, passCheck bool) error {
	f.resolved = append(f.resolved, resolveCall{id: id, respondedAt: respondedAt, passCheck: passCheck})
	return nil
}

type fakeRecipientFinder struct {
	byPhone map[string]*model.Recipient
	lookups int
}

func (f *fakeRecipientFinder) FindByPhone(ctx context.Context, phone string) (*model.Recipient, error) {
	f.lookups++
	if recipient, ok := f.byPhone[phone]; ok {
		return recipient, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type alertCall struct {
	accountID   int64
	recipientID int64
}

type fakeAdminNotifier struct {
	calls []alertCall
	err   error
}

func (f *fakeAdminNotifier) AlertAdmins(ctx context.Context, accountID, recipientID int64, repliedAt time.Time) error {
	f.calls = append(f.calls, alertCall{accountID: accountID, recipientID: recipientID})
	return f.err
}

func pendingAttestation(id, accountID, recipientID int64, phone string) *model.Attestation {
	return &model.Attestation{
		BaseModel:   model.BaseModel{ID: id},
		PublicID:    id * 100,
		AccountID:   accountID,
		RecipientID: recipientID,
		PhoneNumber: phone,
		MessageSent: time.Now().UTC(),
	}
}

func newReplyFixture(attestations *fakeReplyAttestations, notifier *fakeAdminNotifier) *ReplyService {
	return NewReplyService(attestations, &fakeRecipientFinder{}, notifier, "+1")
}

func TestClassifyReply(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{"yes", ReplyYes},
		{"YES", ReplyYes},
		{"  Yes \n", ReplyYes},
		{"no", ReplyNo},
		{"No", ReplyNo},
		{" NO ", ReplyNo},
		{"yeah", ReplyUnknown},
		{"nope", ReplyUnknown},
		{"yes please", ReplyUnknown},
		{"", ReplyUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyReply(tc.body), "body=%q", tc.body)
	}
}

func TestHandleInboundYesResolvesHealthy(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{
		"5550000001": pendingAttestation(7, 1, 10, "5550000001"),
	}}
	notifier := &fakeAdminNotifier{}
	svc := newReplyFixture(attestations, notifier)

	reply, err := svc.HandleInbound(context.Background(), "+15550000001", "yes", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyToYes, reply)
	require.Len(t, attestations.resolved, 1)
	assert.True(t, attestations.resolved[0].passCheck)
	assert.Equal(t, int64(7), attestations.resolved[0].id)
	assert.Empty(t, notifier.calls, "healthy reply must not alert admins")
}

func TestHandleInboundNoFlagsAndAlerts(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{
		"5550000001": pendingAttestation(7, 1, 10, "5550000001"),
	}}
	notifier := &fakeAdminNotifier{}
	svc := newReplyFixture(attestations, notifier)

	reply, err := svc.HandleInbound(context.Background(), "5550000001", "no", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyToNo, reply)
	require.Len(t, attestations.resolved, 1)
	assert.False(t, attestations.resolved[0].passCheck)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, int64(1), notifier.calls[0].accountID)
	assert.Equal(t, int64(10), notifier.calls[0].recipientID)
}

func TestHandleInboundAlertFailureStillReplies(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{
		"5550000001": pendingAttestation(7, 1, 10, "5550000001"),
	}}
	notifier := &fakeAdminNotifier{err: errors.New("mq down")}
	svc := newReplyFixture(attestations, notifier)

	reply, err := svc.HandleInbound(context.Background(), "5550000001", "no", time.Now())

	require.NoError(t, err, "alert failure must not fail the inbound reply")
	assert.Equal(t, ReplyToNo, reply)
	assert.Len(t, attestations.resolved, 1)
}

func TestHandleInboundUnknownBodyLeavesPending(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{
		"5550000001": pendingAttestation(7, 1, 10, "5550000001"),
	}}
	notifier := &fakeAdminNotifier{}
	svc := newReplyFixture(attestations, notifier)

	reply, err := svc.HandleInbound(context.Background(), "5550000001", "maybe", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyToUnknown, reply)
	assert.Empty(t, attestations.resolved)
	assert.Empty(t, notifier.calls)
}

func TestHandleInboundNoAttestationToday(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{}}
	svc := newReplyFixture(attestations, &fakeAdminNotifier{})

	reply, err := svc.HandleInbound(context.Background(), "5559999999", "yes", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyNoAttestation, reply)
	assert.Empty(t, attestations.resolved)
}

func TestHandleInboundUnknownBodySkipsLookup(t *testing.T) {
	// 认不出的内容直接请对方重发，不管当天有没有记录
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{}}
	svc := newReplyFixture(attestations, &fakeAdminNotifier{})

	reply, err := svc.HandleInbound(context.Background(), "5559999999", "maybe", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyToUnknown, reply)
	assert.Equal(t, 0, attestations.finds, "clarification reply must not hit the database")
	assert.Empty(t, attestations.resolved)
}

func TestHandleInboundKnownRecipientWithoutAttestation(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{}}
	recipients := &fakeRecipientFinder{byPhone: map[string]*model.Recipient{
		"5550000001": testRecipient(10, 1, "Alice", "5550000001"),
	}}
	svc := NewReplyService(attestations, recipients, &fakeAdminNotifier{}, "+1")

	reply, err := svc.HandleInbound(context.Background(), "5550000001", "yes", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyNoAttestation, reply)
	assert.Equal(t, 1, recipients.lookups, "recipient consulted for the phone snapshot")
	assert.Empty(t, attestations.resolved)
}

func TestHandleInboundStripsCountryPrefix(t *testing.T) {
	attestations := &fakeReplyAttestations{byPhone: map[string]*model.Attestation{
		"5550000001": pendingAttestation(7, 1, 10, "5550000001"),
	}}
	svc := newReplyFixture(attestations, &fakeAdminNotifier{})

	reply, err := svc.HandleInbound(context.Background(), " +15550000001 ", "yes", time.Now())

	require.NoError(t, err)
	assert.Equal(t, ReplyToYes, reply)
}

func TestHandleInboundLookupError(t *testing.T) {
	attestations := &fakeReplyAttestations{findErr: errors.New("db down")}
	svc := newReplyFixture(attestations, &fakeAdminNotifier{})

	reply, err := svc.HandleInbound(context.Background(), "5550000001", "yes", time.Now())

	require.Error(t, err)
	assert.Empty(t, reply)
}
