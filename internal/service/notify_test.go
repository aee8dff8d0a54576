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
	"WellCheck/pkg/sms"
)

type fakeRecipientGetter struct {
	byID map[int64]*model.Recipient
}

func (f *fakeRecipientGetter) GetByID(ctx context.Context, id int64) (*model.Recipient, error) {
	if recipient, ok := f.byID[id]; ok {
		return recipient, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAlertPublisher struct {
	published []model.AdminAlertMessage
	err       error
}

func (f *fakeAlertPublisher) PublishAdminAlert(msg model.AdminAlertMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func adminWithPhone(id int64, name, phone string) *model.User {
	u := admin(id, name, name+"@acme.test")
	u.PhoneNumber = phone
	return u
}

func TestAlertAdminsPublishesPerAdmin(t *testing.T) {
	recipients := &fakeRecipientGetter{byID: map[int64]*model.Recipient{
		10: testRecipient(10, 1, "Alice", "5550000001"),
	}}
	users := &fakeAdminDirectory{admins: []*model.User{
		adminWithPhone(1, "Dana", "5551110001"),
		adminWithPhone(2, "Evan", "5551110002"),
	}}
	publisher := &fakeAlertPublisher{}
	svc := NewNotifyService(recipients, users, publisher, nil, "+1")

	repliedAt := time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC)
	err := svc.AlertAdmins(context.Background(), 1, 10, repliedAt)

	require.NoError(t, err)
	require.Len(t, publisher.published, 2)

	msg := publisher.published[0]
	assert.Equal(t, int64(1), msg.AccountID)
	assert.Equal(t, int64(10), msg.RecipientID)
	assert.Equal(t, "Alice Tester", msg.RecipientName)
	assert.Equal(t, "5551110001", msg.AdminPhone)
	assert.Equal(t, repliedAt.Format(time.RFC3339), msg.RepliedAt)
}

func TestAlertAdminsSkipsPhonelessAdmin(t *testing.T) {
	recipients := &fakeRecipientGetter{byID: map[int64]*model.Recipient{
		10: testRecipient(10, 1, "Alice", "5550000001"),
	}}
	users := &fakeAdminDirectory{admins: []*model.User{
		admin(1, "Dana", "dana@acme.test"), // 没有手机号
		adminWithPhone(2, "Evan", "5551110002"),
	}}
	publisher := &fakeAlertPublisher{}
	svc := NewNotifyService(recipients, users, publisher, nil, "+1")

	err := svc.AlertAdmins(context.Background(), 1, 10, time.Now())

	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "5551110002", publisher.published[0].AdminPhone)
}

func TestAlertAdminsNoAdmins(t *testing.T) {
	recipients := &fakeRecipientGetter{byID: map[int64]*model.Recipient{
		10: testRecipient(10, 1, "Alice", "5550000001"),
	}}
	publisher := &fakeAlertPublisher{}
	svc := NewNotifyService(recipients, &fakeAdminDirectory{}, publisher, nil, "+1")

	err := svc.AlertAdmins(context.Background(), 1, 10, time.Now())

	require.NoError(t, err)
	assert.Empty(t, publisher.published)
}

func TestAlertAdminsPublishFailureIsSoft(t *testing.T) {
	recipients := &fakeRecipientGetter{byID: map[int64]*model.Recipient{
		10: testRecipient(10, 1, "Alice", "5550000001"),
	}}
	users := &fakeAdminDirectory{admins: []*model.User{
		adminWithPhone(1, "Dana", "5551110001"),
	}}
	publisher := &fakeAlertPublisher{err: errors.New("mq down")}
	svc := NewNotifyService(recipients, users, publisher, nil, "+1")

	err := svc.AlertAdmins(context.Background(), 1, 10, time.Now())

	require.NoError(t, err, "publish failure is logged, not returned")
}

func TestSendAdminAlert(t *testing.T) {
	sender := sms.NewMockClient()
	svc := NewNotifyService(nil, nil, nil, sender, "+1")

	err := svc.SendAdminAlert(context.Background(), "5551110001", "Alice Tester", "2026-08-30T15:04:00Z")

	require.NoError(t, err)
	require.Equal(t, 1, sender.CallCount())
	call := sender.LastCall()
	assert.Equal(t, "+15551110001", call.Phone)
	assert.Equal(t, AdminAlertBody("Alice Tester", "2026-08-30T15:04:00Z"), call.Body)
}

func TestSendAdminAlertNilSenderDrops(t *testing.T) {
	svc := NewNotifyService(nil, nil, nil, nil, "+1")

	err := svc.SendAdminAlert(context.Background(), "5551110001", "Alice Tester", "2026-08-30T15:04:00Z")

	require.NoError(t, err, "transport disabled drops the alert instead of failing the consumer")
}
