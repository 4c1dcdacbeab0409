package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	infraKafka "comment-go/internal/infra/kafka"
	"comment-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reminderNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func newReminderFixture(cfg ModuleConfig, pub *fakePublisher) (*ReminderService, *fakePurchases) {
	purchases := newFakePurchases()
	purchases.due = []model.Purchase{
		{ID: 1, CustomerID: 10, ProductID: 100, Email: "a@example.com", OrderedAt: reminderNow.AddDate(0, 0, -30)},
		{ID: 2, CustomerID: 11, ProductID: 101, Email: "b@example.com", OrderedAt: reminderNow.AddDate(0, 0, -3)},
	}
	svc := NewReminderService(staticSettings{cfg: cfg}, purchases, pub, "review-reminders", 0)
	svc.now = func() time.Time { return reminderNow }
	return svc, purchases
}

func TestReminderService_SendsDueReminders(t *testing.T) {
	pub := &fakePublisher{}
	svc, purchases := newReminderFixture(DefaultModuleConfig(), pub)

	sent, err := svc.RequestCustomerComments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Equal(t, "product", purchases.lastRef)
	assert.Equal(t, reminderNow.AddDate(0, 0, -15), purchases.lastUntil)
	assert.Equal(t, reminderNow, purchases.reminded[1])

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "purchase-1", pub.messages[0].Key)
	var body infraKafka.ReviewReminder
	require.NoError(t, json.Unmarshal(pub.messages[0].Value, &body))
	assert.Equal(t, int64(100), body.RefID)
	assert.Equal(t, "a@example.com", body.Email)

	// 已提醒过的订单不会重复发送
	sent, err = svc.RequestCustomerComments(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_DisabledByTTL(t *testing.T) {
	cfg := DefaultModuleConfig()
	cfg.RequestCustomerTTL = 0
	pub := &fakePublisher{}
	svc, purchases := newReminderFixture(cfg, pub)

	sent, err := svc.RequestCustomerComments(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, pub.messages)
	assert.Empty(t, purchases.lastRef)
}

func TestReminderService_ProductRefNotAllowed(t *testing.T) {
	cfg := DefaultModuleConfig()
	cfg.RefAllowed = []string{"content"}
	svc, _ := newReminderFixture(cfg, &fakePublisher{})

	sent, err := svc.RequestCustomerComments(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_PublishFailureLeavesPurchaseDue(t *testing.T) {
	svc, purchases := newReminderFixture(DefaultModuleConfig(), &fakePublisher{err: errBoom})

	sent, err := svc.RequestCustomerComments(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, purchases.reminded)
}
