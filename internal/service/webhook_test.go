package service

import (
	"context"
	"course-store/internal/model"
	"course-store/internal/repository"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type webhookFixture struct {
	webhook         WebhookService
	entitlementRepo repository.EntitlementRepository
	cartRepo        repository.CartRepository
	userRepo        repository.UserRepository
	gw              *fakeGateway
	db              *gorm.DB
}

func newWebhookFixture(t *testing.T, gw *fakeGateway) *webhookFixture {
	t.Helper()
	db := newTestDB(t)
	seedCatalog(t, db)

	cartRepo := repository.NewCartRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	entitlements := NewEntitlementService(entitlementRepo, courseRepo)
	webhook := NewWebhookService(gw, entitlements, webhookEventRepo, cartRepo, userRepo)

	return &webhookFixture{
		webhook:         webhook,
		entitlementRepo: entitlementRepo,
		cartRepo:        cartRepo,
		userRepo:        userRepo,
		gw:              gw,
		db:              db,
	}
}

func paymentNotification(id string) *model.WebhookNotification {
	notif := &model.WebhookNotification{Type: "payment"}
	notif.Data.ID = id
	return notif
}

func approvedPayment(email string, courseIDs ...string) *model.PaymentRecord {
	items := make([]model.PaymentItem, 0, len(courseIDs))
	for _, id := range courseIDs {
		items = append(items, model.PaymentItem{ID: id})
	}
	return &model.PaymentRecord{
		Status:         model.PaymentStatusApproved,
		Metadata:       model.PreferenceMetadata{BuyerEmail: email},
		AdditionalInfo: model.PaymentAdditionalInfo{Items: items},
	}
}

func (f *webhookFixture) grantCount(t *testing.T, paymentID string) int64 {
	t.Helper()
	count, err := f.entitlementRepo.CountByPayment(context.Background(), paymentID)
	require.NoError(t, err)
	return count
}

func TestWebhookIgnoresNonPaymentEvents(t *testing.T) {
	gw := &fakeGateway{}
	f := newWebhookFixture(t, gw)

	notif := &model.WebhookNotification{Type: "merchant_order"}
	notif.Data.ID = "123"

	require.NoError(t, f.webhook.HandleNotification(context.Background(), notif))
	// The record must not even be fetched for irrelevant events.
	assert.Equal(t, int32(0), gw.paymentCalls.Load())
}

func TestWebhookUnresolvablePaymentIsDropped(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{}}
	f := newWebhookFixture(t, gw)

	require.NoError(t, f.webhook.HandleNotification(context.Background(), paymentNotification("missing")))
	assert.Equal(t, int64(0), f.grantCount(t, "missing"))
}

func TestWebhookNonApprovedIsNoOp(t *testing.T) {
	pending := approvedPayment("buyer@example.com", "course-ars")
	pending.Status = model.PaymentStatusPending

	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{"123": pending}}
	f := newWebhookFixture(t, gw)

	require.NoError(t, f.webhook.HandleNotification(context.Background(), paymentNotification("123")))
	assert.Equal(t, int64(0), f.grantCount(t, "123"))
}

func TestWebhookApprovedGrantsAccess(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{
		"123": approvedPayment("buyer@example.com", "course-ars", "course-usd"),
	}}
	f := newWebhookFixture(t, gw)
	ctx := context.Background()

	require.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("123")))

	assert.Equal(t, int64(2), f.grantCount(t, "123"))
	for _, courseID := range []string{"course-ars", "course-usd"} {
		has, err := f.entitlementRepo.HasAccess(ctx, "buyer@example.com", courseID)
		require.NoError(t, err)
		assert.True(t, has, courseID)
	}
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{
		"123": approvedPayment("buyer@example.com", "course-ars", "course-usd"),
	}}
	f := newWebhookFixture(t, gw)
	ctx := context.Background()

	require.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("123")))
	require.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("123")))

	// Two grant rows total, not four.
	assert.Equal(t, int64(2), f.grantCount(t, "123"))
}

func TestWebhookNearSimultaneousDuplicates(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{
		"123": approvedPayment("buyer@example.com", "course-ars", "course-usd"),
	}}
	f := newWebhookFixture(t, gw)
	ctx := context.Background()

	// One connection keeps in-memory sqlite stable; the deliveries still
	// interleave through the check-and-write path.
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("123")))
		}()
	}
	wg.Wait()

	// The two deliveries converge: one grant per course, not per delivery.
	assert.Equal(t, int64(2), f.grantCount(t, "123"))
}

func TestWebhookApprovedMissingMetadata(t *testing.T) {
	noEmail := approvedPayment("", "course-ars")
	noItems := approvedPayment("buyer@example.com")

	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{
		"1": noEmail,
		"2": noItems,
	}}
	f := newWebhookFixture(t, gw)
	ctx := context.Background()

	// Integrity failures are logged, not propagated; the gateway gets acked.
	require.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("1")))
	require.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("2")))

	assert.Equal(t, int64(0), f.grantCount(t, "1"))
	assert.Equal(t, int64(0), f.grantCount(t, "2"))
}

func TestWebhookClearsBuyerCartOnApproval(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*model.PaymentRecord{
		"123": approvedPayment("buyer@example.com", "course-ars"),
	}}
	f := newWebhookFixture(t, gw)
	ctx := context.Background()

	user := &model.User{ID: "buyer-1", Email: "buyer@example.com", PasswordHash: "x", Role: "buyer"}
	require.NoError(t, f.userRepo.Create(ctx, user))
	require.NoError(t, f.cartRepo.AddItem(ctx, &model.CartItem{
		BuyerID:  "buyer-1",
		CourseID: "course-ars",
		Currency: "ARS",
		Quantity: 1,
	}))

	require.NoError(t, f.webhook.HandleNotification(ctx, paymentNotification("123")))

	items, err := f.cartRepo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGrantIdempotentUnderRepetition(t *testing.T) {
	f := newWebhookFixture(t, &fakeGateway{})
	ctx := context.Background()

	entitlements := NewEntitlementService(f.entitlementRepo, repository.NewCourseRepository(f.db))

	for i := 0; i < 4; i++ {
		require.NoError(t, entitlements.Grant(ctx, "buyer@example.com", []string{"course-ars", "course-usd"}, "pay-7"))
	}

	assert.Equal(t, int64(2), f.grantCount(t, "pay-7"))
}
