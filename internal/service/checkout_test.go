package service

import (
	"context"
	"course-store/internal/model"
	"course-store/internal/repository"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create([]*model.Course{
		{
			ID:          "course-ars",
			Title:       "Fotografía desde cero",
			Description: "Curso completo de fotografía",
			Price:       decimal.NewFromInt(1000),
			Currency:    "ARS",
		},
		{
			ID:          "course-usd",
			Title:       "Advanced Lightroom",
			Description: "Editing masterclass",
			Price:       decimal.NewFromInt(30),
			Currency:    "USD",
		},
	}).Error)
}

func newCheckoutFixture(t *testing.T, gw *fakeGateway) (CheckoutService, CartService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	seedCatalog(t, db)

	cartRepo := repository.NewCartRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	checkout := NewCheckoutService(gw, "https://store.example.com", "ARS", cartRepo, courseRepo)
	cart := NewCartService(cartRepo, courseRepo)
	return checkout, cart, db
}

func TestBuildPreferenceMissingEmail(t *testing.T) {
	gw := &fakeGateway{}
	checkout, cart, _ := newCheckoutFixture(t, gw)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, "buyer-1", "course-ars", 1))

	_, err := checkout.BuildPreference(ctx, Buyer{ID: "buyer-1"}, "es")
	assert.ErrorIs(t, err, ErrMissingIdentity)
	assert.Equal(t, int32(0), gw.preferenceCalls.Load())
}

func TestBuildPreferenceEmptyCart(t *testing.T) {
	gw := &fakeGateway{}
	checkout, cart, _ := newCheckoutFixture(t, gw)
	ctx := context.Background()

	// Only a USD line; nothing eligible for an ARS checkout.
	require.NoError(t, cart.AddItem(ctx, "buyer-1", "course-usd", 1))

	_, err := checkout.BuildPreference(ctx, Buyer{ID: "buyer-1", Email: "buyer@example.com"}, "es")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, int32(0), gw.preferenceCalls.Load())
}

func TestBuildPreferenceExcludesOtherCurrencies(t *testing.T) {
	gw := &fakeGateway{
		preferenceResp: &model.PreferenceResponse{
			ID:        "pref-1",
			InitPoint: "https://mp.example.com/init/pref-1",
		},
	}
	checkout, cart, _ := newCheckoutFixture(t, gw)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, "buyer-1", "course-ars", 1))
	require.NoError(t, cart.AddItem(ctx, "buyer-1", "course-usd", 1))

	url, err := checkout.BuildPreference(ctx, Buyer{ID: "buyer-1", Email: "buyer@example.com"}, "es")
	require.NoError(t, err)
	assert.Equal(t, "https://mp.example.com/init/pref-1", url)
	assert.Equal(t, int32(1), gw.preferenceCalls.Load())

	pref := gw.lastPreference
	require.NotNil(t, pref)
	require.Len(t, pref.Items, 1)
	assert.Equal(t, "course-ars", pref.Items[0].ID)
	assert.Equal(t, "Fotografía desde cero", pref.Items[0].Title)
	assert.True(t, pref.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)))

	assert.Equal(t, "buyer@example.com", pref.Metadata.BuyerEmail)
	assert.Equal(t, "https://store.example.com/es/checkout/success", pref.BackURLs.Success)
	assert.Equal(t, "https://store.example.com/es/checkout/failure", pref.BackURLs.Failure)
	assert.Equal(t, "https://store.example.com/es/checkout/pending", pref.BackURLs.Pending)
	assert.Equal(t, "https://store.example.com/api/payments/webhook", pref.NotificationURL)
}

func TestBuildPreferenceNoInitPoint(t *testing.T) {
	gw := &fakeGateway{
		preferenceResp: &model.PreferenceResponse{ID: "pref-1"},
	}
	checkout, cart, _ := newCheckoutFixture(t, gw)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, "buyer-1", "course-ars", 1))

	_, err := checkout.BuildPreference(ctx, Buyer{ID: "buyer-1", Email: "buyer@example.com"}, "es")
	assert.ErrorIs(t, err, ErrGatewayResponse)
	// Fatal, not retried: a retried checkout creates a fresh preference.
	assert.Equal(t, int32(1), gw.preferenceCalls.Load())
}

func TestBuildPreferenceDoesNotClearCart(t *testing.T) {
	gw := &fakeGateway{
		preferenceResp: &model.PreferenceResponse{
			ID:        "pref-1",
			InitPoint: "https://mp.example.com/init/pref-1",
		},
	}
	checkout, cart, _ := newCheckoutFixture(t, gw)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, "buyer-1", "course-ars", 1))

	_, err := checkout.BuildPreference(ctx, Buyer{ID: "buyer-1", Email: "buyer@example.com"}, "es")
	require.NoError(t, err)

	view, err := cart.Get(ctx, "buyer-1", "ARS")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}
