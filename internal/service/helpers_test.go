package service

import (
	"context"
	"course-store/internal/model"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Course{},
		&model.CartItem{},
		&model.EntitlementGrant{},
		&model.WebhookEvent{},
		&model.User{},
	))

	return db
}

// fakeGateway implements client.MercadoPagoClient for tests.
type fakeGateway struct {
	preferenceCalls atomic.Int32
	lastPreference  *model.PreferenceRequest
	preferenceResp  *model.PreferenceResponse
	preferenceErr   error

	paymentCalls atomic.Int32
	payments     map[string]*model.PaymentRecord
	paymentErr   error
}

func (f *fakeGateway) CreatePreference(ctx context.Context, req *model.PreferenceRequest) (*model.PreferenceResponse, error) {
	f.preferenceCalls.Add(1)
	f.lastPreference = req
	if f.preferenceErr != nil {
		return nil, f.preferenceErr
	}
	return f.preferenceResp, nil
}

func (f *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*model.PaymentRecord, error) {
	f.paymentCalls.Add(1)
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	record, ok := f.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("mercadopago error 404: payment not found")
	}
	return record, nil
}
