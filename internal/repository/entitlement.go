package repository

import (
	"context"
	"course-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntitlementRepository interface {
	// Insert writes one grant unless the (payment_id, course_id) pair already
	// exists. Returns false when the row was already there. The conditional
	// insert is the concurrency control for duplicate webhook deliveries.
	Insert(ctx context.Context, grant *model.EntitlementGrant) (bool, error)
	HasAccess(ctx context.Context, buyerEmail, courseID string) (bool, error)
	ListByEmail(ctx context.Context, buyerEmail string) ([]*model.EntitlementGrant, error)
	CountByPayment(ctx context.Context, paymentID string) (int64, error)
}

type entitlementRepoImpl struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepoImpl{db: db}
}

func (r *entitlementRepoImpl) Insert(ctx context.Context, grant *model.EntitlementGrant) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(grant)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *entitlementRepoImpl) HasAccess(ctx context.Context, buyerEmail, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EntitlementGrant{}).
		Where("buyer_email = ? AND course_id = ?", buyerEmail, courseID).
		Count(&count).Error

	return count > 0, err
}

func (r *entitlementRepoImpl) ListByEmail(ctx context.Context, buyerEmail string) ([]*model.EntitlementGrant, error) {
	var grants []*model.EntitlementGrant
	err := r.db.WithContext(ctx).
		Where("buyer_email = ?", buyerEmail).
		Order("granted_at").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}

	return grants, nil
}

func (r *entitlementRepoImpl) CountByPayment(ctx context.Context, paymentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EntitlementGrant{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error

	return count, err
}
