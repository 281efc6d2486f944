package repository

import (
	"context"
	"course-store/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Get(ctx context.Context, buyerID string) ([]*model.CartItem, error)
	AddItem(ctx context.Context, item *model.CartItem) error
	SetQuantity(ctx context.Context, buyerID, courseID string, quantity int32) error
	RemoveItem(ctx context.Context, buyerID, courseID string) error
	Clear(ctx context.Context, buyerID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{db: db}
}

func (r *cartRepoImpl) Get(ctx context.Context, buyerID string) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// AddItem merges with an existing line for the same course by incrementing
// its quantity.
func (r *cartRepoImpl) AddItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "buyer_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) SetQuantity(ctx context.Context, buyerID, courseID string, quantity int32) error {
	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("buyer_id = ? AND course_id = ?", buyerID, courseID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, buyerID, courseID string) error {
	return r.db.WithContext(ctx).
		Where("buyer_id = ? AND course_id = ?", buyerID, courseID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) Clear(ctx context.Context, buyerID string) error {
	return r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Delete(&model.CartItem{}).Error
}
