package service

import (
	"context"
	"course-store/internal/model"
	"course-store/internal/repository"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartView is a buyer's cart partitioned by the requested currency. Excluded
// carries lines priced in other currencies so they are surfaced to the buyer
// instead of silently dropped from the total.
type CartView struct {
	Items    []*model.CartItem
	Excluded []*model.CartItem
	Total    decimal.Decimal
	Currency string
}

type CartService interface {
	Get(ctx context.Context, buyerID, currency string) (*CartView, error)
	AddItem(ctx context.Context, buyerID, courseID string, quantity int32) error
	SetQuantity(ctx context.Context, buyerID, courseID string, quantity int32) error
	RemoveItem(ctx context.Context, buyerID, courseID string) error
	Clear(ctx context.Context, buyerID string) error
}

type cartServiceImpl struct {
	cartRepo   repository.CartRepository
	courseRepo repository.CourseRepository
}

func NewCartService(cartRepo repository.CartRepository, courseRepo repository.CourseRepository) CartService {
	return &cartServiceImpl{
		cartRepo:   cartRepo,
		courseRepo: courseRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, buyerID, currency string) (*CartView, error) {
	lines, err := s.cartRepo.Get(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	view := &CartView{
		Total:    decimal.Zero,
		Currency: currency,
	}
	for _, line := range lines {
		if line.Currency != currency {
			view.Excluded = append(view.Excluded, line)
			continue
		}
		view.Items = append(view.Items, line)
		view.Total = view.Total.Add(line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	return view, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, buyerID, courseID string, quantity int32) error {
	if quantity <= 0 {
		return fmt.Errorf("item quantity must be positive")
	}

	// Price and currency are snapshotted from the catalog; the cart stores
	// any currency, checkout filters later.
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("find course: %w", err)
	}

	return s.cartRepo.AddItem(ctx, &model.CartItem{
		BuyerID:   buyerID,
		CourseID:  course.ID,
		UnitPrice: course.Price,
		Currency:  course.Currency,
		Quantity:  quantity,
	})
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, buyerID, courseID string, quantity int32) error {
	if quantity <= 0 {
		return s.cartRepo.RemoveItem(ctx, buyerID, courseID)
	}

	return s.cartRepo.SetQuantity(ctx, buyerID, courseID, quantity)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, buyerID, courseID string) error {
	return s.cartRepo.RemoveItem(ctx, buyerID, courseID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, buyerID string) error {
	return s.cartRepo.Clear(ctx, buyerID)
}
