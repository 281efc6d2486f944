package service

import (
	"context"
	"course-store/internal/model"
	"course-store/internal/repository"
	"errors"
	"fmt"
	"log"
	"time"
)

type EntitlementService interface {
	// Grant records access to each course for the buyer, idempotently under
	// arbitrary redelivery of the same paymentID. Course grants are
	// independent: one failing does not roll back the others, it is retried
	// on the next redelivery.
	Grant(ctx context.Context, buyerEmail string, courseIDs []string, paymentID string) error
	PurchasedCourses(ctx context.Context, buyerEmail string) ([]*model.Course, error)
	HasAccess(ctx context.Context, buyerEmail, courseID string) (bool, error)
}

type entitlementServiceImpl struct {
	entitlementRepo repository.EntitlementRepository
	courseRepo      repository.CourseRepository
}

func NewEntitlementService(
	entitlementRepo repository.EntitlementRepository,
	courseRepo repository.CourseRepository,
) EntitlementService {
	return &entitlementServiceImpl{
		entitlementRepo: entitlementRepo,
		courseRepo:      courseRepo,
	}
}

func (s *entitlementServiceImpl) Grant(ctx context.Context, buyerEmail string, courseIDs []string, paymentID string) error {
	var failed []error

	for _, courseID := range courseIDs {
		granted, err := s.entitlementRepo.HasAccess(ctx, buyerEmail, courseID)
		if err != nil {
			failed = append(failed, fmt.Errorf("check access for course %s: %w", courseID, err))
			continue
		}
		if granted {
			continue
		}

		inserted, err := s.entitlementRepo.Insert(ctx, &model.EntitlementGrant{
			PaymentID:  paymentID,
			CourseID:   courseID,
			BuyerEmail: buyerEmail,
			GrantedAt:  time.Now(),
		})
		if err != nil {
			failed = append(failed, fmt.Errorf("grant course %s: %w", courseID, err))
			continue
		}
		if !inserted {
			// Lost the race against a concurrent delivery of the same
			// payment; the other delivery wrote the row.
			log.Printf("duplicate grant skipped payment=%s course=%s", paymentID, courseID)
		}
	}

	return errors.Join(failed...)
}

func (s *entitlementServiceImpl) PurchasedCourses(ctx context.Context, buyerEmail string) ([]*model.Course, error) {
	grants, err := s.entitlementRepo.ListByEmail(ctx, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	if len(grants) == 0 {
		return []*model.Course{}, nil
	}

	courseIDs := make([]string, 0, len(grants))
	for _, grant := range grants {
		courseIDs = append(courseIDs, grant.CourseID)
	}

	return s.courseRepo.FindMany(ctx, courseIDs)
}

func (s *entitlementServiceImpl) HasAccess(ctx context.Context, buyerEmail, courseID string) (bool, error) {
	return s.entitlementRepo.HasAccess(ctx, buyerEmail, courseID)
}
