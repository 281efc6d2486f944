package service

import (
	"context"
	"course-store/internal/client"
	"course-store/internal/model"
	"course-store/internal/repository"
	"errors"
	"log"

	"gorm.io/gorm"
)

// WebhookService processes gateway notifications. Every expected outcome,
// including malformed or irrelevant events, resolves without error so the
// HTTP layer can acknowledge and the gateway is never led to retry forever.
// Redelivery is always safe because granting is idempotent.
type WebhookService interface {
	HandleNotification(ctx context.Context, notif *model.WebhookNotification) error
}

type webhookServiceImpl struct {
	mpClient           client.MercadoPagoClient
	entitlementService EntitlementService
	webhookEventRepo   repository.WebhookEventRepository
	cartRepo           repository.CartRepository
	userRepo           repository.UserRepository
}

func NewWebhookService(
	mpClient client.MercadoPagoClient,
	entitlementService EntitlementService,
	webhookEventRepo repository.WebhookEventRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
) WebhookService {
	return &webhookServiceImpl{
		mpClient:           mpClient,
		entitlementService: entitlementService,
		webhookEventRepo:   webhookEventRepo,
		cartRepo:           cartRepo,
		userRepo:           userRepo,
	}
}

func (s *webhookServiceImpl) HandleNotification(ctx context.Context, notif *model.WebhookNotification) error {
	if notif.Type != "payment" {
		log.Printf("webhook: ignoring event type=%q", notif.Type)
		return nil
	}
	paymentID := notif.Data.ID
	if paymentID == "" {
		log.Printf("webhook: payment event without an id, dropping")
		return nil
	}

	if seen, err := s.webhookEventRepo.Exists(paymentID); err == nil && seen {
		// Expected traffic, not an error. Processing continues anyway:
		// the conditional insert makes redelivery safe, and a redelivery
		// may be the one that completes a partially failed grant.
		log.Printf("webhook: duplicate delivery payment=%s", paymentID)
	}

	// Never trust the notification body. The record fetched by id from the
	// gateway is the single source of truth for whether a sale occurred.
	record, err := s.mpClient.GetPayment(ctx, paymentID)
	if err != nil {
		log.Printf("webhook: payment %s could not be resolved, dropping: %v", paymentID, err)
		return nil
	}

	if record.Status != model.PaymentStatusApproved {
		log.Printf("webhook: payment %s status=%s, no action", paymentID, record.Status)
		s.markProcessed(paymentID, notif.Type)
		return nil
	}

	buyerEmail := record.Metadata.BuyerEmail
	courseIDs := record.CourseIDs()
	if buyerEmail == "" || len(courseIDs) == 0 {
		// Operator follow-up required; acknowledging anyway avoids a retry
		// storm the gateway would otherwise mount.
		log.Printf("webhook: INTEGRITY payment %s approved but email=%q items=%d", paymentID, buyerEmail, len(courseIDs))
		return nil
	}

	if err := s.entitlementService.Grant(ctx, buyerEmail, courseIDs, paymentID); err != nil {
		// Failed course grants are retried on the next redelivery.
		log.Printf("webhook: partial grant failure payment=%s: %v", paymentID, err)
		return nil
	}

	s.clearBuyerCart(ctx, buyerEmail)
	s.markProcessed(paymentID, notif.Type)
	return nil
}

func (s *webhookServiceImpl) markProcessed(paymentID, eventType string) {
	if err := s.webhookEventRepo.MarkProcessed(paymentID, eventType); err != nil {
		log.Printf("webhook: mark processed payment=%s: %v", paymentID, err)
	}
}

// clearBuyerCart empties the cart of the account matching the gateway-echoed
// email, if one exists. Account-less grants simply have no cart to clear.
func (s *webhookServiceImpl) clearBuyerCart(ctx context.Context, buyerEmail string) {
	user, err := s.userRepo.FindByEmail(ctx, buyerEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook: find buyer %s: %v", buyerEmail, err)
		}
		return
	}
	if err := s.cartRepo.Clear(ctx, user.ID); err != nil {
		log.Printf("webhook: clear cart for %s: %v", buyerEmail, err)
	}
}
