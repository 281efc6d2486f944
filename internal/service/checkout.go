package service

import (
	"context"
	"course-store/internal/client"
	"course-store/internal/model"
	"course-store/internal/repository"
	"fmt"
)

// Buyer is the identity a checkout is attributed to. Email must already be
// verified by the auth layer; the granter later matches it against the
// gateway-echoed metadata.
type Buyer struct {
	ID    string
	Email string
}

type CheckoutService interface {
	// BuildPreference declares the pending purchase with the gateway and
	// returns the redirect URL the buyer completes payment at. A new
	// preference is created on every call, retries included.
	BuildPreference(ctx context.Context, buyer Buyer, locale string) (string, error)
}

type checkoutServiceImpl struct {
	mpClient         client.MercadoPagoClient
	serviceBaseUrl   string
	checkoutCurrency string
	cartRepo         repository.CartRepository
	courseRepo       repository.CourseRepository
}

func NewCheckoutService(
	mpClient client.MercadoPagoClient,
	serviceBaseUrl string,
	checkoutCurrency string,
	cartRepo repository.CartRepository,
	courseRepo repository.CourseRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		mpClient:         mpClient,
		serviceBaseUrl:   serviceBaseUrl,
		checkoutCurrency: checkoutCurrency,
		cartRepo:         cartRepo,
		courseRepo:       courseRepo,
	}
}

func (s *checkoutServiceImpl) BuildPreference(ctx context.Context, buyer Buyer, locale string) (string, error) {
	if buyer.Email == "" {
		return "", ErrMissingIdentity
	}

	lines, err := s.cartRepo.Get(ctx, buyer.ID)
	if err != nil {
		return "", fmt.Errorf("get cart items: %w", err)
	}

	eligible := make([]*model.CartItem, 0, len(lines))
	courseIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Currency != s.checkoutCurrency {
			continue
		}
		eligible = append(eligible, line)
		courseIDs = append(courseIDs, line.CourseID)
	}
	if len(eligible) == 0 {
		return "", ErrEmptyCart
	}

	courses, err := s.courseRepo.FindMany(ctx, courseIDs)
	if err != nil {
		return "", fmt.Errorf("get courses for cart: %w", err)
	}
	courseByID := make(map[string]*model.Course, len(courses))
	for _, course := range courses {
		courseByID[course.ID] = course
	}

	items := make([]model.PreferenceItem, 0, len(eligible))
	for _, line := range eligible {
		item := model.PreferenceItem{
			ID:         line.CourseID,
			CurrencyID: line.Currency,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		}
		if course, ok := courseByID[line.CourseID]; ok {
			item.Title = course.Title
			item.Description = course.Description
		}
		items = append(items, item)
	}

	prefReq := &model.PreferenceRequest{
		Items: items,
		Payer: model.PreferencePayer{Email: buyer.Email},
		// The gateway echoes metadata back on the payment record; this is
		// the only channel used to attribute the payment to a buyer.
		Metadata: model.PreferenceMetadata{BuyerEmail: buyer.Email},
		BackURLs: model.BackURLs{
			Success: fmt.Sprintf("%s/%s/checkout/success", s.serviceBaseUrl, locale),
			Failure: fmt.Sprintf("%s/%s/checkout/failure", s.serviceBaseUrl, locale),
			Pending: fmt.Sprintf("%s/%s/checkout/pending", s.serviceBaseUrl, locale),
		},
		NotificationURL: fmt.Sprintf("%s/api/payments/webhook", s.serviceBaseUrl),
		AutoReturn:      "approved",
	}

	resp, err := s.mpClient.CreatePreference(ctx, prefReq)
	if err != nil {
		return "", fmt.Errorf("mercadopago create preference: %w", err)
	}
	if resp.InitPoint == "" {
		return "", ErrGatewayResponse
	}

	// The cart is not cleared here; only a confirmed payment clears it.
	return resp.InitPoint, nil
}
