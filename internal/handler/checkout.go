package handler

import (
	"course-store/internal/dto"
	"course-store/internal/middleware"
	"course-store/internal/service"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreatePreference builds the gateway preference for the caller's cart and
// returns the redirect URL. Failures surface synchronously; the buyer sees
// the error before any redirect happens.
func (h *CheckoutHandler) CreatePreference(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Locale == "" {
		req.Locale = "es"
	}

	url, err := h.checkoutService.BuildPreference(ctx, service.Buyer{
		ID:    identity.UserID,
		Email: identity.Email,
	}, req.Locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, "cart has no items eligible for checkout")
		case errors.Is(err, service.ErrMissingIdentity):
			return echo.NewHTTPError(http.StatusBadRequest, "an email address is required to check out")
		default:
			// Gateway failures included: the buyer retries the whole checkout.
			return echo.NewHTTPError(http.StatusBadGateway, "payment provider unavailable, try again")
		}
	}

	return c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}
