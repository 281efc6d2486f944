package handler

import (
	"course-store/internal/dto"
	"course-store/internal/middleware"
	"course-store/internal/model"
	"course-store/internal/service"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService      service.CartService
	checkoutCurrency string
}

func NewCartHandler(cartService service.CartService, checkoutCurrency string) *CartHandler {
	return &CartHandler{
		cartService:      cartService,
		checkoutCurrency: checkoutCurrency,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	view, err := h.cartService.Get(ctx, identity.UserID, h.checkoutCurrency)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCartResponse(view))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	if err := h.cartService.AddItem(ctx, identity.UserID, req.CourseID, req.Quantity); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "course not found")
		}
		return err
	}

	return h.GetCart(c)
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req dto.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cartService.SetQuantity(ctx, identity.UserID, c.Param("id"), req.Quantity); err != nil {
		return err
	}

	return h.GetCart(c)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	if err := h.cartService.RemoveItem(ctx, identity.UserID, c.Param("id")); err != nil {
		return err
	}

	return h.GetCart(c)
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	if err := h.cartService.Clear(ctx, identity.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func toCartResponse(view *service.CartView) dto.CartResponse {
	resp := dto.CartResponse{
		Items:    make([]dto.CartLine, 0, len(view.Items)),
		Excluded: make([]dto.CartLine, 0, len(view.Excluded)),
		Total:    view.Total,
		Currency: view.Currency,
	}
	for _, line := range view.Items {
		resp.Items = append(resp.Items, toCartLine(line))
	}
	for _, line := range view.Excluded {
		resp.Excluded = append(resp.Excluded, toCartLine(line))
	}
	return resp
}

func toCartLine(item *model.CartItem) dto.CartLine {
	return dto.CartLine{
		CourseID:  item.CourseID,
		UnitPrice: item.UnitPrice,
		Currency:  item.Currency,
		Quantity:  item.Quantity,
	}
}
