package handler

import (
	"course-store/internal/dto"
	"course-store/internal/middleware"
	"course-store/internal/service"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
	sessions    *service.SessionCoordinator
}

func NewAuthHandler(authService service.AuthService, sessions *service.SessionCoordinator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.authService.Register(ctx, req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.IdentityResponse{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return err
	}

	// Drop any stale in-flight verification from before this login.
	h.sessions.Reset()

	return c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Reset()
	return c.NoContent(http.StatusNoContent)
}

// Me is the endpoint behind the coalesced "am I logged in" check; the
// middleware already resolved the identity through the coordinator.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	return c.JSON(http.StatusOK, dto.IdentityResponse{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
	})
}
