package handler

import (
	"course-store/internal/dto"
	"course-store/internal/model"
	"course-store/internal/service"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleNotification acknowledges every delivery it could parse. The gateway
// reads non-2xx as "redeliver"; only a body we cannot decode warrants that.
func (h *WebhookHandler) HandleNotification(c echo.Context) error {
	ctx := c.Request().Context()

	var notif model.WebhookNotification
	if err := c.Bind(&notif); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification body")
	}

	if err := h.webhookService.HandleNotification(ctx, &notif); err != nil {
		log.Printf("webhook handler: %v", err)
	}

	return c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}
