package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"vigil/internal/services/alert"
	"vigil/internal/utils/response"
	"vigil/internal/validation"
)

type AlertHandler struct {
	alerts *alert.Service
}

func NewAlertHandler(alertSvc *alert.Service) *AlertHandler {
	return &AlertHandler{alerts: alertSvc}
}

// GetAlerts handles GET /api/alerts with optional status/severity filters.
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.alerts.List(c.Context(), c.Query("status"), c.Query("severity"))
	if err != nil {
		log.Printf("error retrieving alerts: %v", err)
		return response.ServerError(c)
	}

	return c.JSON(fiber.Map{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// GetAlert handles GET /api/alerts/:id.
func (h *AlertHandler) GetAlert(c *fiber.Ctx) error {
	a, err := h.alerts.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			return response.NotFound(c, "Alert not found")
		}
		log.Printf("error retrieving alert %s: %v", c.Params("id"), err)
		return response.ServerError(c)
	}
	return c.JSON(a)
}

type resolveAlertRequest struct {
	Resolution string `json:"resolution"`
	ReviewedBy string `json:"reviewed_by"`
	Notes      string `json:"notes"`
}

// ResolveAlert handles PUT /api/alerts/:id/resolve.
func (h *AlertHandler) ResolveAlert(c *fiber.Ctx) error {
	var req resolveAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.ValidateResolution(req.Resolution, req.ReviewedBy); err != nil {
		return response.BadRequest(c, err.Error())
	}

	a, err := h.alerts.Resolve(c.Context(), c.Params("id"), req.Resolution, req.ReviewedBy, req.Notes)
	if err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			return response.NotFound(c, "Alert not found")
		}
		log.Printf("error resolving alert %s: %v", c.Params("id"), err)
		return response.ServerError(c)
	}
	return c.JSON(a)
}

// GetAlertStats handles GET /api/alerts/stats.
func (h *AlertHandler) GetAlertStats(c *fiber.Ctx) error {
	stats, err := h.alerts.Statistics(c.Context())
	if err != nil {
		log.Printf("error aggregating alert statistics: %v", err)
		return response.ServerError(c)
	}
	return c.JSON(stats)
}
