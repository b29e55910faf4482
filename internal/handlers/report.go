package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"vigil/internal/services/engine"
	"vigil/internal/services/monitor"
	"vigil/internal/utils/response"
)

type ReportHandler struct {
	monitor *monitor.Service
	engine  *engine.Engine
}

func NewReportHandler(monitorSvc *monitor.Service, eng *engine.Engine) *ReportHandler {
	return &ReportHandler{monitor: monitorSvc, engine: eng}
}

// DailyReport handles GET /api/reports/daily?date=YYYY-MM-DD, defaulting to
// today.
func (h *ReportHandler) DailyReport(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "date must be in YYYY-MM-DD format")
		}
		date = parsed
	}

	report, err := h.monitor.Report(c.Context(), date)
	if err != nil {
		log.Printf("error generating daily report: %v", err)
		return response.ServerError(c)
	}
	return c.JSON(report)
}

// ActiveRules handles GET /api/rules, exposing the enabled rule catalog for
// operational diagnostics.
func (h *ReportHandler) ActiveRules(c *fiber.Ctx) error {
	rules := h.engine.ActiveRules()
	return c.JSON(fiber.Map{
		"count": len(rules),
		"rules": rules,
	})
}
