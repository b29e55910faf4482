// Package routes defines the API routing configuration. It wires
// repositories into services and services into handlers, then registers all
// HTTP routes.
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"vigil/internal/config"
	"vigil/internal/handlers"
	"vigil/internal/repositories"
	"vigil/internal/services/alert"
	"vigil/internal/services/engine"
	"vigil/internal/services/monitor"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	transactionRepo := repositories.NewTransactionRepository(db)
	alertRepo := repositories.NewAlertRepository(db)

	// Services, in dependency order
	monitorCfg := config.LoadMonitorConfig()
	ruleEngine := engine.New(monitorCfg)
	log.Printf("rule engine initialized, active rules: %v", ruleEngine.ActiveRules())

	alertService := alert.NewService(alertRepo, repositories.CacheService)
	monitorService := monitor.NewService(
		transactionRepo,
		ruleEngine,
		alertService,
		repositories.CacheService,
		monitorCfg.SerializePerUser,
	)

	// Handlers
	transactionHandler := handlers.NewTransactionHandler(monitorService)
	alertHandler := handlers.NewAlertHandler(alertService)
	reportHandler := handlers.NewReportHandler(monitorService, ruleEngine)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	api.Post("/transactions", transactionHandler.ProcessTransaction)
	api.Get("/transactions", transactionHandler.GetTransactions)
	api.Get("/transactions/:id", transactionHandler.GetTransaction)

	// Register /alerts/stats before /alerts/:id so "stats" is not taken
	// for an alert id.
	api.Get("/alerts/stats", alertHandler.GetAlertStats)
	api.Get("/alerts", alertHandler.GetAlerts)
	api.Get("/alerts/:id", alertHandler.GetAlert)
	api.Put("/alerts/:id/resolve", alertHandler.ResolveAlert)

	api.Get("/reports/daily", reportHandler.DailyReport)
	api.Get("/users/:id/stats", transactionHandler.GetUserStats)
	api.Get("/rules", reportHandler.ActiveRules)

	api.Get("/debug/cache-stats", handlers.CacheStats)
}
