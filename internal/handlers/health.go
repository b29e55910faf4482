package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"vigil/internal/repositories"
)

// HealthCheck reports liveness plus the state of the backing services.
func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "disabled"
	if repositories.CacheService != nil {
		redisStatus = "connected"
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			redisStatus = "unavailable"
		}
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "Transaction Monitoring API",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

// CacheStats exposes Redis pool statistics for debugging.
func CacheStats(c *fiber.Ctx) error {
	if repositories.CacheService == nil {
		return c.JSON(fiber.Map{"enabled": false})
	}

	poolStats := repositories.CacheService.PoolStats()
	return c.JSON(fiber.Map{
		"enabled": true,
		"pool_stats": fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		},
	})
}
