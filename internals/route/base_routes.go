package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func BaseRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Masjid Finder API",
			"data": fiber.Map{
				"version": "1.0.0",
				"endpoints": fiber.Map{
					"auth":     "/api/auth",
					"masjids":  "/api/masjids",
					"requests": "/api/requests",
					"health":   "/api/health",
				},
			},
		})
	})

	app.Get("/api/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"success":        httpStatus == fiber.StatusOK,
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    deps.Environment,
		})
	})
}
