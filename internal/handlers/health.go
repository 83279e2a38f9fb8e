package handlers

import "github.com/gofiber/fiber/v2"

const (
	helloText  = "Hello from PixieChat Auth Service! 🚀"
	healthText = "Service is healthy and running! ✅"
)

// Hello handles GET /auth/hello
func Hello(c *fiber.Ctx) error {
	return c.SendString(helloText)
}

// Health handles GET /auth/health. It is a liveness probe and never touches
// the store; see StatusHandler for readiness.
func Health(c *fiber.Ctx) error {
	return c.SendString(healthText)
}
