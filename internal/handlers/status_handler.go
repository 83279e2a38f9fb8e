package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is implemented by every user store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusHandler reports readiness of the service and its store
type StatusHandler struct {
	store     Pinger
	driver    string
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewStatusHandler reports on store under the given driver name.
func NewStatusHandler(store Pinger, driver, version string) *StatusHandler {
	return &StatusHandler{
		store:     store,
		driver:    driver,
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// SystemStatus is the /auth/status body.
type SystemStatus struct {
	Status    string      `json:"status"`
	Uptime    int64       `json:"uptime"`
	Version   string      `json:"version,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Store     StoreStatus `json:"store"`
}

// StoreStatus describes the configured user store.
type StoreStatus struct {
	Driver       string `json:"driver"`
	Status       string `json:"status"`
	ResponseTime int64  `json:"responseTime"`
	Error        string `json:"error,omitempty"`
}

// Status handles GET /auth/status
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	status := SystemStatus{
		Status:    "online",
		Uptime:    int64(time.Since(h.startTime).Seconds()),
		Version:   h.version,
		Timestamp: time.Now(),
		Store:     StoreStatus{Driver: h.driver, Status: "online"},
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	pingStart := time.Now()
	err := h.store.Ping(ctx)
	status.Store.ResponseTime = time.Since(pingStart).Milliseconds()

	code := fiber.StatusOK
	if err != nil {
		status.Status = "degraded"
		status.Store.Status = "offline"
		status.Store.Error = err.Error()
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(status)
}
