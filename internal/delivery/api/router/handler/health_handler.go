package handler

import (
	"net/http"

	"postboard/config"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RootHandler serves the public banner.
type RootHandler struct {
	serviceName string
}

// NewRootHandler creates a RootHandler named after the configured service.
func NewRootHandler(cfg *config.Config) *RootHandler {
	name := cfg.Env.ServiceName
	if name == "" {
		name = "postboard"
	}

	return &RootHandler{serviceName: name}
}

// Banner answers GET /.
func (h *RootHandler) Banner(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the " + h.serviceName + " API",
	})
}
