// Package middleware holds the API-only echo middleware: authentication and
// the central error handler.
package middleware

import (
	"log/slog"

	"postboard/internal/delivery/api/response"
	deliverycontext "postboard/internal/delivery/context"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/service"
	"postboard/internal/errors"

	"github.com/labstack/echo/v4"
)

const headerWWWAuthenticate = "WWW-Authenticate"

// AuthMiddleware guards routes with the authorization gate.
type AuthMiddleware struct {
	gate   service.AuthorizationGate
	logger *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(gate service.AuthorizationGate, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{gate: gate, logger: logger}
}

// Authenticate resolves the caller's identity from the Authorization header.
// Every rejection answers with the same 401 body; the reason is only logged.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := m.gate.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			reason := "unknown"
			var rejection *service.AuthRejection
			if errors.As(err, &rejection) {
				reason = rejection.Kind.String()
			}

			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Info("Request rejected by authorization gate",
				slog.String("reason", reason),
				slog.String("path", c.Path()),
			)

			c.Response().Header().Set(headerWWWAuthenticate, "Bearer")

			return response.HandleAppError(c, domainerrors.ErrUnauthenticated)
		}

		deliverycontext.SetIdentity(c, identity)

		return next(c)
	}
}
