package middleware

import (
	"log/slog"
	"net/http"

	"postboard/internal/delivery/api/response"
	deliverycontext "postboard/internal/delivery/context"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/errors"

	"github.com/labstack/echo/v4"
)

// echoErrorCodes names the framework errors clients can trigger.
var echoErrorCodes = map[int]string{
	http.StatusBadRequest:            "BAD_REQUEST",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
}

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.String("code", appErr.ErrorCode()),
				slog.Any("error", err),
			)
		}

		var details any
		if d := appErr.Details(); d != "" {
			details = d
		}
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		m.handleEchoError(c, logger, httpErr)

		return
	}

	// Unknown errors never reach the client
	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error, please try again later")
}

func (m *ErrorMiddleware) handleEchoError(c echo.Context, logger *slog.Logger, httpErr *echo.HTTPError) {
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("Framework error",
			slog.Int("status", httpErr.Code),
			slog.Any("error", httpErr),
		)
		_ = response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error, please try again later")

		return
	}

	code, ok := echoErrorCodes[httpErr.Code]
	if !ok {
		code = "HTTP_ERROR"
	}

	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}

	_ = response.Error(c, httpErr.Code, code, message, nil)
}
