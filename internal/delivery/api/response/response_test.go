package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "postboard/internal/delivery/context"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	deliverycontext.SetRequestID(c, "req-1")

	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestSuccess(t *testing.T) {
	c, rec := newContext(t)

	require.NoError(t, Success(c, http.StatusCreated, map[string]string{"k": "v"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"k":"v"},"meta":{"request_id":"req-1"}}`, rec.Body.String())
}

func TestError_DropsDetailsForAuthAndServerErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		c, rec := newContext(t)

		require.NoError(t, Error(c, status, "CODE", "message", "secret detail"))

		body := decodeError(t, rec)
		assert.Equal(t, status, rec.Code)
		assert.Nil(t, body.Error.Details, "status %d", status)
		assert.NotContains(t, rec.Body.String(), "secret detail")
	}
}

func TestHandleAppError(t *testing.T) {
	t.Run("domain error with details", func(t *testing.T) {
		c, rec := newContext(t)

		err := HandleAppError(c, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("title is required"), "create post"))
		require.NoError(t, err)

		body := decodeError(t, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Equal(t, "title is required", body.Error.Details)
		assert.Equal(t, "req-1", body.Meta.RequestID)
	})

	t.Run("domain error without details omits the field", func(t *testing.T) {
		c, rec := newContext(t)

		require.NoError(t, HandleAppError(c, domainerrors.ErrUsernameTaken))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, rec.Body.String(), "details")
	})

	t.Run("unknown error is passed on", func(t *testing.T) {
		c, rec := newContext(t)
		cause := errors.New("boom")

		err := HandleAppError(c, cause)

		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.Zero(t, rec.Body.Len())
	})
}
