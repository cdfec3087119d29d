package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postboard/internal/delivery/api/response"
	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/service"
	mockService "postboard/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		rejection service.RejectionKind
	}{
		{name: "missing header", header: "", rejection: service.RejectionUnauthenticated},
		{name: "wrong scheme", header: "Basic abc", rejection: service.RejectionMalformedCredential},
		{name: "expired token", header: "Bearer expired", rejection: service.RejectionInvalidOrExpired},
	}

	var bodies []string
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gate := mockService.NewMockAuthorizationGate(t)
			gate.EXPECT().Authorize(tc.header).Return(service.Identity{}, &service.AuthRejection{Kind: tc.rejection})

			m := NewAuthMiddleware(gate, newDiscardLogger())

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			err := m.Authenticate(func(echo.Context) error {
				called = true

				return nil
			})(c)

			require.NoError(t, err)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
			assert.Equal(t, "Invalid or missing credentials", body.Error.Message)

			bodies = append(bodies, rec.Body.String())
		})
	}

	require.Len(t, bodies, len(testCases))
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body, "rejections must be indistinguishable")
	}
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	gate := mockService.NewMockAuthorizationGate(t)
	gate.EXPECT().Authorize("Bearer good").Return(service.Identity{Subject: "alice"}, nil)

	m := NewAuthMiddleware(gate, newDiscardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got service.Identity
	err := m.Authenticate(func(c echo.Context) error {
		identity, ok := deliverycontext.GetIdentity(c)
		require.True(t, ok)
		got = identity

		return c.NoContent(http.StatusNoContent)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "alice", got.Subject)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
