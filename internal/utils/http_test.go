package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(c echo.Context) error
		wantStatus int
		wantError  string
	}{
		{
			name:       "bad request",
			respond:    func(c echo.Context) error { return BadRequestResponse(c, "Invalid request payload") },
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request payload",
		},
		{
			name:       "unauthorized default message",
			respond:    func(c echo.Context) error { return UnauthorizedResponse(c, "") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "Unauthorized",
		},
		{
			name:       "internal error default message",
			respond:    func(c echo.Context) error { return InternalServerErrorResponse(c, "") },
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
		{
			name:       "custom status",
			respond:    func(c echo.Context) error { return ErrorResponseHandler(c, http.StatusConflict, "conflict") },
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, tt.respond(c))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantStatus, body.Code)
		})
	}
}
