package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsSurvivesCopies(t *testing.T) {
	withDetails := ErrUsernameTaken.WithDetails(map[string]string{"username": "taken"})
	wrapped := fmt.Errorf("signup: %w", withDetails)

	assert.True(t, errors.Is(wrapped, ErrUsernameTaken))
	assert.False(t, errors.Is(wrapped, ErrEmailTaken))
	assert.Nil(t, ErrUsernameTaken.Details, "predefined error must stay untouched")
}

func TestAppError_UnwrapCause(t *testing.T) {
	cause := errors.New("disk full")
	err := InternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
}

func TestAppError_MarshalJSONHidesInternals(t *testing.T) {
	err := Wrap(errors.New("secret"), CodeNotFound, "media", "Media file not found", http.StatusNotFound)

	raw, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"NOT_FOUND","domain":"media","message":"Media file not found"}`, string(raw))
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		debug      bool
		wantStatus int
		wantMsg    string
		wantCause  bool
	}{
		{name: "app error", err: ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantMsg: ErrInvalidCredentials.Message},
		{name: "plain error hidden", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
		{name: "plain error in debug", err: errors.New("boom"), debug: true, wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error", wantCause: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebug(tt.debug)
			t.Cleanup(func() { SetDebug(false) })

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			var body struct {
				Error struct {
					Message string                 `json:"message"`
					Details map[string]interface{} `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error.Message)
			if tt.wantCause {
				assert.Equal(t, "boom", body.Error.Details["cause"])
			} else {
				assert.Nil(t, body.Error.Details["cause"])
			}
		})
	}
}
