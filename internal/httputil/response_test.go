package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedCode  int
		expectedError string
	}{
		{name: "secret not found", err: secretsDomain.ErrSecretNotFound, expectedCode: http.StatusNotFound, expectedError: "not_found"},
		{name: "passphrase mismatch", err: secretsDomain.ErrPassphraseMismatch, expectedCode: http.StatusForbidden, expectedError: "forbidden"},
		{name: "invalid ttl", err: secretsDomain.ErrInvalidTTL, expectedCode: http.StatusUnprocessableEntity, expectedError: "invalid_input"},
		{name: "conflict", err: apperrors.ErrConflict, expectedCode: http.StatusConflict, expectedError: "conflict"},
		{name: "store unavailable", err: secretsDomain.ErrStoreUnavailable, expectedCode: http.StatusServiceUnavailable, expectedError: "service_unavailable"},
		{name: "decryption failure", err: cryptoDomain.ErrDecryptionFailed, expectedCode: http.StatusInternalServerError, expectedError: "internal_error"},
		{name: "unknown error", err: errors.New("db exploded: password=hunter2"), expectedCode: http.StatusInternalServerError, expectedError: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response.Error)
			assert.NotContains(t, w.Body.String(), "hunter2")
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, nil, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("unexpected EOF"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"unexpected EOF"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()

	HandleValidationErrorGin(c, errors.New("secret: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"secret: cannot be blank."}`, w.Body.String())
}
