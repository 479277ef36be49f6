// Package http provides HTTP handlers for one-time secret operations.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
	"github.com/secretdrop/secretdrop/internal/httputil"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
	"github.com/secretdrop/secretdrop/internal/secrets/http/dto"
	secretsUseCase "github.com/secretdrop/secretdrop/internal/secrets/usecase"
	customValidation "github.com/secretdrop/secretdrop/internal/validation"
)

// SecretHandler handles HTTP requests for one-time secrets.
type SecretHandler struct {
	secretUseCase   secretsUseCase.SecretUseCase
	maxPayloadBytes int
	logger          *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(
	secretUseCase secretsUseCase.SecretUseCase,
	maxPayloadBytes int,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{
		secretUseCase:   secretUseCase,
		maxPayloadBytes: maxPayloadBytes,
		logger:          logger,
	}
}

// CreateHandler stores a new secret.
// POST /v1/secrets - Returns 201 Created with the access key only.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateSecretRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(h.maxPayloadBytes); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := secretsUseCase.CreateInput{
		Payload:    []byte(req.Secret),
		Passphrase: []byte(req.Passphrase),
		TTLSeconds: req.TTLSeconds,
	}
	defer cryptoDomain.Zero(input.Payload, input.Passphrase)

	accessKey, err := h.secretUseCase.Create(c.Request.Context(), input, requestMeta(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateSecretResponse{SecretKey: accessKey})
}

// ReadHandler returns the plaintext and destroys the secret.
// GET /v1/secrets/:secret_key - Returns 200 OK once, 404 Not Found afterwards.
// SECURITY: Plaintext is zeroed after response.
func (h *SecretHandler) ReadHandler(c *gin.Context) {
	accessKey, ok := h.accessKey(c)
	if !ok {
		return
	}

	plaintext, err := h.secretUseCase.Read(c.Request.Context(), accessKey, requestMeta(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.MapPlaintextToReadResponse(plaintext))
}

// DeleteHandler destroys a secret without reading it.
// DELETE /v1/secrets/:secret_key - The passphrase comes from the JSON body or the
// passphrase query parameter. Returns 200 OK with a status document.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	accessKey, ok := h.accessKey(c)
	if !ok {
		return
	}

	var req dto.DeleteSecretRequest
	// A chunked request has ContentLength -1 and may still carry no body.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}
	if req.Passphrase == "" {
		req.Passphrase = c.Query("passphrase")
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	passphrase := []byte(req.Passphrase)
	defer cryptoDomain.Zero(passphrase)

	if err := h.secretUseCase.Delete(c.Request.Context(), accessKey, passphrase, requestMeta(c)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteSecretResponse{Status: dto.StatusSecretDeleted})
}

// accessKey extracts the secret_key path parameter. A malformed key can never match a
// stored secret, so it is answered as not found without touching the store.
func (h *SecretHandler) accessKey(c *gin.Context) (string, bool) {
	accessKey := c.Param("secret_key")
	if err := validation.Validate(accessKey, validation.Required, customValidation.AccessKey); err != nil {
		httputil.HandleErrorGin(c, secretsDomain.ErrSecretNotFound, h.logger)
		return "", false
	}
	return accessKey, true
}

func requestMeta(c *gin.Context) secretsDomain.RequestMeta {
	return secretsDomain.RequestMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
