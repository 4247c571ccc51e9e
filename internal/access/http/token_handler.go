// Package http provides HTTP handlers for the access-token lifecycle and the audit trail.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	"github.com/allisson/ghostpass/internal/access/http/dto"
	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
	apperrors "github.com/allisson/ghostpass/internal/errors"
	"github.com/allisson/ghostpass/internal/httputil"
	identityHTTP "github.com/allisson/ghostpass/internal/identity/http"
	customValidation "github.com/allisson/ghostpass/internal/validation"
)

// TokenHandler handles HTTP requests for access-token operations.
type TokenHandler struct {
	tokenUseCase accessUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUseCase accessUseCase.TokenUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueHandler mints a token for a profile owned by the caller.
// POST /v1/tokens - Requires a caller bearer JWT.
// Returns 201 Created with the plaintext token, shown only once.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	caller, ok := identityHTTP.GetCaller(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accessDomain.IssueTokenInput{
		ProfileID: uuid.MustParse(req.ProfileID),
		Purpose:   accessDomain.Purpose(req.Purpose),
		TTL:       time.Duration(req.TTLSeconds) * time.Second,
		IncludeQR: req.IncludeQR,
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), caller, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssueTokenOutputToResponse(output))
}

// VerifyHandler presents a token and returns the decision.
// POST /v1/tokens/verify - Unauthenticated, rate-limited per IP.
// Returns 200 OK for every decision; only ALLOW carries the profile.
func (h *TokenHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accessDomain.VerifyTokenInput{Token: req.Token}
	if req.ProfileID != "" {
		profileID := uuid.MustParse(req.ProfileID)
		input.ProfileID = &profileID
	}

	output, err := h.tokenUseCase.Verify(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerifyTokenOutputToResponse(output))
}

// ViewHandler returns the projected profile behind a live token.
// POST /v1/tokens/view - Unauthenticated, rate-limited per IP.
// Returns 404 Not Found for unknown, expired, revoked or consumed tokens alike.
func (h *TokenHandler) ViewHandler(c *gin.Context) {
	var req dto.ViewTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.View(c.Request.Context(), &accessDomain.ViewTokenInput{
		Token:    req.Token,
		ViewerIP: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapViewTokenOutputToResponse(output))
}

// RevokeHandler invalidates a token by its ghost reference.
// POST /v1/tokens/revoke - Requires a caller bearer JWT (issuer or admin).
// Revoking an already revoked token also returns 200 OK.
func (h *TokenHandler) RevokeHandler(c *gin.Context) {
	caller, ok := identityHTTP.GetCaller(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.RevokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accessDomain.RevokeTokenInput{
		TokenID:   uuid.MustParse(req.GhostRef),
		Reason:    req.Reason,
		RequestID: requestIDFromContext(c),
	}

	if err := h.tokenUseCase.Revoke(c.Request.Context(), caller, input); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RevokeTokenResponse{Revoked: true})
}

// ListHandler lists a profile's tokens, newest first.
// GET /v1/profiles/:id/tokens?offset=0&limit=50 - Requires the profile owner or an admin.
func (h *TokenHandler) ListHandler(c *gin.Context) {
	caller, ok := identityHTTP.GetCaller(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid profile id format: must be a valid UUID"),
			h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	tokens, err := h.tokenUseCase.List(c.Request.Context(), caller, profileID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessTokensToListResponse(tokens))
}

// requestIDFromContext returns the request id set by the requestid middleware,
// or a fresh one when it is missing or not a UUID.
func requestIDFromContext(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(requestid.Get(c)); err == nil {
		return id
	}
	return uuid.Must(uuid.NewV7())
}
