package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/ghostpass/internal/errors"
	"github.com/allisson/ghostpass/internal/httputil"
	identityUseCase "github.com/allisson/ghostpass/internal/identity/usecase"
)

// AuthenticationMiddleware authenticates "Authorization: Bearer <jwt>" and stores
// the resolved caller in the request context.
//
// Missing or malformed headers and invalid JWTs are rejected with 401.
func AuthenticationMiddleware(
	useCase identityUseCase.IdentityUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Case-insensitive "Bearer " prefix
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		bearer := strings.TrimSpace(authHeader[len(bearerPrefix):])

		caller, err := useCase.Authenticate(c.Request.Context(), bearer)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))

		logger.Debug("authentication successful",
			slog.String("caller_id", caller.ID.String()),
			slog.String("role", string(caller.Role)))

		c.Next()
	}
}

// RequireAdminMiddleware rejects non-admin callers with 403.
// Must run after AuthenticationMiddleware.
func RequireAdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c.Request.Context())
		if !ok {
			logger.Error("admin middleware: no authenticated caller in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !caller.IsAdmin() {
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
