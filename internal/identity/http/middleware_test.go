package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	"github.com/allisson/ghostpass/internal/identity/http/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(uc *mocks.MockIdentityUseCase, extra ...gin.HandlerFunc) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(AuthenticationMiddleware(uc, logger))
	for _, h := range extra {
		router.Use(h)
	}
	router.GET("/protected", func(c *gin.Context) {
		caller, ok := GetCaller(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"caller_id": caller.ID.String(), "role": string(caller.Role)})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	callerID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}
		uc.On("Authenticate", mock.Anything, "valid-jwt").
			Return(&identityDomain.Caller{ID: callerID, Role: identityDomain.RoleMember}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-jwt")
		newRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, callerID.String(), body["caller_id"])
		assert.Equal(t, "member", body["role"])
		uc.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitivePrefix", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}
		uc.On("Authenticate", mock.Anything, "valid-jwt").
			Return(&identityDomain.Caller{ID: callerID, Role: identityDomain.RoleMember}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bEaReR valid-jwt")
		newRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}

		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedHeader", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		newRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}
		uc.On("Authenticate", mock.Anything, "expired").
			Return(nil, identityDomain.ErrInvalidCredentials).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer expired")
		newRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body["error"])
	})
}

func TestRequireAdminMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Success_Admin", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}
		uc.On("Authenticate", mock.Anything, "admin-jwt").
			Return(&identityDomain.Caller{ID: uuid.Must(uuid.NewV7()), Role: identityDomain.RoleAdmin}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer admin-jwt")
		newRouter(uc, RequireAdminMiddleware(logger)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_Member", func(t *testing.T) {
		uc := &mocks.MockIdentityUseCase{}
		uc.On("Authenticate", mock.Anything, "member-jwt").
			Return(&identityDomain.Caller{ID: uuid.Must(uuid.NewV7()), Role: identityDomain.RoleMember}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer member-jwt")
		newRouter(uc, RequireAdminMiddleware(logger)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NoCaller", func(t *testing.T) {
		router := gin.New()
		router.Use(RequireAdminMiddleware(logger))
		router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
