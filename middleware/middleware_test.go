package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"workhub-project/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID.Hex(), "mira")
	require.NoError(t, err)

	var gotID primitive.ObjectID
	var gotOK bool
	var gotName string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = CurrentUserID(r.Context())
		gotName = CurrentUsername(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := JWTAuthMiddleware(next)

	t.Run("valid token reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, gotOK)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, "mira", gotName)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCurrentUserIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := CurrentUserID(req.Context())
	assert.False(t, ok)
	assert.Empty(t, CurrentUsername(req.Context()))
}
