package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"team-collab-api/internal/auth"
	"team-collab-api/internal/models"
	"team-collab-api/internal/testutil"
)

func setupProtected(t *testing.T) (*gin.Engine, *Authenticator, models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	user := testutil.SeedUser(db, "alice", models.RoleTeamMember)

	authn := NewAuthenticator(db)
	r := gin.New()
	r.Use(authn.Middleware())
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("user_role")})
	})
	return r, authn, user
}

func TestMiddleware_Success(t *testing.T) {
	r, _, user := setupProtected(t)

	token, err := auth.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), string(models.RoleTeamMember))
}

func TestMiddleware_TokenViaQueryParam(t *testing.T) {
	r, _, user := setupProtected(t)

	token, err := auth.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_MissingToken(t *testing.T) {
	r, _, _ := setupProtected(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_UnknownUserRejected(t *testing.T) {
	r, _, _ := setupProtected(t)

	// Valid signature, but no matching user row.
	token, err := auth.GenerateToken("ghost", "ghost@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RoleChangeVisibleAfterInvalidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	user := testutil.SeedUser(db, "bob", models.RoleTeamMember)

	authn := NewAuthenticator(db)
	r := gin.New()
	r.Use(authn.Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("user_role")})
	})

	token, err := auth.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	do := func() string {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	require.Contains(t, do(), string(models.RoleTeamMember))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("role", models.RoleProjectManager).Error)
	authn.Invalidate(user.ID)

	require.Contains(t, do(), string(models.RoleProjectManager))
}
