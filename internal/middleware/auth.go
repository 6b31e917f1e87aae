package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"team-collab-api/internal/auth"
	"team-collab-api/internal/cache"
	"team-collab-api/internal/models"
	"team-collab-api/internal/policy"
)

// principalTTL bounds how long a resolved user row may be reused before the
// next request reads the database again. Role changes and deletions call
// Invalidate, so the TTL only covers out-of-band writes to the users table.
const principalTTL = 30 * time.Second

// Authenticator validates bearer tokens and resolves the principal from the
// persisted user record on every request, so a role change or deletion takes
// effect on the subject's next request rather than after re-login.
type Authenticator struct {
	db    *gorm.DB
	users *cache.TTL[string, models.User]
}

// NewAuthenticator wires an authenticator to the user store.
func NewAuthenticator(db *gorm.DB) *Authenticator {
	return &Authenticator{
		db:    db,
		users: cache.NewTTL[string, models.User](principalTTL),
	}
}

// Invalidate drops a cached principal. Callers that mutate a user record
// must invoke this so the change is visible immediately.
func (a *Authenticator) Invalidate(userID string) {
	a.users.Delete(userID)
}

// Middleware validates the JWT in the Authorization header and stores the
// resolved principal in the gin context.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		user, ok := a.users.Get(claims.UserID)
		if !ok {
			if err := a.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "User account no longer exists",
				})
				c.Abort()
				return
			}
			a.users.Set(claims.UserID, user)
		}

		c.Set("user_id", user.ID)
		c.Set("user_name", user.Name)
		c.Set("user_role", string(user.Role))

		c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal set by Middleware.
func PrincipalFrom(c *gin.Context) (policy.Principal, bool) {
	userID := c.GetString("user_id")
	role := models.Role(c.GetString("user_role"))
	if userID == "" || !role.IsValid() {
		return policy.Principal{}, false
	}
	return policy.Principal{UserID: userID, Role: role}, true
}
