package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"team-collab-api/internal/errs"
	"team-collab-api/internal/middleware"
	"team-collab-api/internal/policy"
)

// fail maps a typed failure onto the HTTP response. Unavailable failures get
// a generic message so storage details never reach clients.
func fail(c *gin.Context, err error) {
	status := errs.Status(err)
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		msg = "Service temporarily unavailable"
	}
	c.JSON(status, gin.H{"error": msg})
}

// requirePrincipal extracts the authenticated principal or aborts with 401.
func requirePrincipal(c *gin.Context) (policy.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return policy.Principal{}, false
	}
	return p, true
}

// authorize runs a policy check and aborts with 403 on denial.
func authorize(c *gin.Context, p policy.Principal, action policy.Action, res policy.Resource) bool {
	if d := policy.Decide(p, action, res); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return false
	}
	return true
}
