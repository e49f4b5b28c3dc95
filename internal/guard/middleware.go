package guard

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuslaunch/campus-launch-backend/internal/identity"
	"github.com/campuslaunch/campus-launch-backend/internal/session"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

const ctxUserView = "user_view"

// RequireSession verifies the bearer token, resolves the UserView and
// applies the base guard. Denied requests get a 401 with the redirect
// target; a resolution failure is surfaced as 503, never as
// unauthenticated.
func RequireSession(sessions session.Store, resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			denied(c)
			return
		}

		ident, err := sessions.VerifyToken(c.Request.Context(), token)
		if err != nil {
			denied(c)
			return
		}

		view, err := resolver.Resolve(c.Request.Context(), ident)
		if errors.Is(err, identity.ErrResolution) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "could not load your profile, try again"})
			c.Abort()
			return
		}
		if err != nil {
			denied(c)
			return
		}

		if d := Evaluate(&view, true); d.State != StateGranted {
			denied(c)
			return
		}

		SetCurrentUser(c, view)
		c.Next()
	}
}

// SetCurrentUser attaches the resolved UserView to the request context.
func SetCurrentUser(c *gin.Context, view userdomain.UserView) {
	c.Set(ctxUserView, view)
}

// CurrentUser returns the UserView resolved for this request.
func CurrentUser(c *gin.Context) (userdomain.UserView, bool) {
	v, ok := c.Get(ctxUserView)
	if !ok {
		return userdomain.UserView{}, false
	}
	view, ok := v.(userdomain.UserView)
	return view, ok
}

func denied(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "redirect": SignInPath})
	c.Abort()
}

// extractToken pulls the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
