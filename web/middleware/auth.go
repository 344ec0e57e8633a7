// Package middleware holds the route policy of the panel: login,
// two-factor, and role checks evaluated before a handler runs.
package middleware

import (
	"net/http"

	"userpanel/web/session"

	"github.com/gin-gonic/gin"
)

// RequireLogin rejects anonymous requests. Browser navigation is sent to
// the login page; AJAX callers get a 401 JSON body instead.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsLogin(c) {
			if isAjax(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"msg":     "please log in again",
				})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTwoFactor sends users that enabled TOTP but have not yet passed
// the challenge in this session to the verification page. Users without
// two-factor pass through untouched.
func RequireTwoFactor() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user != nil && user.TwoFactorEnable && !session.IsTwoFactorPassed(c) {
			c.Redirect(http.StatusTemporaryRedirect, "/verify-2fa")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole checks the role stored in the session snapshot. Role
// failures are a hard 403, never a redirect.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !allowed[user.Role] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
