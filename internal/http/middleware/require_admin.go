package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/modules/admins"
	"dineezy.in/app/internal/shared/apperr"
)

const CtxKeyAdmin = "current_admin"

// RequireAdmin authenticates the Bearer token against admin sessions.
func RequireAdmin(svc *admins.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			Fail(c, apperr.UnauthorizedErr("Authentication required."))
			return
		}

		admin, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			Fail(c, apperr.UnauthorizedErr("Session invalid or expired."))
			return
		}

		c.Set(CtxKeyAdmin, admin)
		c.Next()
	}
}

func CurrentAdmin(c *gin.Context) (admins.Admin, bool) {
	v, ok := c.Get(CtxKeyAdmin)
	if !ok {
		return admins.Admin{}, false
	}
	a, ok := v.(admins.Admin)
	return a, ok
}

// RequireCronToken guards the scheduled sweep trigger with a shared secret.
func RequireCronToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c.GetHeader("Authorization")) != token {
			Fail(c, apperr.UnauthorizedErr("Invalid cron token."))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
