package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
)

// RequirePermission checks that the session's capability set contains perm.
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	code := string(perm)
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, p := range claims.Permissions {
			if p == code {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
