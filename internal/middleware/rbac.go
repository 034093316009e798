package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
)

// RequirePermission checks that the admin JWT contains every given permission.
func RequirePermission(required ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		granted := make(map[string]struct{}, len(claims.Permissions))
		for _, p := range claims.Permissions {
			granted[p] = struct{}{}
		}
		for _, p := range required {
			if _, ok := granted[string(p)]; !ok {
				response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
				return
			}
		}

		c.Next()
	}
}
