package middleware

import (
	"github.com/gin-gonic/gin"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/services/authz"
)

// RequirePermission guards a route group with the resource's view/edit
// permissions. The intent follows the request method. Must run after
// RequireSession.
func RequirePermission(svc authz.IAuthzService, resource authz.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := MustCurrentUser(c)
		if user == nil {
			return
		}
		d, err := svc.Authorize(c.Request.Context(), user.ID, authz.IntentFromMethod(c.Request.Method), resource)
		if err != nil {
			httpresp.Abort(c, err)
			return
		}
		if !d.Allowed {
			httpresp.Abort(c, apperrors.Forbidden(d.Reason))
			return
		}
		c.Next()
	}
}
