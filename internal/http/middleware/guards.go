package middleware

import (
	"github.com/gin-gonic/gin"

	"auctionhouse/internal/services/authz"
)

// Guards bundles the middleware handlers use to protect their routes.
type Guards struct {
	Session    gin.HandlerFunc
	Permission func(resource authz.Resource) gin.HandlerFunc
}

func NewGuards(resolver SessionResolver, svc authz.IAuthzService) Guards {
	return Guards{
		Session: RequireSession(resolver),
		Permission: func(resource authz.Resource) gin.HandlerFunc {
			return RequirePermission(svc, resource)
		},
	}
}

// For returns the session check followed by the permission check for resource.
func (g Guards) For(resource authz.Resource) []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Session, g.Permission(resource)}
}
