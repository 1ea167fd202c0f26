// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/models"
)

// SessionCookie carries the signed session token.
const SessionCookie = "access_token"

const userKey = "auth_user"

var ErrNoSession = apperrors.New(apperrors.ErrUnauthenticated, "authentication required")

type SessionResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// RequireSession resolves the session cookie into a user or aborts with 401.
func RequireSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			httpresp.Abort(c, ErrNoSession)
			return
		}
		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			httpresp.Abort(c, err)
			return
		}
		SetCurrentUser(c, user)
		c.Next()
	}
}

func SetCurrentUser(c *gin.Context, u *models.User) {
	c.Set(userKey, u)
}

// CurrentUser returns the user stored by RequireSession.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// MustCurrentUser is CurrentUser for handlers mounted behind RequireSession.
// It writes a 401 and returns nil when the session is missing.
func MustCurrentUser(c *gin.Context) *models.User {
	u, ok := CurrentUser(c)
	if !ok {
		httpresp.Abort(c, ErrNoSession)
		return nil
	}
	return u
}
