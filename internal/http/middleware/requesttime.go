package middleware

import (
	"github.com/gin-gonic/gin"

	"auctionhouse/internal/clock"
)

// RequestTime pins "now" for the whole request.
func RequestTime(clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := clock.WithNow(c.Request.Context(), clk.Now())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
