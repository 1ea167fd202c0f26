package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository/repotest"
	"auctionhouse/internal/services/authz"
)

func ptr[T any](v T) *T { return &v }

func TestRequirePermission(t *testing.T) {
	store := repotest.NewStore()
	store.AddPermission("p-view", "view_auction")
	store.AddPermission("p-edit", "edit_auction")
	store.AddRole("r-viewer", "viewer", "p-view")
	store.AddRole("r-editor", "editor", "p-edit")
	store.AddUser(models.User{ID: "viewer", RoleID: ptr("r-viewer")})
	store.AddUser(models.User{ID: "editor", RoleID: ptr("r-editor")})
	store.AddUser(models.User{ID: "nobody"})
	svc := authz.NewAuthzService(store.Users(), store.Roles(), nil)

	resolver := resolverFunc(func(_ context.Context, token string) (*models.User, error) {
		return &models.User{ID: token}, nil
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/auctions", RequireSession(resolver), RequirePermission(svc, authz.ResourceAuction))
	g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })

	tests := []struct {
		name   string
		user   string
		method string
		status int
		reason string
	}{
		{"viewer reads", "viewer", http.MethodGet, http.StatusOK, ""},
		{"viewer writes", "viewer", http.MethodPost, http.StatusForbidden, authz.ReasonMissingPermission},
		{"editor reads", "editor", http.MethodGet, http.StatusOK, ""},
		{"editor writes", "editor", http.MethodPost, http.StatusCreated, ""},
		{"no role", "nobody", http.MethodGet, http.StatusForbidden, authz.ReasonNoRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/auctions", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.user})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.reason != "" {
				var resp httpresp.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.reason, resp.Message)
				assert.Equal(t, "forbidden", resp.Error)
			}
		})
	}
}

func TestRequirePermissionLookupFailure(t *testing.T) {
	store := repotest.NewStore()
	store.Err = assert.AnError
	svc := authz.NewAuthzService(store.Users(), store.Roles(), nil)
	resolver := resolverFunc(func(_ context.Context, token string) (*models.User, error) {
		return &models.User{ID: token}, nil
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/roles", RequireSession(resolver), RequirePermission(svc, authz.ResourceRole),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "u1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
