package userhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository/repotest"
	"auctionhouse/internal/services/authz"
	"auctionhouse/internal/services/users"
)

func ptr[T any](v T) *T { return &v }

func allowAll() middleware.Guards {
	return middleware.Guards{
		Session: func(c *gin.Context) {
			middleware.SetCurrentUser(c, &models.User{ID: "admin"})
			c.Next()
		},
		Permission: func(authz.Resource) gin.HandlerFunc { return func(c *gin.Context) { c.Next() } },
	}
}

func setup(t *testing.T) (*gin.Engine, *repotest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repotest.NewStore()
	store.AddRole("r-user", "user")
	store.AddRole("r-admin", "admin")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		store.AddUser(models.User{
			ID:        string(rune('a' + i)),
			Email:     email,
			RoleID:    ptr("r-user"),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	r := gin.New()
	New(users.NewUsersService(store.Users(), store.Roles())).Register(r, allowAll())
	return r, store
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList(t *testing.T) {
	r, _ := setup(t)

	w := do(r, http.MethodGet, "/users?page=2&take=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.Page[models.User]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, models.PageMeta{Total: 3, Page: 2, LastPage: 2}, page.Meta)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c@example.com", page.Data[0].Email)
	require.NotNil(t, page.Data[0].Role)
	assert.Equal(t, "user", page.Data[0].Role.Name)

	w = do(r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 3)
	assert.Equal(t, 1, page.Meta.Page)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/users?take=500", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/users?page=0", "").Code)
}

func TestInfo(t *testing.T) {
	r, _ := setup(t)

	w := do(r, http.MethodGet, "/users/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@example.com"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/users/zzz", "").Code)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, u models.User)
	}{
		{"assign role", `{"role_id":"r-admin"}`, http.StatusOK, func(t *testing.T, u models.User) {
			require.NotNil(t, u.Role)
			assert.Equal(t, "admin", u.Role.Name)
		}},
		{"remove role", `{"role_id":""}`, http.StatusOK, func(t *testing.T, u models.User) {
			assert.Nil(t, u.RoleID)
		}},
		{"rename", `{"first_name":"Ann","email":"ann@example.com"}`, http.StatusOK, func(t *testing.T, u models.User) {
			assert.Equal(t, "Ann", u.FirstName)
			assert.Equal(t, "ann@example.com", u.Email)
		}},
		{"unknown role", `{"role_id":"r-none"}`, http.StatusBadRequest, nil},
		{"email taken", `{"email":"b@example.com"}`, http.StatusConflict, nil},
		{"bad email", `{"email":"nope"}`, http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setup(t)
			w := do(r, http.MethodPatch, "/users/a", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.check != nil {
				var u models.User
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
				tt.check(t, u)
			}
		})
	}
}
