package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/apperrors"
)

func TestStrongPassword(t *testing.T) {
	good := []string{"Secret1", "aB3dEf", "ABCdef123"}
	bad := []string{"", "Ab1", "secret1", "SECRET1", "Secret", "Secret1!", "Sec ret1"}

	for _, p := range good {
		assert.True(t, StrongPassword(p), p)
	}
	for _, p := range bad {
		assert.False(t, StrongPassword(p), p)
	}
}

func TestBasicPassword(t *testing.T) {
	assert.True(t, BasicPassword("abc123"))
	assert.True(t, BasicPassword("p@ss w0rd"))
	assert.False(t, BasicPassword("abcdef"))
	assert.False(t, BasicPassword("123456"))
	assert.False(t, BasicPassword("a1"))
}

func TestMoney(t *testing.T) {
	good := []float64{0, 1, 0.5, 100.55, 999999999999.99}
	bad := []float64{0.001, 100.555, 1e12, 5e15}

	for _, f := range good {
		assert.True(t, Money(f), f)
	}
	for _, f := range bad {
		assert.False(t, Money(f), f)
	}
}

type signup struct {
	Email           string `json:"email"            binding:"required,email"`
	Password        string `json:"password"         binding:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

func bind(t *testing.T, payload string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	var dst signup
	return BindJSON(c, &dst)
}

func TestBindJSON(t *testing.T) {
	require.NoError(t, bind(t, `{"email":"a@example.com","password":"Secret1","confirm_password":"Secret1"}`))

	err := bind(t, `{"email":"nope","password":"weak","confirm_password":"other"}`)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	msg := apperrors.Message(err)
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password must be at least 6 letters or digits")
	assert.Contains(t, msg, "confirm_password must match password")

	err = bind(t, `{"email":`)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, "malformed request body", apperrors.Message(err))
}
