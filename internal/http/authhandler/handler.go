package authhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhouse/internal/clock"
	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/http/validation"
	"auctionhouse/internal/services/auth"
	"auctionhouse/internal/services/users"
)

type CookieOptions struct {
	Domain string
	Secure bool
}

type Handler struct {
	svc    auth.IAuthService
	users  users.IUsersService
	cookie CookieOptions
}

func New(svc auth.IAuthService, usersSvc users.IUsersService, cookie CookieOptions) *Handler {
	return &Handler{svc: svc, users: usersSvc, cookie: cookie}
}

// Register mounts the auth routes. throttle guards the credential endpoints
// and may be nil.
func (h *Handler) Register(r gin.IRouter, g middleware.Guards, throttle gin.HandlerFunc) {
	grp := r.Group("/auth")

	credentials := []gin.HandlerFunc{}
	if throttle != nil {
		credentials = append(credentials, throttle)
	}
	grp.POST("/register", append(credentials, h.register)...)
	grp.POST("/login", append(credentials, h.login)...)
	grp.POST("/signout", h.signout)

	me := grp.Group("/me", g.Session)
	me.GET("", h.me)
	me.PATCH("", h.updateProfile)
	me.PATCH("/update-password", h.updatePassword)
}

// @Summary		Register
// @Description	Creates an account with the default role.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Param			body	body		RegisterBody	true	"Account payload"
// @Success		201		{object}	models.User
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		409		{object}	httpresp.ErrorResponse
// @Router			/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var body RegisterBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	u, err := h.svc.Register(c.Request.Context(), auth.RegisterInput{
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		FirstName:       body.FirstName,
		LastName:        body.LastName,
	})
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary		Log in
// @Description	Checks the credentials and sets the http-only session cookie.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Param			body	body		LoginBody	true	"Credentials"
// @Success		200		{object}	models.User
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		401		{object}	httpresp.ErrorResponse
// @Failure		429		{object}	httpresp.ErrorResponse
// @Router			/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var body LoginBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	ctx := c.Request.Context()
	u, err := h.svc.Authenticate(ctx, body.Email, body.Password)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	session, err := h.svc.IssueToken(ctx, u)
	if err != nil {
		httpresp.Error(c, err)
		return
	}

	maxAge := int(session.ExpiresAt.Sub(clock.Now(ctx)).Seconds())
	h.setCookie(c, session.Token, maxAge)
	c.JSON(http.StatusOK, u)
}

// @Summary		Sign out
// @Description	Revokes the current session token and clears the cookie.
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	httpresp.MessageResponse
// @Router			/auth/signout [post]
func (h *Handler) signout(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookie)
	if err := h.svc.SignOut(c.Request.Context(), token); err != nil {
		httpresp.Error(c, err)
		return
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, httpresp.MessageResponse{Message: "ok"})
}

// @Summary		Current user
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	models.User
// @Failure		401	{object}	httpresp.ErrorResponse
// @Router			/auth/me [get]
func (h *Handler) me(c *gin.Context) {
	u := middleware.MustCurrentUser(c)
	if u == nil {
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary		Update own profile
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Param			body	body		UpdateProfileBody	true	"Fields to change"
// @Success		200		{object}	models.User
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		401		{object}	httpresp.ErrorResponse
// @Router			/auth/me [patch]
func (h *Handler) updateProfile(c *gin.Context) {
	u := middleware.MustCurrentUser(c)
	if u == nil {
		return
	}
	var body UpdateProfileBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	updated, err := h.users.Update(c.Request.Context(), u.ID, users.Patch{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Avatar:    body.Avatar,
	})
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary		Change password
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Param			body	body		UpdatePasswordBody	true	"Old and new password"
// @Success		200		{object}	httpresp.MessageResponse
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		401		{object}	httpresp.ErrorResponse
// @Router			/auth/me/update-password [patch]
func (h *Handler) updatePassword(c *gin.Context) {
	u := middleware.MustCurrentUser(c)
	if u == nil {
		return
	}
	var body UpdatePasswordBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), u.ID, body.OldPassword, body.NewPassword, body.ConfirmPassword); err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.MessageResponse{Message: "Password updated successfully"})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}
