package userhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/http/validation"
	"auctionhouse/internal/services/authz"
	"auctionhouse/internal/services/users"
)

type ListUsersQuery struct {
	Page int `form:"page,default=1"  binding:"gte=1"`
	Take int `form:"take,default=10" binding:"gte=1,lte=100"`
} // @name ListUsersQuery

// UpdateUserBody changes the given fields. An empty role_id removes the role.
type UpdateUserBody struct {
	Email     *string `json:"email"      binding:"omitempty,email" example:"ann@example.com"`
	FirstName *string `json:"first_name" example:"Ann"`
	LastName  *string `json:"last_name"  example:"Lee"`
	Avatar    *string `json:"avatar"     binding:"omitempty,url"   example:"https://cdn.example.com/ann.png"`
	RoleID    *string `json:"role_id"    example:"8d9c1b3e-5f43-4c0e-9a57-1f2b3c4d5e6f"`
} // @name UpdateUserRequest

type Handler struct {
	svc users.IUsersService
}

func New(svc users.IUsersService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRouter, g middleware.Guards) {
	grp := r.Group("/users", g.For(authz.ResourceUser)...)
	grp.GET("", h.list)
	grp.GET("/:id", h.info)
	grp.PATCH("/:id", h.update)
}

// @Summary		List users
// @Tags			Users
// @Produce		json
// @Param			page	query		int	false	"Page number"		minimum(1)	default(1)
// @Param			take	query		int	false	"Page size (1-100)"	minimum(1)	maximum(100)	default(10)
// @Success		200		{object}	models.Page[models.User]
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		403		{object}	httpresp.ErrorResponse
// @Router			/users [get]
func (h *Handler) list(c *gin.Context) {
	var q ListUsersQuery
	if err := validation.BindQuery(c, &q); err != nil {
		httpresp.Error(c, err)
		return
	}
	page, err := h.svc.Paginate(c.Request.Context(), q.Page, q.Take)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary		Get a user
// @Tags			Users
// @Produce		json
// @Param			id	path		string	true	"User ID"
// @Success		200	{object}	models.User
// @Failure		404	{object}	httpresp.ErrorResponse
// @Router			/users/{id} [get]
func (h *Handler) info(c *gin.Context) {
	u, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary		Update a user
// @Description	Changes profile fields, the email or the role of a user.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"User ID"
// @Param			body	body		UpdateUserBody	true	"Fields to change"
// @Success		200		{object}	models.User
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		404		{object}	httpresp.ErrorResponse
// @Failure		409		{object}	httpresp.ErrorResponse
// @Router			/users/{id} [patch]
func (h *Handler) update(c *gin.Context) {
	var body UpdateUserBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), users.Patch{
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Avatar:    body.Avatar,
		RoleID:    body.RoleID,
	})
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
