package rolehandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/http/validation"
	"auctionhouse/internal/services/authz"
	"auctionhouse/internal/services/roles"
)

type CreateRoleBody struct {
	Name        string   `json:"name"        binding:"required" example:"moderator"`
	Permissions []string `json:"permissions" example:"8d9c1b3e-5f43-4c0e-9a57-1f2b3c4d5e6f"`
} // @name CreateRoleRequest

// UpdateRoleBody leaves the permission set alone when permissions is absent.
type UpdateRoleBody struct {
	Name        *string  `json:"name"        binding:"omitempty,min=1" example:"moderator"`
	Permissions []string `json:"permissions" example:"8d9c1b3e-5f43-4c0e-9a57-1f2b3c4d5e6f"`
} // @name UpdateRoleRequest

type Handler struct {
	svc roles.IRolesService
}

func New(svc roles.IRolesService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRouter, g middleware.Guards) {
	grp := r.Group("/roles", g.For(authz.ResourceRole)...)
	grp.GET("", h.list)
	grp.POST("", h.create)
	grp.GET("/:id", h.info)
	grp.PATCH("/:id", h.update)
	grp.DELETE("/:id", h.remove)
}

// @Summary		List roles
// @Tags			Roles
// @Produce		json
// @Success		200	{array}		models.Role
// @Failure		403	{object}	httpresp.ErrorResponse
// @Router			/roles [get]
func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get a role
// @Tags			Roles
// @Produce		json
// @Param			id	path		string	true	"Role ID"
// @Success		200	{object}	models.Role
// @Failure		404	{object}	httpresp.ErrorResponse
// @Router			/roles/{id} [get]
func (h *Handler) info(c *gin.Context) {
	role, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// @Summary		Create a role
// @Tags			Roles
// @Accept			json
// @Produce		json
// @Param			body	body		CreateRoleBody	true	"Role payload"
// @Success		201		{object}	models.Role
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		409		{object}	httpresp.ErrorResponse
// @Router			/roles [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateRoleBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	role, err := h.svc.Create(c.Request.Context(), body.Name, body.Permissions)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// @Summary		Update a role
// @Tags			Roles
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Role ID"
// @Param			body	body		UpdateRoleBody	true	"Fields to change"
// @Success		200		{object}	models.Role
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		404		{object}	httpresp.ErrorResponse
// @Router			/roles/{id} [patch]
func (h *Handler) update(c *gin.Context) {
	var body UpdateRoleBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	role, err := h.svc.Update(c.Request.Context(), c.Param("id"), body.Name, body.Permissions)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// @Summary		Delete a role
// @Description	Fails with 409 while any user still holds the role.
// @Tags			Roles
// @Produce		json
// @Param			id	path		string	true	"Role ID"
// @Success		200	{object}	models.Role
// @Failure		404	{object}	httpresp.ErrorResponse
// @Failure		409	{object}	httpresp.ErrorResponse
// @Router			/roles/{id} [delete]
func (h *Handler) remove(c *gin.Context) {
	ctx := c.Request.Context()
	role, err := h.svc.FindByID(ctx, c.Param("id"))
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	if err := h.svc.Delete(ctx, role.ID); err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}
