package permissionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/http/validation"
	"auctionhouse/internal/services/authz"
	"auctionhouse/internal/services/permissions"
)

type PermissionBody struct {
	Name string `json:"name" binding:"required" example:"view_auction"`
} // @name PermissionRequest

type Handler struct {
	svc permissions.IPermissionsService
}

func New(svc permissions.IPermissionsService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRouter, g middleware.Guards) {
	grp := r.Group("/permissions", g.For(authz.ResourcePermission)...)
	grp.GET("", h.list)
	grp.POST("", h.create)
	grp.GET("/:id", h.info)
	grp.PATCH("/:id", h.update)
	grp.DELETE("/:id", h.remove)
}

// @Summary		List permissions
// @Tags			Permissions
// @Produce		json
// @Success		200	{array}		models.Permission
// @Router			/permissions [get]
func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get a permission
// @Tags			Permissions
// @Produce		json
// @Param			id	path		string	true	"Permission ID"
// @Success		200	{object}	models.Permission
// @Failure		404	{object}	httpresp.ErrorResponse
// @Router			/permissions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	p, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary		Create a permission
// @Tags			Permissions
// @Accept			json
// @Produce		json
// @Param			body	body		PermissionBody	true	"Permission payload"
// @Success		201		{object}	models.Permission
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		409		{object}	httpresp.ErrorResponse
// @Router			/permissions [post]
func (h *Handler) create(c *gin.Context) {
	var body PermissionBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), body.Name)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary		Rename a permission
// @Tags			Permissions
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Permission ID"
// @Param			body	body		PermissionBody	true	"New name"
// @Success		200		{object}	models.Permission
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		404		{object}	httpresp.ErrorResponse
// @Failure		409		{object}	httpresp.ErrorResponse
// @Router			/permissions/{id} [patch]
func (h *Handler) update(c *gin.Context) {
	var body PermissionBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), body.Name)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary		Delete a permission
// @Description	Also removes the permission from every role.
// @Tags			Permissions
// @Produce		json
// @Param			id	path		string	true	"Permission ID"
// @Success		200	{object}	models.Permission
// @Failure		404	{object}	httpresp.ErrorResponse
// @Router			/permissions/{id} [delete]
func (h *Handler) remove(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.svc.FindByID(ctx, c.Param("id"))
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	if err := h.svc.Delete(ctx, p.ID); err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
