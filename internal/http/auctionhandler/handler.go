package auctionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/clock"
	"auctionhouse/internal/http/httpresp"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/http/validation"
	"auctionhouse/internal/services/auction"
	"auctionhouse/internal/services/authz"
)

var errEndTimeInPast = apperrors.InvalidInput("end_time must be in the future")

type Handler struct {
	svc auction.IAuctionService
}

func New(svc auction.IAuctionService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRouter, g middleware.Guards) {
	r.GET("/auctions", h.list)
	r.GET("/auctions/:id", h.info)
	r.POST("/auctions/:id/bid", append(g.For(authz.ResourceBid), h.bid)...)

	me := r.Group("/me", g.For(authz.ResourceAuction)...)
	me.POST("/auction", h.create)
	me.PATCH("/auction/:id", h.update)
	me.GET("/auctions", h.mine)
}

// @Summary		List active auctions
// @Description	Returns every auction that has not ended yet, soonest ending first, with its bids.
// @Tags			Auctions
// @Produce		json
// @Success		200	{array}		models.Auction
// @Failure		500	{object}	httpresp.ErrorResponse
// @Router			/auctions [get]
func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get auction details
// @Description	Returns a single auction with its bids, newest first.
// @Tags			Auctions
// @Produce		json
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	models.Auction
// @Failure		404	{object}	httpresp.ErrorResponse
// @Router			/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	a, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary		Create an auction
// @Description	Creates an auction owned by the signed-in user.
// @Tags			My auctions
// @Accept			json
// @Produce		json
// @Param			body	body		CreateAuctionBody	true	"Auction payload"
// @Success		201		{object}	models.Auction
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		401		{object}	httpresp.ErrorResponse
// @Failure		403		{object}	httpresp.ErrorResponse
// @Router			/me/auction [post]
func (h *Handler) create(c *gin.Context) {
	user := middleware.MustCurrentUser(c)
	if user == nil {
		return
	}
	var body CreateAuctionBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	if !body.EndTime.After(clock.Now(c.Request.Context())) {
		httpresp.Error(c, errEndTimeInPast)
		return
	}

	a, err := h.svc.CreateForUser(c.Request.Context(), user.ID, body.input())
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary		Update an auction
// @Description	Changes the given fields of an auction the signed-in user owns.
// @Tags			My auctions
// @Accept			json
// @Produce		json
// @Param			id		path		string				true	"Auction ID"
// @Param			body	body		UpdateAuctionBody	true	"Fields to change"
// @Success		200		{object}	models.Auction
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		403		{object}	httpresp.ErrorResponse
// @Failure		404		{object}	httpresp.ErrorResponse
// @Router			/me/auction/{id} [patch]
func (h *Handler) update(c *gin.Context) {
	user := middleware.MustCurrentUser(c)
	if user == nil {
		return
	}
	var body UpdateAuctionBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}
	if body.EndTime != nil && !body.EndTime.After(clock.Now(c.Request.Context())) {
		httpresp.Error(c, errEndTimeInPast)
		return
	}

	a, err := h.svc.UpdateForUser(c.Request.Context(), user.ID, c.Param("id"), body.patch())
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary		List my auctions
// @Description	Returns every auction the signed-in user created, ended ones included.
// @Tags			My auctions
// @Produce		json
// @Success		200	{array}		models.Auction
// @Failure		401	{object}	httpresp.ErrorResponse
// @Router			/me/auctions [get]
func (h *Handler) mine(c *gin.Context) {
	user := middleware.MustCurrentUser(c)
	if user == nil {
		return
	}
	out, err := h.svc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Place a bid
// @Description	Records a bid by the signed-in user on an active auction.
// @Tags			Auctions
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Auction ID"
// @Param			body	body		PlaceBidBody	true	"Bid payload"
// @Success		201		{object}	models.Bid
// @Failure		400		{object}	httpresp.ErrorResponse
// @Failure		404		{object}	httpresp.ErrorResponse
// @Failure		409		{object}	httpresp.ErrorResponse
// @Router			/auctions/{id}/bid [post]
func (h *Handler) bid(c *gin.Context) {
	user := middleware.MustCurrentUser(c)
	if user == nil {
		return
	}
	var body PlaceBidBody
	if err := validation.BindJSON(c, &body); err != nil {
		httpresp.Error(c, err)
		return
	}

	b, err := h.svc.BidOnAuction(c.Request.Context(), user.ID, c.Param("id"), auction.BidInput{
		Amount:    body.Amount,
		MaxAmount: body.MaxAmount,
	})
	if err != nil {
		httpresp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}
