package auctionhandler

import (
	"time"

	"auctionhouse/internal/services/auction"
)

type CreateAuctionBody struct {
	Title       string    `json:"title"        binding:"required"             example:"Vintage camera"`
	Description string    `json:"description"  binding:"required"             example:"Leica M3, 1957, working shutter"`
	Image       string    `json:"image"        binding:"required"             example:"https://cdn.example.com/leica.jpg"`
	StartingBid *float64  `json:"starting_bid" binding:"required,gte=0,money" example:"100"`
	EndTime     time.Time `json:"end_time"     binding:"required"             example:"2026-12-01T18:00:00Z"`
} // @name CreateAuctionRequest

func (b CreateAuctionBody) input() auction.CreateInput {
	return auction.CreateInput{
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		StartingBid: *b.StartingBid,
		EndTime:     b.EndTime.UTC(),
	}
}

type UpdateAuctionBody struct {
	Title       *string    `json:"title"        binding:"omitempty,min=1"       example:"Vintage camera"`
	Description *string    `json:"description"  binding:"omitempty,min=1"       example:"Leica M3, 1957"`
	Image       *string    `json:"image"        binding:"omitempty,min=1"       example:"https://cdn.example.com/leica.jpg"`
	StartingBid *float64   `json:"starting_bid" binding:"omitempty,gte=0,money" example:"150"`
	EndTime     *time.Time `json:"end_time"     binding:"omitempty"             example:"2026-12-02T18:00:00Z"`
} // @name UpdateAuctionRequest

func (b UpdateAuctionBody) patch() auction.Patch {
	p := auction.Patch{
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		StartingBid: b.StartingBid,
	}
	if b.EndTime != nil {
		end := b.EndTime.UTC()
		p.EndTime = &end
	}
	return p
}

type PlaceBidBody struct {
	Amount    float64  `json:"amount"     binding:"required,gt=0,money"             example:"120"`
	MaxAmount *float64 `json:"max_amount" binding:"omitempty,gtefield=Amount,money" example:"200"`
} // @name PlaceBidRequest
