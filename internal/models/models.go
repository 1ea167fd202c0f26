package models

import (
	"time"
)

type Permission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" example:"view_auction"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
} // @name Permission

type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" example:"admin"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
} // @name Role

// PermissionNames returns the names of the permissions granted to the role.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	RoleID       *string   `json:"role_id"`
	Role         *Role     `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
} // @name User

type Auction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"        example:"Vintage camera"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	StartingBid float64   `json:"starting_bid" example:"10"`
	EndTime     time.Time `json:"end_time"     example:"2025-07-27T16:05:05Z"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Bids        []Bid     `json:"bids"`
} // @name Auction

// IsActive reports whether bids are still accepted at now.
func (a *Auction) IsActive(now time.Time) bool {
	return a.EndTime.After(now)
}

type Bid struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"               example:"15"`
	MaxAmount *float64  `json:"max_amount,omitempty" example:"30"`
	CreatedAt time.Time `json:"created_at"`
} // @name Bid

type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"last_page"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPageMeta computes the page metadata; LastPage is at least 1.
func NewPageMeta(total, page, take int) PageMeta {
	last := 1
	if take > 0 && total > 0 {
		last = (total + take - 1) / take
	}
	return PageMeta{Total: total, Page: page, LastPage: last}
}
