package models

import "time"

// User represents a registered participant in the auction board
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups listings; names are unique
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// ListingStatus filters owner listing queries
type ListingStatus string

const (
	StatusAll      ListingStatus = "all"
	StatusActive   ListingStatus = "active"
	StatusInactive ListingStatus = "inactive"
)

// Listing represents an auctionable item and its lifecycle state.
// CurrentBidID points at the single standing bid; WinnerID is set only
// when the owner closes the listing.
type Listing struct {
	ListingID    string    `json:"listing_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url,omitempty"`
	InitialPrice float64   `json:"initial_price"`
	CategoryID   string    `json:"category_id,omitempty"`
	CurrentBidID string    `json:"current_bid_id,omitempty"`
	OwnerID      string    `json:"owner_id"`
	WinnerID     string    `json:"winner_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Bid represents the standing bid on a listing. A superseded bid is
// deleted in the same step that installs its replacement, so at most
// one Bid exists per listing at any time.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is an append-only remark on a listing
type Comment struct {
	CommentID string    `json:"comment_id"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
