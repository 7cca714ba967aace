package events

import "time"

// BidPlacedEvent is emitted when a bid is accepted as a listing's
// standing bid.
type BidPlacedEvent struct {
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// ListingClosedEvent is emitted when an owner closes a listing.
// WinnerID is empty when the listing closed without bids.
type ListingClosedEvent struct {
	ListingID string    `json:"listing_id"`
	WinnerID  string    `json:"winner_id,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits auction lifecycle events. Publishing is best-effort:
// implementations log failures instead of propagating them, so a broker
// outage never rejects a bid.
type Publisher interface {
	BidPlaced(event BidPlacedEvent)
	ListingClosed(event ListingClosedEvent)
	Close()
}

// NoopPublisher discards all events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) BidPlaced(BidPlacedEvent)         {}
func (NoopPublisher) ListingClosed(ListingClosedEvent) {}
func (NoopPublisher) Close()                           {}
