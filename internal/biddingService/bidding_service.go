package bidding

import (
	"errors"
	"fmt"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/events"
	"auction-board/internal/models"
	"auction-board/internal/repository"
	"auction-board/utils"
)

// BiddingService defines the business logic for placing bids
type BiddingService struct {
	repo          repository.AuctionDB
	publisher     events.Publisher
	allowOwnerBid bool
}

// NewBiddingService creates a new BiddingService instance. allowOwnerBid
// preserves the historical behavior of owners bidding on their own
// listings; pass false to reject those bids.
func NewBiddingService(repo repository.AuctionDB, publisher events.Publisher, allowOwnerBid bool) *BiddingService {
	return &BiddingService{
		repo:          repo,
		publisher:     publisher,
		allowOwnerBid: allowOwnerBid,
	}
}

// PlaceBid validates and installs a user's bid as a listing's standing bid.
// A first bid must meet the starting price; a later bid must strictly
// exceed the standing one. The superseded bid is replaced atomically, so
// a concurrent higher bidder causes this call to fail with ErrBidSuperseded.
func (s *BiddingService) PlaceBid(listingID, userID string, amount float64) (models.Bid, error) {
	if listingID == "" || userID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing listingID or userID", auctionerrors.ErrInvalidInput)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidInput)
	}

	listing, err := s.repo.GetListingByID(listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
	}
	if !listing.IsActive {
		return models.Bid{}, fmt.Errorf("service: %w - listing %s", auctionerrors.ErrListingClosed, listingID)
	}
	if !s.allowOwnerBid && listing.OwnerID == userID {
		return models.Bid{}, fmt.Errorf("service: %w - listing %s", auctionerrors.ErrOwnerBidForbidden, listingID)
	}

	expectBidID := ""
	current, err := s.repo.GetCurrentBid(listingID)
	switch {
	case err == nil:
		if amount <= current.Amount {
			return models.Bid{}, fmt.Errorf("service: %w - current bid is %.2f", auctionerrors.ErrBidTooLow, current.Amount)
		}
		expectBidID = current.BidID
	case errors.Is(err, auctionerrors.ErrNoBids):
		if amount < listing.InitialPrice {
			return models.Bid{}, fmt.Errorf("service: %w - starting price is %.2f", auctionerrors.ErrBidBelowStart, listing.InitialPrice)
		}
	default:
		return models.Bid{}, fmt.Errorf("service: failed to check current bid: %w", err)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ListingID: listingID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.ReplaceCurrentBid(listingID, bid, expectBidID); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on listing %s by user %s: %w", listingID, userID, err)
	}

	// The bid stood, so a watchlist failure must not undo it
	if err := s.repo.AddToWatchlist(listingID, userID); err != nil {
		utils.Warn("failed to add bidder to watchlist", map[string]any{
			"listing_id": listingID,
			"user_id":    userID,
			"error":      err.Error(),
		})
	}

	s.publisher.BidPlaced(events.BidPlacedEvent{
		ListingID: listingID,
		UserID:    userID,
		Amount:    amount,
		Timestamp: bid.CreatedAt,
	})

	return bid, nil
}

// Bidlist returns the listings where the user holds the standing bid
func (s *BiddingService) Bidlist(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidInput)
	}

	listings, err := s.repo.GetListingsByCurrentBidder(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bidlist for user %s: %w", userID, err)
	}

	return listings, nil
}
