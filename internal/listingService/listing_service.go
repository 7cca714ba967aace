package listing

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

// Detail is the full view of a single listing page: the listing, its
// standing bid (nil when none), comments in chronological order and
// whether the viewer watches it.
type Detail struct {
	Listing     models.Listing   `json:"listing"`
	CurrentBid  *models.Bid      `json:"current_bid,omitempty"`
	Comments    []models.Comment `json:"comments"`
	InWatchlist bool             `json:"in_watchlist"`
}

// CategoryBrowse is the category page view: the chosen category, the
// remaining categories to switch to, and the category's active listings.
type CategoryBrowse struct {
	Category models.Category   `json:"category"`
	Others   []models.Category `json:"other_categories"`
	Listings []models.Listing  `json:"listings"`
}

// ListingService defines the business logic for listing lifecycle,
// browsing, watchlists and comments
type ListingService struct {
	repo              repository.AuctionDB
	publisher         events.Publisher
	openCommentDelete bool
}

// NewListingService creates a new ListingService instance.
// openCommentDelete preserves the historical behavior of any
// authenticated user deleting any comment; pass false to restrict
// deletion to the author.
func NewListingService(repo repository.AuctionDB, publisher events.Publisher, openCommentDelete bool) *ListingService {
	return &ListingService{
		repo:              repo,
		publisher:         publisher,
		openCommentDelete: openCommentDelete,
	}
}

// CreateListing validates and persists a new active listing owned by ownerID
func (s *ListingService) CreateListing(ownerID, title, description, imageURL, categoryName string, initialPrice float64) (models.Listing, error) {
	if ownerID == "" || title == "" || description == "" || categoryName == "" {
		return models.Listing{}, fmt.Errorf("service: %w - missing listing fields", auctionerrors.ErrInvalidInput)
	}
	if initialPrice <= 0 {
		return models.Listing{}, fmt.Errorf("service: %w - price must be positive", auctionerrors.ErrInvalidInput)
	}

	category, err := s.repo.GetCategoryByName(categoryName)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to resolve category %q: %w", categoryName, err)
	}

	listing := models.Listing{
		ListingID:    utils.GenerateID(),
		Title:        title,
		Description:  description,
		ImageURL:     imageURL,
		InitialPrice: initialPrice,
		CategoryID:   category.CategoryID,
		OwnerID:      ownerID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateListing(listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to create listing for user %s: %w", ownerID, err)
	}

	return listing, nil
}

// GetListing returns the detail view of a listing for the given viewer.
// viewerID may be empty for anonymous viewers.
func (s *ListingService) GetListing(listingID, viewerID string) (Detail, error) {
	if listingID == "" {
		return Detail{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidInput)
	}

	listing, err := s.repo.GetListingByID(listingID)
	if err != nil {
		return Detail{}, fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
	}

	detail := Detail{Listing: listing}

	current, err := s.repo.GetCurrentBid(listingID)
	if err == nil {
		detail.CurrentBid = &current
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return Detail{}, fmt.Errorf("service: failed to load current bid for listing %s: %w", listingID, err)
	}

	comments, err := s.repo.GetCommentsByListing(listingID)
	if err != nil {
		return Detail{}, fmt.Errorf("service: failed to load comments for listing %s: %w", listingID, err)
	}
	detail.Comments = comments

	if viewerID != "" {
		watched, err := s.repo.InWatchlist(listingID, viewerID)
		if err != nil {
			return Detail{}, fmt.Errorf("service: failed to check watchlist for listing %s: %w", listingID, err)
		}
		detail.InWatchlist = watched
	}

	return detail, nil
}

// CloseListing deactivates a listing and freezes its winner from the
// standing bid. Only the owner closes; anyone else gets the unchanged
// listing back with no error. Closing an already closed listing leaves
// it untouched.
func (s *ListingService) CloseListing(listingID, userID string) (models.Listing, error) {
	if listingID == "" || userID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - missing listingID or userID", auctionerrors.ErrInvalidInput)
	}

	listing, err := s.repo.GetListingByID(listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
	}

	// Soft deny: non-owners observe a successful response with no state change
	if listing.OwnerID != userID {
		return listing, nil
	}
	if !listing.IsActive {
		return listing, nil
	}

	winnerID := ""
	finalAmount := 0.0
	current, err := s.repo.GetCurrentBid(listingID)
	if err == nil {
		winnerID = current.UserID
		finalAmount = current.Amount
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return models.Listing{}, fmt.Errorf("service: failed to load current bid for listing %s: %w", listingID, err)
	}

	if err := s.repo.CloseListing(listingID, winnerID); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
	}

	listing.IsActive = false
	listing.WinnerID = winnerID

	s.publisher.ListingClosed(events.ListingClosedEvent{
		ListingID: listingID,
		WinnerID:  winnerID,
		Amount:    finalAmount,
		Timestamp: time.Now().UTC(),
	})

	return listing, nil
}

// ActiveListings returns all active listings ordered by title
func (s *ListingService) ActiveListings() ([]models.Listing, error) {
	listings, err := s.repo.GetActiveListings()
	if err != nil {
		return nil, fmt.Errorf("service: failed to get active listings: %w", err)
	}
	return listings, nil
}

// Categories returns all categories ordered by name
func (s *ListingService) Categories() ([]models.Category, error) {
	categories, err := s.repo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("service: failed to get categories: %w", err)
	}
	return categories, nil
}

// BrowseCategory returns the category page view for categoryID
func (s *ListingService) BrowseCategory(categoryID string) (CategoryBrowse, error) {
	if categoryID == "" {
		return CategoryBrowse{}, fmt.Errorf("service: %w - empty category ID", auctionerrors.ErrInvalidInput)
	}

	category, err := s.repo.GetCategoryByID(categoryID)
	if err != nil {
		return CategoryBrowse{}, fmt.Errorf("service: failed to load category %s: %w", categoryID, err)
	}

	all, err := s.repo.GetCategories()
	if err != nil {
		return CategoryBrowse{}, fmt.Errorf("service: failed to get categories: %w", err)
	}
	others := make([]models.Category, 0, len(all))
	for _, c := range all {
		if c.CategoryID != categoryID {
			others = append(others, c)
		}
	}

	listings, err := s.repo.GetActiveListingsByCategory(categoryID)
	if err != nil {
		return CategoryBrowse{}, fmt.Errorf("service: failed to get listings for category %s: %w", categoryID, err)
	}

	return CategoryBrowse{Category: category, Others: others, Listings: listings}, nil
}

// OwnListings returns the user's listings filtered by status
func (s *ListingService) OwnListings(ownerID string, status models.ListingStatus) ([]models.Listing, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("service: %w - empty owner ID", auctionerrors.ErrInvalidInput)
	}
	switch status {
	case models.StatusAll, models.StatusActive, models.StatusInactive:
	case "":
		status = models.StatusAll
	default:
		return nil, fmt.Errorf("service: %w - unknown status %q", auctionerrors.ErrInvalidInput, status)
	}

	listings, err := s.repo.GetListingsByOwner(ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get listings for owner %s: %w", ownerID, err)
	}
	return listings, nil
}

// AuctionsWon returns the closed listings the user won
func (s *ListingService) AuctionsWon(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidInput)
	}

	listings, err := s.repo.GetListingsWonByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get won listings for user %s: %w", userID, err)
	}
	return listings, nil
}

// Watchlist returns the active listings the user watches
func (s *ListingService) Watchlist(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidInput)
	}

	listings, err := s.repo.GetWatchlist(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get watchlist for user %s: %w", userID, err)
	}
	return listings, nil
}

// WatchListing adds a listing to the user's watchlist (idempotent)
func (s *ListingService) WatchListing(listingID, userID string) error {
	if listingID == "" || userID == "" {
		return fmt.Errorf("service: %w - missing listingID or userID", auctionerrors.ErrInvalidInput)
	}

	if err := s.repo.AddToWatchlist(listingID, userID); err != nil {
		return fmt.Errorf("service: failed to watch listing %s: %w", listingID, err)
	}
	return nil
}

// UnwatchListing removes a listing from the user's watchlist (idempotent)
func (s *ListingService) UnwatchListing(listingID, userID string) error {
	if listingID == "" || userID == "" {
		return fmt.Errorf("service: %w - missing listingID or userID", auctionerrors.ErrInvalidInput)
	}

	if err := s.repo.RemoveFromWatchlist(listingID, userID); err != nil {
		return fmt.Errorf("service: failed to unwatch listing %s: %w", listingID, err)
	}
	return nil
}

// AddComment appends a comment to a listing
func (s *ListingService) AddComment(listingID, userID, text string) (models.Comment, error) {
	if listingID == "" || userID == "" {
		return models.Comment{}, fmt.Errorf("service: %w - missing listingID or userID", auctionerrors.ErrInvalidInput)
	}
	if text == "" {
		return models.Comment{}, fmt.Errorf("service: %w - empty comment text", auctionerrors.ErrInvalidInput)
	}

	comment := models.Comment{
		CommentID: utils.GenerateID(),
		ListingID: listingID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateComment(comment); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to comment on listing %s: %w", listingID, err)
	}

	return comment, nil
}

// DeleteComment removes a comment. With open deletion any authenticated
// user may delete any comment; otherwise only the author may.
func (s *ListingService) DeleteComment(commentID, userID string) error {
	if commentID == "" || userID == "" {
		return fmt.Errorf("service: %w - missing commentID or userID", auctionerrors.ErrInvalidInput)
	}

	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		return fmt.Errorf("service: failed to load comment %s: %w", commentID, err)
	}
	if !s.openCommentDelete && comment.UserID != userID {
		return fmt.Errorf("service: %w - comment %s", auctionerrors.ErrNotCommentAuthor, commentID)
	}

	if err := s.repo.DeleteComment(commentID); err != nil {
		return fmt.Errorf("service: failed to delete comment %s: %w", commentID, err)
	}
	return nil
}
