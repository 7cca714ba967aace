package repository

import (
	"fmt"
	"sort"
	"sync"

	"auction-board/internal/auctionerrors"
	model "auction-board/internal/models"
)

// AuctionDB defines the storage interface for the auction board
type AuctionDB interface {
	CreateUser(user model.User) error
	GetUserByUsername(username string) (model.User, error)
	GetUserByID(userID string) (model.User, error)

	CreateCategory(category model.Category) error
	GetCategories() ([]model.Category, error)
	GetCategoryByName(name string) (model.Category, error)
	GetCategoryByID(categoryID string) (model.Category, error)

	CreateListing(listing model.Listing) error
	GetListingByID(listingID string) (model.Listing, error)
	GetActiveListings() ([]model.Listing, error)
	GetActiveListingsByCategory(categoryID string) ([]model.Listing, error)
	GetListingsByOwner(ownerID string, status model.ListingStatus) ([]model.Listing, error)
	GetListingsWonByUser(userID string) ([]model.Listing, error)
	GetListingsByCurrentBidder(userID string) ([]model.Listing, error)
	CloseListing(listingID, winnerID string) error

	GetCurrentBid(listingID string) (model.Bid, error)
	ReplaceCurrentBid(listingID string, bid model.Bid, expectBidID string) error

	AddToWatchlist(listingID, userID string) error
	RemoveFromWatchlist(listingID, userID string) error
	GetWatchlist(userID string) ([]model.Listing, error)
	InWatchlist(listingID, userID string) (bool, error)

	CreateComment(comment model.Comment) error
	GetCommentByID(commentID string) (model.Comment, error)
	GetCommentsByListing(listingID string) ([]model.Comment, error)
	DeleteComment(commentID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu         sync.RWMutex
	users      map[string]model.User     // key: userID -> value: user
	usernames  map[string]string         // key: username -> value: userID
	categories map[string]model.Category // key: categoryID -> value: category
	listings   map[string]model.Listing  // key: listingID -> value: listing
	bids       map[string]model.Bid      // key: bidID -> value: standing bid
	comments   map[string]model.Comment  // key: commentID -> value: comment
	watchers   map[string]map[string]bool // key: listingID -> set of userIDs
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:      make(map[string]model.User),
		usernames:  make(map[string]string),
		categories: make(map[string]model.Category),
		listings:   make(map[string]model.Listing),
		bids:       make(map[string]model.Bid),
		comments:   make(map[string]model.Comment),
		watchers:   make(map[string]map[string]bool),
	}
}

// CreateUser stores a new user, rejecting duplicate usernames
func (r *MemoryRepo) CreateUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.usernames[user.Username]; taken {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrUsernameTaken)
	}
	r.users[user.UserID] = user
	r.usernames[user.Username] = user.UserID
	return nil
}

// GetUserByUsername returns the user registered under username
func (r *MemoryRepo) GetUserByUsername(username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.usernames[username]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrUserNotFound)
	}
	return r.users[userID], nil
}

// GetUserByID returns the user with the given ID
func (r *MemoryRepo) GetUserByID(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// CreateCategory stores a new category
func (r *MemoryRepo) CreateCategory(category model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[category.CategoryID] = category
	return nil
}

// GetCategories returns all categories ordered by name
func (r *MemoryRepo) GetCategories() ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// GetCategoryByName returns the category with the given name
func (r *MemoryRepo) GetCategoryByName(name string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("get category %q: %w", name, auctionerrors.ErrCategoryNotFound)
}

// GetCategoryByID returns the category with the given ID
func (r *MemoryRepo) GetCategoryByID(categoryID string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[categoryID]
	if !ok {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	return c, nil
}

// CreateListing stores a new listing
func (r *MemoryRepo) CreateListing(listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listings[listing.ListingID] = listing
	return nil
}

// GetListingByID returns the listing with the given ID
func (r *MemoryRepo) GetListingByID(listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return listing, nil
}

// GetActiveListings returns all active listings ordered by title
func (r *MemoryRepo) GetActiveListings() ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectListings(func(l model.Listing) bool { return l.IsActive }), nil
}

// GetActiveListingsByCategory returns active listings in a category ordered by title
func (r *MemoryRepo) GetActiveListingsByCategory(categoryID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectListings(func(l model.Listing) bool {
		return l.IsActive && l.CategoryID == categoryID
	}), nil
}

// GetListingsByOwner returns an owner's listings filtered by status, ordered by title
func (r *MemoryRepo) GetListingsByOwner(ownerID string, status model.ListingStatus) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectListings(func(l model.Listing) bool {
		if l.OwnerID != ownerID {
			return false
		}
		switch status {
		case model.StatusActive:
			return l.IsActive
		case model.StatusInactive:
			return !l.IsActive
		default:
			return true
		}
	}), nil
}

// GetListingsWonByUser returns closed listings the user won, ordered by title
func (r *MemoryRepo) GetListingsWonByUser(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectListings(func(l model.Listing) bool { return l.WinnerID == userID && userID != "" }), nil
}

// GetListingsByCurrentBidder returns listings where the user holds the standing bid, ordered by title
func (r *MemoryRepo) GetListingsByCurrentBidder(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectListings(func(l model.Listing) bool {
		if l.CurrentBidID == "" {
			return false
		}
		bid, ok := r.bids[l.CurrentBidID]
		return ok && bid.UserID == userID
	}), nil
}

// CloseListing deactivates a listing and records its winner. The winner
// is frozen at close time; re-closing with the same arguments is a no-op.
func (r *MemoryRepo) CloseListing(listingID, winnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	listing.IsActive = false
	listing.WinnerID = winnerID
	r.listings[listingID] = listing
	return nil
}

// GetCurrentBid returns the standing bid for a listing
func (r *MemoryRepo) GetCurrentBid(listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get current bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if listing.CurrentBidID == "" {
		return model.Bid{}, fmt.Errorf("get current bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return r.bids[listing.CurrentBidID], nil
}

// ReplaceCurrentBid atomically installs bid as the listing's standing bid.
// expectBidID is the bid the caller validated against ("" for none); if the
// standing bid changed in between, the call fails with ErrBidSuperseded and
// nothing is modified. The superseded bid record is deleted outright.
func (r *MemoryRepo) ReplaceCurrentBid(listingID string, bid model.Bid, expectBidID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if listing.CurrentBidID != expectBidID {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, auctionerrors.ErrBidSuperseded)
	}
	if expectBidID != "" {
		delete(r.bids, expectBidID)
	}
	r.bids[bid.BidID] = bid
	listing.CurrentBidID = bid.BidID
	r.listings[listingID] = listing
	return nil
}

// AddToWatchlist adds the user to the listing's watcher set (idempotent)
func (r *MemoryRepo) AddToWatchlist(listingID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("add watch on listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if r.watchers[listingID] == nil {
		r.watchers[listingID] = make(map[string]bool)
	}
	r.watchers[listingID][userID] = true
	return nil
}

// RemoveFromWatchlist removes the user from the listing's watcher set (idempotent)
func (r *MemoryRepo) RemoveFromWatchlist(listingID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("remove watch on listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	delete(r.watchers[listingID], userID)
	return nil
}

// GetWatchlist returns the active listings the user watches, ordered by title
func (r *MemoryRepo) GetWatchlist(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectListings(func(l model.Listing) bool {
		return l.IsActive && r.watchers[l.ListingID][userID]
	}), nil
}

// InWatchlist reports whether the user watches the listing
func (r *MemoryRepo) InWatchlist(listingID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return false, fmt.Errorf("check watch on listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return r.watchers[listingID][userID], nil
}

// CreateComment stores a new comment
func (r *MemoryRepo) CreateComment(comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[comment.ListingID]; !ok {
		return fmt.Errorf("comment on listing %s: %w", comment.ListingID, auctionerrors.ErrListingNotFound)
	}
	r.comments[comment.CommentID] = comment
	return nil
}

// GetCommentByID returns the comment with the given ID
func (r *MemoryRepo) GetCommentByID(commentID string) (model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[commentID]
	if !ok {
		return model.Comment{}, fmt.Errorf("get comment %s: %w", commentID, auctionerrors.ErrCommentNotFound)
	}
	return comment, nil
}

// GetCommentsByListing returns a listing's comments in chronological order
func (r *MemoryRepo) GetCommentsByListing(listingID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]model.Comment, 0)
	for _, c := range r.comments {
		if c.ListingID == listingID {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// DeleteComment removes the comment with the given ID
func (r *MemoryRepo) DeleteComment(commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[commentID]; !ok {
		return fmt.Errorf("delete comment %s: %w", commentID, auctionerrors.ErrCommentNotFound)
	}
	delete(r.comments, commentID)
	return nil
}

// collectListings gathers listings matching keep, ordered by title.
// Callers must hold at least a read lock.
func (r *MemoryRepo) collectListings(keep func(model.Listing) bool) []model.Listing {
	listings := make([]model.Listing, 0)
	for _, l := range r.listings {
		if keep(l) {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Title < listings[j].Title })
	return listings
}
