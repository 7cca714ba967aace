package handler

import (
	listing "auction-board/internal/listingService"
	model "auction-board/internal/models"

	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key the auth middleware stores the
// authenticated user ID under
const identityKey = "user_id"

type AuthServiceInterface interface {
	Register(username, email, password string) (model.User, string, error)
	Login(username, password string) (model.User, string, error)
}

type BiddingServiceInterface interface {
	PlaceBid(listingID, userID string, amount float64) (model.Bid, error)
	Bidlist(userID string) ([]model.Listing, error)
}

type ListingServiceInterface interface {
	CreateListing(ownerID, title, description, imageURL, categoryName string, initialPrice float64) (model.Listing, error)
	GetListing(listingID, viewerID string) (listing.Detail, error)
	CloseListing(listingID, userID string) (model.Listing, error)
	ActiveListings() ([]model.Listing, error)
	Categories() ([]model.Category, error)
	BrowseCategory(categoryID string) (listing.CategoryBrowse, error)
	OwnListings(ownerID string, status model.ListingStatus) ([]model.Listing, error)
	AuctionsWon(userID string) ([]model.Listing, error)
	Watchlist(userID string) ([]model.Listing, error)
	WatchListing(listingID, userID string) error
	UnwatchListing(listingID, userID string) error
	AddComment(listingID, userID, text string) (model.Comment, error)
	DeleteComment(commentID, userID string) error
}

// CurrentUserID returns the authenticated user ID, or "" for anonymous
// requests on routes with optional authentication
func CurrentUserID(c *gin.Context) string {
	return c.GetString(identityKey)
}

// SetCurrentUserID records the authenticated user ID on the request
// context; called by the auth middleware
func SetCurrentUserID(c *gin.Context, userID string) {
	c.Set(identityKey, userID)
}
