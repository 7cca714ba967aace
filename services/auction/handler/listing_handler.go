package handler

import (
	"fmt"
	"net/http"

	model "auction-board/internal/models"
	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// IndexHandler handles GET /listings
func (h *ListingHandler) IndexHandler(c *gin.Context) {
	listings, err := h.service.ActiveListings()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("IndexHandler: error retrieving active listings", map[string]any{"error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "active listings retrieved successfully")
	helpers.LogSuccess("IndexHandler", "active listings retrieved successfully", map[string]any{
		"count": len(listings),
	})
}

// GetListingHandler handles GET /listings/:listing_id
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	viewerID := CurrentUserID(c)

	detail, err := h.service.GetListing(listingID, viewerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetListingHandler: error retrieving listing", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, detail, "listing retrieved successfully")
	helpers.LogSuccess("GetListingHandler", "listing retrieved successfully", map[string]any{
		"listing_id": listingID,
	})
}

// CreateListingHandler handles POST /listings
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	ownerID := CurrentUserID(c)

	listing, err := h.service.CreateListing(ownerID, req.Title, req.Description, req.ImageURL, req.Category, req.InitialPrice)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateListingHandler: failed to create listing", map[string]any{
			"owner_id": ownerID,
			"title":    req.Title,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, listing, "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": listing.ListingID,
		"owner_id":   ownerID,
	})
}

// CloseListingHandler handles POST /listings/:listing_id/close. Closing
// is owner-only; anyone else gets the unchanged listing back with a
// success response.
func (h *ListingHandler) CloseListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	userID := CurrentUserID(c)

	listing, err := h.service.CloseListing(listingID, userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CloseListingHandler: failed to close listing", map[string]any{
			"listing_id": listingID,
			"user_id":    userID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing, "listing closed successfully")
	helpers.LogSuccess("CloseListingHandler", "listing close handled", map[string]any{
		"listing_id": listingID,
		"user_id":    userID,
		"is_active":  listing.IsActive,
	})
}

// CategoriesHandler handles GET /categories
func (h *ListingHandler) CategoriesHandler(c *gin.Context) {
	categories, err := h.service.Categories()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CategoriesHandler: error retrieving categories", map[string]any{"error": err.Error()})
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}

	utils.JSONResponse(c, http.StatusOK, categories, "categories retrieved successfully")
	helpers.LogSuccess("CategoriesHandler", "categories retrieved successfully", map[string]any{
		"count": len(categories),
	})
}

// CategoryListingsHandler handles GET /categories/:category_id/listings
func (h *ListingHandler) CategoryListingsHandler(c *gin.Context) {
	categoryID := c.Param("category_id")

	browse, err := h.service.BrowseCategory(categoryID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CategoryListingsHandler: error browsing category", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, browse, "category listings retrieved successfully")
	helpers.LogSuccess("CategoryListingsHandler", "category listings retrieved successfully", map[string]any{
		"category_id": categoryID,
		"count":       len(browse.Listings),
	})
}

// YourListingsHandler handles GET /me/listings
func (h *ListingHandler) YourListingsHandler(c *gin.Context) {
	userID := CurrentUserID(c)
	status := model.ListingStatus(c.DefaultQuery("status", string(model.StatusAll)))

	listings, err := h.service.OwnListings(userID, status)
	if err != nil {
		httpStatus, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, httpStatus, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("YourListingsHandler: error retrieving listings", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "your listings retrieved successfully")
	helpers.LogSuccess("YourListingsHandler", "your listings retrieved successfully", map[string]any{
		"user_id": userID,
		"status":  string(status),
		"count":   len(listings),
	})
}

// AuctionsWonHandler handles GET /me/won
func (h *ListingHandler) AuctionsWonHandler(c *gin.Context) {
	userID := CurrentUserID(c)

	listings, err := h.service.AuctionsWon(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("AuctionsWonHandler: error retrieving won listings", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "won auctions retrieved successfully")
	helpers.LogSuccess("AuctionsWonHandler", "won auctions retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(listings),
	})
}

// WatchlistHandler handles GET /me/watchlist
func (h *ListingHandler) WatchlistHandler(c *gin.Context) {
	userID := CurrentUserID(c)

	listings, err := h.service.Watchlist(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("WatchlistHandler: error retrieving watchlist", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "watchlist retrieved successfully")
	helpers.LogSuccess("WatchlistHandler", "watchlist retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(listings),
	})
}

// AddWatchHandler handles POST /me/watchlist/:listing_id
func (h *ListingHandler) AddWatchHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	userID := CurrentUserID(c)

	if err := h.service.WatchListing(listingID, userID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("AddWatchHandler: error adding to watchlist", map[string]any{"listing_id": listingID, "user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONMessage(c, http.StatusOK, "listing added to your watchlist")
	helpers.LogSuccess("AddWatchHandler", "listing added to watchlist", map[string]any{
		"listing_id": listingID,
		"user_id":    userID,
	})
}

// RemoveWatchHandler handles DELETE /me/watchlist/:listing_id
func (h *ListingHandler) RemoveWatchHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	userID := CurrentUserID(c)

	if err := h.service.UnwatchListing(listingID, userID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("RemoveWatchHandler: error removing from watchlist", map[string]any{"listing_id": listingID, "user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONMessage(c, http.StatusOK, "listing removed from your watchlist")
	helpers.LogSuccess("RemoveWatchHandler", "listing removed from watchlist", map[string]any{
		"listing_id": listingID,
		"user_id":    userID,
	})
}

// AddCommentHandler handles POST /listings/:listing_id/comments
func (h *ListingHandler) AddCommentHandler(c *gin.Context) {
	var req helpers.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	listingID := c.Param("listing_id")
	userID := CurrentUserID(c)

	comment, err := h.service.AddComment(listingID, userID, req.Text)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("AddCommentHandler: error adding comment", map[string]any{"listing_id": listingID, "user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, comment, "comment added successfully")
	helpers.LogSuccess("AddCommentHandler", "comment added successfully", map[string]any{
		"comment_id": comment.CommentID,
		"listing_id": listingID,
		"user_id":    userID,
	})
}

// DeleteCommentHandler handles DELETE /comments/:comment_id
func (h *ListingHandler) DeleteCommentHandler(c *gin.Context) {
	commentID := c.Param("comment_id")
	userID := CurrentUserID(c)

	if err := h.service.DeleteComment(commentID, userID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteCommentHandler: error deleting comment", map[string]any{"comment_id": commentID, "user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONMessage(c, http.StatusOK, "comment deleted successfully")
	helpers.LogSuccess("DeleteCommentHandler", "comment deleted successfully", map[string]any{
		"comment_id": commentID,
		"user_id":    userID,
	})
}
