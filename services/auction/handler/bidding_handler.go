package handler

import (
	"fmt"
	"net/http"
	"time"

	model "auction-board/internal/models"
	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// PlaceBidHandler handles POST /listings/:listing_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	listingID := c.Param("listing_id")
	userID := CurrentUserID(c)

	bid, err := h.service.PlaceBid(listingID, userID, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"listing_id": listingID,
			"user_id":    userID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.BidResponse{
		BidID:     bid.BidID,
		ListingID: bid.ListingID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}

	message := fmt.Sprintf("bid of $%.2f placed successfully; listing added to your watchlist", bid.Amount)
	utils.JSONResponse(c, http.StatusCreated, resp, message)
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"listing_id": bid.ListingID,
		"user_id":    userID,
		"amount":     bid.Amount,
	})
}

// BidlistHandler handles GET /me/bids
func (h *BiddingHandler) BidlistHandler(c *gin.Context) {
	userID := CurrentUserID(c)

	listings, err := h.service.Bidlist(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BidlistHandler: error retrieving bidlist", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "bidlist retrieved successfully")
	helpers.LogSuccess("BidlistHandler", "bidlist retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(listings),
	})
}
