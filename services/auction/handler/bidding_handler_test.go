package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-board/internal/auctionerrors"
	model "auction-board/internal/models"
	"auction-board/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// asUser stamps the request with an authenticated user, standing in for
// the auth middleware
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCurrentUserID(c, userID)
		c.Next()
	}
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/listings/:listing_id/bids", asUser("user1"), handler.PlaceBidHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		listingID      string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			listingID:   "listing1",
			requestBody: helpers.PlaceBidRequest{Amount: 100},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing1", "user1", 100.0).
					Return(model.Bid{
						BidID:     uuid.NewString(),
						ListingID: "listing1",
						UserID:    "user1",
						Amount:    100.0,
						CreatedAt: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid of $100.00 placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				bidID := data["bid_id"].(string)
				require.NotEmpty(t, bidID)
				_, parseErr := uuid.Parse(bidID)
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "listing1", data["listing_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, 100.0, data["amount"])
			},
		},
		{
			name:           "invalid_json",
			listingID:      "listing1",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "invalid_amount_zero",
			listingID:      "listing1",
			requestBody:    helpers.PlaceBidRequest{Amount: 0},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			listingID:      "listing1",
			requestBody:    helpers.PlaceBidRequest{Amount: -10},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_bid_below_start",
			listingID:   "listing2",
			requestBody: helpers.PlaceBidRequest{Amount: 40},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing2", "user1", 40.0).
					Return(model.Bid{}, auctionerrors.ErrBidBelowStart)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid is lower than the starting price",
		},
		{
			name:        "service_bid_too_low",
			listingID:   "listing3",
			requestBody: helpers.PlaceBidRequest{Amount: 55},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing3", "user1", 55.0).
					Return(model.Bid{}, auctionerrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid is not higher than the current bid",
		},
		{
			name:        "service_bid_superseded",
			listingID:   "listing4",
			requestBody: helpers.PlaceBidRequest{Amount: 80},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing4", "user1", 80.0).
					Return(model.Bid{}, auctionerrors.ErrBidSuperseded)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid was superseded by a concurrent bid, retry",
		},
		{
			name:        "service_listing_closed",
			listingID:   "listing5",
			requestBody: helpers.PlaceBidRequest{Amount: 80},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing5", "user1", 80.0).
					Return(model.Bid{}, auctionerrors.ErrListingClosed)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "listing is closed",
		},
		{
			name:        "service_listing_not_found",
			listingID:   "listing6",
			requestBody: helpers.PlaceBidRequest{Amount: 80},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing6", "user1", 80.0).
					Return(model.Bid{}, auctionerrors.ErrListingNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "listing not found",
		},
		{
			name:        "service_generic_error",
			listingID:   "listing7",
			requestBody: helpers.PlaceBidRequest{Amount: 100},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("listing7", "user1", 100.0).
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var reqBody []byte
			var err error
			switch v := tc.requestBody.(type) {
			case string:
				reqBody = []byte(v)
			default:
				reqBody, err = json.Marshal(v)
				require.NoError(t, err)
			}

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/listings/"+tc.listingID+"/bids", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err = json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test BidlistHandler
func TestBidlistHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		userID         string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data []map[string]any)
	}{
		{
			name:   "success_with_standing_bids",
			userID: "user1",
			mockSetup: func() {
				mockService.EXPECT().
					Bidlist("user1").
					Return([]model.Listing{
						{ListingID: "listing1", Title: "Armchair", IsActive: true},
						{ListingID: "listing2", Title: "Lamp", IsActive: true},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bidlist retrieved successfully",
			validateData: func(t *testing.T, data []map[string]any) {
				require.Len(t, data, 2)
				require.Equal(t, "listing1", data[0]["listing_id"])
				require.Equal(t, "listing2", data[1]["listing_id"])
			},
		},
		{
			name:   "success_empty_bidlist",
			userID: "user2",
			mockSetup: func() {
				mockService.EXPECT().Bidlist("user2").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bidlist retrieved successfully",
			validateData: func(t *testing.T, data []map[string]any) {
				require.Len(t, data, 0)
			},
		},
		{
			name:   "service_error",
			userID: "user3",
			mockSetup: func() {
				mockService.EXPECT().Bidlist("user3").Return(nil, errors.New("db failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			router := gin.New()
			router.GET("/me/bids", asUser(tc.userID), handler.BidlistHandler)

			req := httptest.NewRequest(http.MethodGet, "/me/bids", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				dataRaw := resp["data"].([]any)
				data := make([]map[string]any, len(dataRaw))
				for i, v := range dataRaw {
					data[i] = v.(map[string]any)
				}
				tc.validateData(t, data)
			}
		})
	}
}
