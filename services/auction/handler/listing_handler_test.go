package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-board/internal/auctionerrors"
	listing "auction-board/internal/listingService"
	model "auction-board/internal/models"
	"auction-board/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Test IndexHandler
func TestIndexHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/listings", handler.IndexHandler)

	t.Run("success_sorted_listings", func(t *testing.T) {
		mockService.EXPECT().ActiveListings().Return([]model.Listing{
			{ListingID: "listing2", Title: "Armchair", IsActive: true},
			{ListingID: "listing1", Title: "Zither", IsActive: true},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Contains(t, resp["message"], "active listings retrieved successfully")

		data := resp["data"].([]any)
		require.Len(t, data, 2)
		require.Equal(t, "Armchair", data[0].(map[string]any)["title"])
		require.Equal(t, "Zither", data[1].(map[string]any)["title"])
	})

	t.Run("nil_slice_becomes_empty_array", func(t *testing.T) {
		mockService.EXPECT().ActiveListings().Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp["data"].([]any), 0)
	})

	t.Run("service_error", func(t *testing.T) {
		mockService.EXPECT().ActiveListings().Return(nil, errors.New("db failure"))

		req := httptest.NewRequest(http.MethodGet, "/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// Test GetListingHandler
func TestGetListingHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/listings/:listing_id", asUser("user1"), handler.GetListingHandler)

	t.Run("success_detail_view", func(t *testing.T) {
		bid := model.Bid{BidID: "bid1", ListingID: "listing1", UserID: "user2", Amount: 60}
		mockService.EXPECT().GetListing("listing1", "user1").Return(listing.Detail{
			Listing:     model.Listing{ListingID: "listing1", Title: "Lamp", IsActive: true},
			CurrentBid:  &bid,
			Comments:    []model.Comment{{CommentID: "comment1", ListingID: "listing1", Text: "nice"}},
			InWatchlist: true,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/listings/listing1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		data := resp["data"].(map[string]any)
		require.Equal(t, "Lamp", data["listing"].(map[string]any)["title"])
		require.Equal(t, 60.0, data["current_bid"].(map[string]any)["amount"])
		require.Len(t, data["comments"].([]any), 1)
		require.Equal(t, true, data["in_watchlist"])
	})

	t.Run("not_found", func(t *testing.T) {
		mockService.EXPECT().GetListing("listing99", "user1").Return(listing.Detail{}, auctionerrors.ErrListingNotFound)

		req := httptest.NewRequest(http.MethodGet, "/listings/listing99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Test CreateListingHandler
func TestCreateListingHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/listings", asUser("owner1"), handler.CreateListingHandler)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success_valid_listing",
			requestBody: helpers.CreateListingRequest{
				Title:        "Lamp",
				Description:  "A lamp",
				ImageURL:     "https://example.com/lamp.png",
				InitialPrice: 25,
				Category:     "Furniture",
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateListing("owner1", "Lamp", "A lamp", "https://example.com/lamp.png", "Furniture", 25.0).
					Return(model.Listing{ListingID: uuid.NewString(), Title: "Lamp", OwnerID: "owner1", IsActive: true}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "listing created successfully",
		},
		{
			name: "image_url_optional",
			requestBody: helpers.CreateListingRequest{
				Title:        "Chair",
				Description:  "A chair",
				InitialPrice: 10,
				Category:     "Furniture",
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateListing("owner1", "Chair", "A chair", "", "Furniture", 10.0).
					Return(model.Listing{ListingID: uuid.NewString(), Title: "Chair", OwnerID: "owner1", IsActive: true}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "listing created successfully",
		},
		{
			name: "missing_title",
			requestBody: helpers.CreateListingRequest{
				Description:  "A lamp",
				InitialPrice: 25,
				Category:     "Furniture",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "non_positive_price",
			requestBody: helpers.CreateListingRequest{
				Title:        "Lamp",
				Description:  "A lamp",
				InitialPrice: 0,
				Category:     "Furniture",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "unknown_category",
			requestBody: helpers.CreateListingRequest{
				Title:        "Lamp",
				Description:  "A lamp",
				InitialPrice: 25,
				Category:     "Vehicles",
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateListing("owner1", "Lamp", "A lamp", "", "Vehicles", 25.0).
					Return(model.Listing{}, auctionerrors.ErrCategoryNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "category not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reqBody, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test CloseListingHandler
func TestCloseListingHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)

	t.Run("owner_close_succeeds", func(t *testing.T) {
		router := gin.New()
		router.POST("/listings/:listing_id/close", asUser("owner1"), handler.CloseListingHandler)

		mockService.EXPECT().CloseListing("listing1", "owner1").
			Return(model.Listing{ListingID: "listing1", OwnerID: "owner1", WinnerID: "user1", IsActive: false}, nil)

		req := httptest.NewRequest(http.MethodPost, "/listings/listing1/close", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		require.Equal(t, false, data["is_active"])
		require.Equal(t, "user1", data["winner_id"])
	})

	// Non-owners get a success response with the listing unchanged
	t.Run("non_owner_soft_denied", func(t *testing.T) {
		router := gin.New()
		router.POST("/listings/:listing_id/close", asUser("user2"), handler.CloseListingHandler)

		mockService.EXPECT().CloseListing("listing1", "user2").
			Return(model.Listing{ListingID: "listing1", OwnerID: "owner1", IsActive: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/listings/listing1/close", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		require.Equal(t, true, data["is_active"])
	})

	t.Run("not_found", func(t *testing.T) {
		router := gin.New()
		router.POST("/listings/:listing_id/close", asUser("owner1"), handler.CloseListingHandler)

		mockService.EXPECT().CloseListing("listing99", "owner1").
			Return(model.Listing{}, auctionerrors.ErrListingNotFound)

		req := httptest.NewRequest(http.MethodPost, "/listings/listing99/close", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Test CategoryListingsHandler
func TestCategoryListingsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/categories/:category_id/listings", handler.CategoryListingsHandler)

	t.Run("success_browse", func(t *testing.T) {
		mockService.EXPECT().BrowseCategory("cat1").Return(listing.CategoryBrowse{
			Category: model.Category{CategoryID: "cat1", Name: "Electronics"},
			Others:   []model.Category{{CategoryID: "cat2", Name: "Fashion"}},
			Listings: []model.Listing{{ListingID: "listing1", Title: "Radio", CategoryID: "cat1", IsActive: true}},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/categories/cat1/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		require.Equal(t, "Electronics", data["category"].(map[string]any)["name"])
		require.Len(t, data["other_categories"].([]any), 1)
		require.Len(t, data["listings"].([]any), 1)
	})

	t.Run("unknown_category", func(t *testing.T) {
		mockService.EXPECT().BrowseCategory("cat99").Return(listing.CategoryBrowse{}, auctionerrors.ErrCategoryNotFound)

		req := httptest.NewRequest(http.MethodGet, "/categories/cat99/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Test YourListingsHandler
func TestYourListingsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me/listings", asUser("owner1"), handler.YourListingsHandler)

	t.Run("default_status_all", func(t *testing.T) {
		mockService.EXPECT().OwnListings("owner1", model.StatusAll).Return([]model.Listing{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("explicit_status_filter", func(t *testing.T) {
		mockService.EXPECT().OwnListings("owner1", model.StatusInactive).Return([]model.Listing{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me/listings?status=inactive", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown_status_rejected", func(t *testing.T) {
		mockService.EXPECT().OwnListings("owner1", model.ListingStatus("archived")).
			Return(nil, auctionerrors.ErrInvalidInput)

		req := httptest.NewRequest(http.MethodGet, "/me/listings?status=archived", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// Test watchlist handlers
func TestWatchlistHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me/watchlist", asUser("user1"), handler.WatchlistHandler)
	router.POST("/me/watchlist/:listing_id", asUser("user1"), handler.AddWatchHandler)
	router.DELETE("/me/watchlist/:listing_id", asUser("user1"), handler.RemoveWatchHandler)

	t.Run("add", func(t *testing.T) {
		mockService.EXPECT().WatchListing("listing1", "user1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/me/watchlist/listing1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Contains(t, resp["message"], "listing added to your watchlist")
	})

	t.Run("remove", func(t *testing.T) {
		mockService.EXPECT().UnwatchListing("listing1", "user1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/me/watchlist/listing1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Contains(t, resp["message"], "listing removed from your watchlist")
	})

	t.Run("list", func(t *testing.T) {
		mockService.EXPECT().Watchlist("user1").Return([]model.Listing{
			{ListingID: "listing1", Title: "Lamp", IsActive: true},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me/watchlist", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp["data"].([]any), 1)
	})

	t.Run("add_unknown_listing", func(t *testing.T) {
		mockService.EXPECT().WatchListing("listing99", "user1").Return(auctionerrors.ErrListingNotFound)

		req := httptest.NewRequest(http.MethodPost, "/me/watchlist/listing99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Test comment handlers
func TestCommentHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockListingServiceInterface(ctrl)
	handler := NewListingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/listings/:listing_id/comments", asUser("user1"), handler.AddCommentHandler)
	router.DELETE("/comments/:comment_id", asUser("user1"), handler.DeleteCommentHandler)

	t.Run("add_comment", func(t *testing.T) {
		mockService.EXPECT().AddComment("listing1", "user1", "looks great").
			Return(model.Comment{CommentID: uuid.NewString(), ListingID: "listing1", UserID: "user1", Text: "looks great"}, nil)

		reqBody, err := json.Marshal(helpers.AddCommentRequest{Text: "looks great"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/listings/listing1/comments", bytes.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Contains(t, resp["message"], "comment added successfully")
		require.Equal(t, "looks great", resp["data"].(map[string]any)["text"])
	})

	t.Run("empty_text_rejected_by_binding", func(t *testing.T) {
		reqBody, err := json.Marshal(helpers.AddCommentRequest{Text: ""})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/listings/listing1/comments", bytes.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete_comment", func(t *testing.T) {
		mockService.EXPECT().DeleteComment("comment1", "user1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/comments/comment1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Contains(t, resp["message"], "comment deleted successfully")
	})

	t.Run("delete_rejected_for_non_author", func(t *testing.T) {
		mockService.EXPECT().DeleteComment("comment2", "user1").Return(auctionerrors.ErrNotCommentAuthor)

		req := httptest.NewRequest(http.MethodDelete, "/comments/comment2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete_unknown_comment", func(t *testing.T) {
		mockService.EXPECT().DeleteComment("comment99", "user1").Return(auctionerrors.ErrCommentNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/comments/comment99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
