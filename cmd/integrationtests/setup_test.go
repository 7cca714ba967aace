package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	auth "auction-board/internal/authService"
	bidding "auction-board/internal/biddingService"
	"auction-board/internal/events"
	listing "auction-board/internal/listingService"
	model "auction-board/internal/models"
	"auction-board/internal/repository"
	"auction-board/internal/server"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

const testJWTSecret = "integration-test-secret"

// SetupTestRouter initializes the router over an in-memory repository
// seeded with the given categories.
func SetupTestRouter(categories ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	for _, name := range categories {
		_ = repo.CreateCategory(model.Category{CategoryID: utils.GenerateID(), Name: name})
	}

	publisher := events.NoopPublisher{}
	authSvc := auth.NewAuthService(repo, testJWTSecret)
	biddingSvc := bidding.NewBiddingService(repo, publisher, true)
	listingSvc := listing.NewListingService(repo, publisher, true)

	return server.SetupRouter(authSvc, biddingSvc, listingSvc, testJWTSecret)
}

// ExecuteRequest executes an HTTP request with an optional bearer token
// and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request and parses the JSON
// envelope, returning the data payload for successful responses.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	w := ExecuteRequest(t, router, method, url, token, body)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == http.StatusOK || w.Code == http.StatusCreated {
			if data, ok := resp["data"].(map[string]any); ok {
				resp = data
			}
		}
	}

	return resp, w
}

// RegisterUser registers a user through the API and returns the user ID
// and bearer token.
func RegisterUser(t *testing.T, router *gin.Engine, username string) (string, string) {
	t.Helper()

	data, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auth/register", "", map[string]any{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "hunter22",
		"confirmation": "hunter22",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	return data["user_id"].(string), data["token"].(string)
}

// CreateListing creates a listing through the API and returns its ID.
func CreateListing(t *testing.T, router *gin.Engine, token, title, category string, price float64) string {
	t.Helper()

	data, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/listings", token, map[string]any{
		"title":         title,
		"description":   "integration test listing",
		"initial_price": price,
		"category":      category,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create listing %s: status %d body %s", title, w.Code, w.Body.String())
	}
	return data["listing_id"].(string)
}
