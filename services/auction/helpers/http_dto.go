package helpers

// Request/Response DTOs
type RegisterRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Confirmation string `json:"confirmation" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type CreateListingRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	ImageURL     string  `json:"image_url"`
	InitialPrice float64 `json:"initial_price" binding:"required,gt=0"`
	Category     string  `json:"category" binding:"required"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ListingID string  `json:"listing_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
