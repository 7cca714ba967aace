package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNoBids           = errors.New("no current bid for listing")
	ErrUsernameTaken    = errors.New("username already taken")
)

// business logic errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrBidBelowStart      = errors.New("bid below starting price")
	ErrBidTooLow          = errors.New("bid not higher than current bid")
	ErrBidSuperseded      = errors.New("bid superseded, retry")
	ErrListingClosed      = errors.New("listing is closed")
	ErrOwnerBidForbidden  = errors.New("owner may not bid on own listing")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotCommentAuthor   = errors.New("comment belongs to another user")
)
