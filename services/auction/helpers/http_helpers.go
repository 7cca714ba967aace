package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-board/internal/auctionerrors"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and
// message; the message doubles as the user-facing banner text
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username and/or password"
	case errors.Is(err, auctionerrors.ErrOwnerBidForbidden):
		return http.StatusForbidden, "owners may not bid on their own listings"
	case errors.Is(err, auctionerrors.ErrNotCommentAuthor):
		return http.StatusForbidden, "only the author may delete this comment"
	case errors.Is(err, auctionerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, auctionerrors.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, auctionerrors.ErrCommentNotFound):
		return http.StatusNotFound, "comment not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrUsernameTaken):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, auctionerrors.ErrBidBelowStart):
		return http.StatusConflict, "bid is lower than the starting price"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid is not higher than the current bid"
	case errors.Is(err, auctionerrors.ErrBidSuperseded):
		return http.StatusConflict, "bid was superseded by a concurrent bid, retry"
	case errors.Is(err, auctionerrors.ErrListingClosed):
		return http.StatusConflict, "listing is closed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
