package handler

import (
	"fmt"
	"net/http"

	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service AuthServiceInterface
}

func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterHandler handles POST /auth/register
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, token, err := h.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("RegisterHandler: registration failed", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		return
	}

	resp := helpers.AuthResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "registered successfully")
	helpers.LogSuccess("RegisterHandler", "registered successfully", map[string]any{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

// LoginHandler handles POST /auth/login
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("LoginHandler: login failed", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		return
	}

	resp := helpers.AuthResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "logged in successfully")
	helpers.LogSuccess("LoginHandler", "logged in successfully", map[string]any{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

// LogoutHandler handles POST /auth/logout. Tokens are stateless, so the
// server only acknowledges; the client discards the token.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	utils.JSONMessage(c, http.StatusOK, "logged out successfully")
	helpers.LogSuccess("LogoutHandler", "logged out successfully", map[string]any{
		"user_id": CurrentUserID(c),
	})
}
