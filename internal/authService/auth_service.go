package auth

import (
	"fmt"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"
	"auction-board/internal/repository"
	"auction-board/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthService defines registration and login over bcrypt-hashed
// credentials and signed bearer tokens
type AuthService struct {
	repo      repository.AuctionDB
	jwtSecret string
}

// NewAuthService creates a new AuthService instance
func NewAuthService(repo repository.AuctionDB, jwtSecret string) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user and logs them in, returning the user and a
// signed token. Duplicate usernames fail with ErrUsernameTaken.
func (s *AuthService) Register(username, email, password string) (models.User, string, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, "", fmt.Errorf("service: %w - missing registration fields", auctionerrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to hash password: %w", err)
	}

	user := models.User{
		UserID:       utils.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to register user %s: %w", username, err)
	}

	token, err := s.issueToken(user.UserID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user and a signed token.
// Unknown usernames and wrong passwords both fail with
// ErrInvalidCredentials.
func (s *AuthService) Login(username, password string) (models.User, string, error) {
	if username == "" || password == "" {
		return models.User{}, "", fmt.Errorf("service: %w - missing credentials", auctionerrors.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	token, err := s.issueToken(user.UserID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// GetUser returns the user with the given ID
func (s *AuthService) GetUser(userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}
	return user, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("service: failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a signed token and returns its subject user ID
func ParseToken(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("parse token: missing subject")
	}
	return claims.Subject, nil
}
