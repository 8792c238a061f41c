package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User represents an authenticated user
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// MockUser is the fixed identity resolved for any bearer credential when
// no JWT secret is configured. Matches the development deployment where
// real user management does not exist yet.
var MockUser = User{
	ID:      "user123",
	Email:   "user@example.com",
	IsAdmin: false,
}

// ExtractToken extracts the JWT token from an Authorization header value.
// Supports "Bearer <token>" format.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("empty authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}

	return token, nil
}

// JWTAuth handles HS256 token signing and verification
type JWTAuth struct {
	SecretKey   []byte
	TokenExpiry time.Duration // Default: 15 minutes
}

// NewJWTAuth creates a new JWT auth instance
func NewJWTAuth(secretKey string, tokenExpiry time.Duration) (*JWTAuth, error) {
	if secretKey == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}

	if tokenExpiry == 0 {
		tokenExpiry = 15 * time.Minute
	}

	return &JWTAuth{
		SecretKey:   []byte(secretKey),
		TokenExpiry: tokenExpiry,
	}, nil
}

// Claims represents the JWT token claims
type Claims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateToken signs an access token for the given user
func (a *JWTAuth) GenerateToken(user User) (string, error) {
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "globetrotter",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.SecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken verifies an access token and returns the user
func (a *JWTAuth) VerifyToken(tokenString string) (*User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.SecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return &User{
			ID:      claims.UserID,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		}, nil
	}

	return nil, errors.New("invalid token")
}
