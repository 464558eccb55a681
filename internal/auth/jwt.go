package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/splitroom/internal/models"
)

// Issuer is stamped on every session token and required when one is read back.
const Issuer = "splitroom"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// JWTManager issues and checks session tokens. A token names the user and
// the household they belong to, so handlers can scope every query without
// a user lookup.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	parser        *jwt.Parser
}

// Claims is the session payload. Subject always equals UserID.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	GroupID string `json:"group_id"`
	jwt.RegisteredClaims
}

// NewJWTManager signs with HMAC-SHA256 using secretKey. Tokens expire
// tokenDuration after issue.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Generate issues a session token for user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID,
		Email:   user.Email,
		GroupID: user.GroupID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate returns the claims of a token this manager issued. Anything else,
// including expired tokens and tokens missing a household, is ErrInvalidToken.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID == "" || claims.Subject != claims.UserID {
		return nil, fmt.Errorf("%w: subject does not match user", ErrInvalidToken)
	}
	if claims.GroupID == "" {
		return nil, fmt.Errorf("%w: no household", ErrInvalidToken)
	}
	return claims, nil
}
