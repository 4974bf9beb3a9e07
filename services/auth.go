package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingToken = errors.New("authorization header required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

const tokenTTL = 24 * time.Hour

// Principal is the outcome of a successful authentication.
type Principal struct {
	UserID    string
	Email     string
	Anonymous bool
}

// Authenticator is asked by every protected handler to turn the raw
// Authorization header into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (Principal, error)
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// JWTAuthenticator issues and checks HS256 bearer tokens.
type JWTAuthenticator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{key: []byte(secret), ttl: tokenTTL, now: time.Now}
}

func (a *JWTAuthenticator) Issue(userID, email string) (string, error) {
	now := a.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.ttl).Unix(),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, header string) (Principal, error) {
	tokenString := bearerToken(header)
	if tokenString == "" {
		return Principal{}, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: claims.UserID, Email: claims.Email}, nil
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// OpenAuthenticator lets every caller through as the shared guest.
type OpenAuthenticator struct{}

const GuestUserID = "guest"

func (OpenAuthenticator) Authenticate(context.Context, string) (Principal, error) {
	return Principal{UserID: GuestUserID, Anonymous: true}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash. Accounts
// created through Google have no hash and never match.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
