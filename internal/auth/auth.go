// Package auth issues and validates bearer tokens over a static user
// table. There is no password flow: the deployment lists its users in
// configuration and a login exchanges a known username for a signed token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"librarychat/internal/config"
)

const tokenTTL = 24 * time.Hour

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

type Authenticator struct {
	secret []byte
	users  map[string]uuid.UUID
}

func New(cfg *config.AuthConfig) (*Authenticator, error) {
	users := make(map[string]uuid.UUID, len(cfg.Users))
	for username, raw := range cfg.Users {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("user %q has invalid id %q: %v", username, raw, err)
		}
		users[username] = id
	}
	return &Authenticator{secret: []byte(cfg.JWTSecret), users: users}, nil
}

func (a *Authenticator) Login(username string) (string, error) {
	userID, ok := a.users[username]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUser, username)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   username,
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify returns the user id embedded in a valid token.
func (a *Authenticator) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return claims.UserID, nil
}
