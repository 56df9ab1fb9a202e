package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

// internalTokenTTL is the lifetime of self-issued session tokens.
const internalTokenTTL = 7 * 24 * time.Hour

// internalClaims is the claim set carried by self-issued HS256 tokens.
type internalClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// InternalTokens issues and verifies HS256 session tokens for deployments
// that run without the external identity provider's client SDK.
type InternalTokens struct {
	secret []byte
	now    func() time.Time
}

// NewInternalTokens creates an issuer/verifier pair around a shared secret.
func NewInternalTokens(secret string) *InternalTokens {
	return &InternalTokens{secret: []byte(secret), now: time.Now}
}

// Issue mints a token for the given user, valid for seven days.
func (t *InternalTokens) Issue(userID, email string) (string, error) {
	now := t.now()
	claims := internalClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(internalTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and extracts the subject.
func (t *InternalTokens) Verify(_ context.Context, tokenString string) (AuthenticatedUser, error) {
	var claims internalClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthenticatedUser{}, apperror.Unauthorized("Your session has expired")
		}
		return AuthenticatedUser{}, apperror.Unauthorized("Your session is invalid")
	}

	if !token.Valid || claims.Subject == "" {
		return AuthenticatedUser{}, apperror.Unauthorized("Your session is invalid")
	}

	return AuthenticatedUser{
		UserID: claims.Subject,
		Email:  claims.Email,
		Token:  tokenString,
	}, nil
}
