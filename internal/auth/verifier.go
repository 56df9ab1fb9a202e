// Package auth provides bearer-token verification, the HTTP middleware that
// enforces it, and the authentication service (register, login, password
// change).
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

// Mode represents the token verification strategy for incoming requests.
type Mode string

const (
	// ModeFirebase verifies Firebase ID tokens through the Admin SDK.
	ModeFirebase Mode = "firebase"
	// ModeInternal verifies HS256 tokens minted by this service.
	ModeInternal Mode = "internal"
	// ModeNoop treats the bearer token as the user ID. Local development
	// and tests only.
	ModeNoop Mode = "noop"
)

// AuthenticatedUser is the subject extracted from a verified bearer token.
type AuthenticatedUser struct {
	UserID string
	Email  string
	Token  string
}

// Verifier verifies a bearer token and returns the associated user context.
type Verifier interface {
	Verify(ctx context.Context, token string) (AuthenticatedUser, error)
}

// TokenIssuer mints tokens this service's verifier will later accept.
// Only the internal mode issues its own tokens; the Firebase mode hands out
// provider custom tokens instead.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type ctxKey string

const userCtxKey ctxKey = "garagely:user"

// Middleware enforces authentication for the wrapped handler. Failures are
// written as the standard error envelope so unauthenticated responses look
// like every other API error.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := tokenFromRequest(r)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		appErr = apperror.Unauthorized("")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status())
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   appErr,
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperror.Unauthorized("Authentication required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.Unauthorized("Authorization header is malformed")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", apperror.Unauthorized("Authorization header is malformed")
	}
	return token, nil
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	value, ok := ctx.Value(userCtxKey).(AuthenticatedUser)
	return value, ok
}

// VerifierConfig captures the inputs required to initialize a verifier.
type VerifierConfig struct {
	Mode      Mode
	JWTSecret string
	// IDTokens is the provider's token verifier, required for ModeFirebase.
	IDTokens IDTokenVerifier
}

// NewVerifier constructs a Verifier matching the supplied configuration.
func NewVerifier(cfg VerifierConfig) (Verifier, error) {
	switch cfg.Mode {
	case ModeFirebase:
		if cfg.IDTokens == nil {
			return nil, fmt.Errorf("firebase auth mode requires an ID token verifier")
		}
		return newFirebaseVerifier(cfg.IDTokens), nil
	case ModeInternal:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("internal auth mode requires a JWT secret")
		}
		return NewInternalTokens(cfg.JWTSecret), nil
	case ModeNoop:
		return noopVerifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}

// noopVerifier accepts any non-empty token and uses it as the user ID.
type noopVerifier struct{}

func (noopVerifier) Verify(_ context.Context, token string) (AuthenticatedUser, error) {
	if token == "" {
		return AuthenticatedUser{}, apperror.Unauthorized("")
	}
	return AuthenticatedUser{UserID: token, Token: token}, nil
}
