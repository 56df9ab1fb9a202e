package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

// IDTokenVerifier is the slice of the provider's auth client used for
// session verification. *auth.Client satisfies it directly.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

type firebaseVerifier struct {
	tokens IDTokenVerifier
}

func newFirebaseVerifier(tokens IDTokenVerifier) Verifier {
	return &firebaseVerifier{tokens: tokens}
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (AuthenticatedUser, error) {
	decoded, err := v.tokens.VerifyIDToken(ctx, token)
	if err != nil {
		return AuthenticatedUser{}, apperror.FromIdentity(err)
	}

	email, _ := decoded.Claims["email"].(string)
	return AuthenticatedUser{
		UserID: decoded.UID,
		Email:  email,
		Token:  token,
	}, nil
}
