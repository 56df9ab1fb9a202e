// Package identity wraps the external identity provider (account lifecycle,
// password checks, custom tokens) behind a narrow interface so the rest of
// the codebase never imports the vendor SDK directly.
package identity

import "context"

// Account is the provider-side view of a user account.
type Account struct {
	UID      string
	Email    string
	Disabled bool
}

// CreateAccountData carries the fields needed to provision an account.
type CreateAccountData struct {
	Email       string
	Password    string
	DisplayName string
}

// Provider manages accounts at the identity provider.
type Provider interface {
	CreateAccount(ctx context.Context, data CreateAccountData) (*Account, error)
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	DeleteAccount(ctx context.Context, uid string) error
	// CustomToken mints a provider custom token the client exchanges for a
	// session.
	CustomToken(ctx context.Context, uid string) (string, error)
}

// PasswordVerifier checks an email/password pair against the provider.
// Implementations return ErrPasswordCheckUnavailable when the deployment
// has no way to verify passwords.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) error
}
