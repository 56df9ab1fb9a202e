package identity

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

type firebaseProvider struct {
	client *fbauth.Client
}

// NewFirebaseProvider wraps a Firebase Auth client as a Provider.
func NewFirebaseProvider(client *fbauth.Client) Provider {
	return &firebaseProvider{client: client}
}

func (p *firebaseProvider) CreateAccount(ctx context.Context, data CreateAccountData) (*Account, error) {
	params := (&fbauth.UserToCreate{}).
		Email(data.Email).
		Password(data.Password).
		DisplayName(data.DisplayName)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, apperror.FromIdentity(err)
	}
	return accountFromRecord(record), nil
}

func (p *firebaseProvider) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	record, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.FromIdentity(err)
	}
	return accountFromRecord(record), nil
}

func (p *firebaseProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	params := (&fbauth.UserToUpdate{}).Password(newPassword)
	if _, err := p.client.UpdateUser(ctx, uid, params); err != nil {
		return apperror.FromIdentity(err)
	}
	return nil
}

func (p *firebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return apperror.FromIdentity(err)
	}
	return nil
}

func (p *firebaseProvider) CustomToken(ctx context.Context, uid string) (string, error) {
	token, err := p.client.CustomToken(ctx, uid)
	if err != nil {
		return "", apperror.FromIdentity(err)
	}
	return token, nil
}

func accountFromRecord(record *fbauth.UserRecord) *Account {
	return &Account{
		UID:      record.UID,
		Email:    record.Email,
		Disabled: record.Disabled,
	}
}
