package user

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection       = "users"
	preferencesCollection = "user_preferences"
)

type firestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a Firestore-backed user repository.
func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) FindByID(ctx context.Context, id string) (*User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

func (r *firestoreRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	iter := r.client.Collection(usersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

// Create persists a user record under the identity-provider account id.
func (r *firestoreRepository) Create(ctx context.Context, id string, data CreateUserPayload) (*User, error) {
	now := time.Now().UTC()
	user := User{
		FullName:  data.FullName,
		Email:     data.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.client.Collection(usersCollection).Doc(id).Set(ctx, user); err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

func (r *firestoreRepository) Update(ctx context.Context, id string, data UpdateUserPayload) (*User, error) {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if data.FullName != nil {
		updates = append(updates, firestore.Update{Path: "fullName", Value: *data.FullName})
	}

	if _, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, updates); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *firestoreRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx)
	return err
}

type firestorePreferencesRepository struct {
	client *firestore.Client
}

// NewFirestorePreferencesRepository creates a Firestore-backed preferences repository.
func NewFirestorePreferencesRepository(client *firestore.Client) PreferencesRepository {
	return &firestorePreferencesRepository{client: client}
}

func (r *firestorePreferencesRepository) FindByUserID(ctx context.Context, userID string) (*Preferences, error) {
	iter := r.client.Collection(preferencesCollection).
		Where("userId", "==", userID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var prefs Preferences
	if err := doc.DataTo(&prefs); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	prefs.ID = doc.Ref.ID
	return &prefs, nil
}

// Create writes the default preferences document for a user.
func (r *firestorePreferencesRepository) Create(ctx context.Context, userID string) (*Preferences, error) {
	now := time.Now().UTC()
	prefs := Preferences{
		UserID:                userID,
		Locale:                "en",
		PreferredDistanceUnit: DistanceUnitKilometers,
		PreferredCurrency:     "USD",
		Theme:                 ThemeSystem,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	ref, _, err := r.client.Collection(preferencesCollection).Add(ctx, prefs)
	if err != nil {
		return nil, err
	}
	prefs.ID = ref.ID
	return &prefs, nil
}

// Update applies a partial patch; a missing preferences document is created
// with defaults first so a first-time patch behaves like any other.
func (r *firestorePreferencesRepository) Update(ctx context.Context, userID string, data UpdatePreferencesPayload) (*Preferences, error) {
	existing, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if existing, err = r.Create(ctx, userID); err != nil {
			return nil, err
		}
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if data.Locale != nil {
		updates = append(updates, firestore.Update{Path: "locale", Value: *data.Locale})
	}
	if data.PreferredDistanceUnit != nil {
		updates = append(updates, firestore.Update{Path: "preferredDistanceUnit", Value: string(*data.PreferredDistanceUnit)})
	}
	if data.PreferredCurrency != nil {
		updates = append(updates, firestore.Update{Path: "preferredCurrency", Value: *data.PreferredCurrency})
	}
	if data.Theme != nil {
		updates = append(updates, firestore.Update{Path: "theme", Value: string(*data.Theme)})
	}

	if _, err := r.client.Collection(preferencesCollection).Doc(existing.ID).Update(ctx, updates); err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

func (r *firestorePreferencesRepository) DeleteByUserID(ctx context.Context, userID string) error {
	existing, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	_, err = r.client.Collection(preferencesCollection).Doc(existing.ID).Delete(ctx)
	return err
}
