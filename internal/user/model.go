package user

import (
	"context"
	"time"

	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

// DistanceUnit is a closed set of supported distance units.
type DistanceUnit string

const (
	DistanceUnitKilometers DistanceUnit = "km"
	DistanceUnitMiles      DistanceUnit = "mi"
)

// Theme is a closed set of supported UI themes.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// User represents the persisted account profile. Its id matches the
// identity-provider account id one-to-one.
type User struct {
	ID        string    `json:"id" firestore:"-"`
	FullName  string    `json:"fullName" firestore:"fullName"`
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Preferences holds per-user settings, exactly one document per user.
type Preferences struct {
	ID                    string       `json:"id" firestore:"-"`
	UserID                string       `json:"userId" firestore:"userId"`
	Locale                string       `json:"locale" firestore:"locale"`
	PreferredDistanceUnit DistanceUnit `json:"preferredDistanceUnit" firestore:"preferredDistanceUnit"`
	PreferredCurrency     string       `json:"preferredCurrency" firestore:"preferredCurrency"`
	Theme                 Theme        `json:"theme" firestore:"theme"`
	CreatedAt             time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt             time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// WithPreferences combines a user with its preferences and, when storage is
// wired, the current avatar document.
type WithPreferences struct {
	User
	Preferences *Preferences      `json:"preferences"`
	Avatar      *storage.Document `json:"avatar,omitempty"`
}

// CreateUserPayload carries the fields persisted for a new user record.
type CreateUserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
}

// UpdateUserPayload describes the allowed fields during a profile PATCH.
type UpdateUserPayload struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=100"`
}

// UpdatePreferencesPayload applies a partial patch; only supplied fields change.
type UpdatePreferencesPayload struct {
	Locale                *string       `json:"locale" validate:"omitempty,min=2,max=10"`
	PreferredDistanceUnit *DistanceUnit `json:"preferredDistanceUnit" validate:"omitempty,oneof=km mi"`
	PreferredCurrency     *string       `json:"preferredCurrency" validate:"omitempty,min=2,max=10"`
	Theme                 *Theme        `json:"theme" validate:"omitempty,oneof=light dark system"`
}

// Repository defines data access for user records. Lookups return nil, not
// an error, when absent.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, id string, data CreateUserPayload) (*User, error)
	Update(ctx context.Context, id string, data UpdateUserPayload) (*User, error)
	Delete(ctx context.Context, id string) error
}

// PreferencesRepository defines data access for preference documents.
type PreferencesRepository interface {
	FindByUserID(ctx context.Context, userID string) (*Preferences, error)
	// Create writes a preferences document populated with defaults.
	Create(ctx context.Context, userID string) (*Preferences, error)
	Update(ctx context.Context, userID string, data UpdatePreferencesPayload) (*Preferences, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// DocumentStore is the slice of the storage service the user service needs
// for avatar handling and cascade deletion. A null implementation keeps the
// contract typed when storage is not wired.
type DocumentStore interface {
	UploadAndLinkDocument(ctx context.Context, userID string, file storage.FileUpload, payload storage.UploadDocumentPayload, entityID string) (*storage.Document, error)
	GetDocumentsByEntity(ctx context.Context, entityID string, entityType storage.EntityType) ([]storage.Document, error)
	DeleteDocumentsByEntity(ctx context.Context, entityID string, entityType storage.EntityType, userID string) error
}

// Service defines the user service interface.
type Service interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserWithPreferences(ctx context.Context, id string) (*WithPreferences, error)
	CreateUser(ctx context.Context, id string, data CreateUserPayload) (*User, error)
	UpdateUser(ctx context.Context, id string, data UpdateUserPayload) (*User, error)
	UpdateUserPreferences(ctx context.Context, id string, data UpdatePreferencesPayload) (*WithPreferences, error)
	DeleteUser(ctx context.Context, id string) error
	UploadAvatar(ctx context.Context, userID string, file storage.FileUpload) (*storage.Document, error)
	GetAvatar(ctx context.Context, userID string) (*storage.Document, error)
	RemoveAvatar(ctx context.Context, userID string) error
}
