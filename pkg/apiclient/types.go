package apiclient

import "time"

// Error code values returned by the API. The set is closed; clients can
// switch on Code without worrying about unknown members from this server.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeTooManyFiles       = "TOO_MANY_FILES"
	CodeFileUploadError    = "FILE_UPLOAD_ERROR"
	CodeRequestTimeout     = "REQUEST_TIMEOUT"
	CodeNetworkError       = "NETWORK_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is an API failure. Timeout and transport failures are synthesized
// locally with CodeRequestTimeout / CodeNetworkError; everything else comes
// from the server's error envelope.
type Error struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// User is an account profile.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Preferences holds per-user settings.
type Preferences struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	Locale                string    `json:"locale"`
	PreferredDistanceUnit string    `json:"preferredDistanceUnit"`
	PreferredCurrency     string    `json:"preferredCurrency"`
	Theme                 string    `json:"theme"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// UserWithPreferences is the /users/me response shape.
type UserWithPreferences struct {
	User
	Preferences *Preferences `json:"preferences"`
	Avatar      *Document    `json:"avatar,omitempty"`
}

// Document is a stored file record.
type Document struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	StoragePath  string    `json:"storagePath"`
	URL          string    `json:"url"`
	DocumentSize int64     `json:"documentSize"`
	MimeType     string    `json:"mimeType"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// DocumentRelation links a document to a business entity.
type DocumentRelation struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
}

// PaginationMeta accompanies paginated list responses.
type PaginationMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// AuthResult is the register/login response: the profile plus a custom
// token to exchange for a session.
type AuthResult struct {
	User        *User  `json:"user"`
	CustomToken string `json:"customToken"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest signs into an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest rotates the current user's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateUserRequest patches profile fields; nil fields are left unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"fullName,omitempty"`
}

// UpdatePreferencesRequest patches preference fields; nil fields are left
// unchanged.
type UpdatePreferencesRequest struct {
	Locale                *string `json:"locale,omitempty"`
	PreferredDistanceUnit *string `json:"preferredDistanceUnit,omitempty"`
	PreferredCurrency     *string `json:"preferredCurrency,omitempty"`
	Theme                 *string `json:"theme,omitempty"`
}

// CreateRelationRequest links an existing document to an entity.
type CreateRelationRequest struct {
	DocumentID string `json:"documentId"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
}
