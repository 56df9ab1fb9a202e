package storage

import (
	"context"
	"time"
)

// EntityType identifies the kind of business entity a document illustrates.
type EntityType string

const (
	// EntityTypeUserProfile links a document to a user profile (avatar).
	EntityTypeUserProfile EntityType = "user_profile"
)

// EntityTypes lists every valid entity type.
func EntityTypes() []EntityType {
	return []EntityType{EntityTypeUserProfile}
}

// Valid reports whether t is a member of the closed entity-type set.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Document represents a stored file record persisted in Firestore.
// The bytes themselves live in the blob store at StoragePath.
type Document struct {
	ID           string    `json:"id" firestore:"-"`
	UserID       string    `json:"userId" firestore:"userId"`
	Title        string    `json:"title" firestore:"title"`
	StoragePath  string    `json:"storagePath" firestore:"storagePath"`
	URL          string    `json:"url" firestore:"url"`
	DocumentSize int64     `json:"documentSize" firestore:"documentSize"`
	MimeType     string    `json:"mimeType" firestore:"mimeType"`
	UploadedAt   time.Time `json:"uploadedAt" firestore:"uploadedAt"`
}

// DocumentRelation links a document to the entity it depicts.
type DocumentRelation struct {
	ID         string     `json:"id" firestore:"-"`
	DocumentID string     `json:"documentId" firestore:"documentId"`
	EntityID   string     `json:"entityId" firestore:"entityId"`
	EntityType EntityType `json:"entityType" firestore:"entityType"`
}

// FileUpload carries an inbound file through the service layer.
type FileUpload struct {
	Content  []byte
	Filename string
	MimeType string
	Size     int64
}

// UploadDocumentPayload describes the form fields accompanying an upload.
type UploadDocumentPayload struct {
	EntityType EntityType `json:"entityType" validate:"required,entitytype"`
	Title      string     `json:"title" validate:"omitempty,max=200"`
	// EntityID, when present, links the document to the entity on upload.
	EntityID string `json:"entityId" validate:"omitempty"`
}

// CreateDocumentRelationPayload describes a relation creation request.
type CreateDocumentRelationPayload struct {
	DocumentID string     `json:"documentId" validate:"required"`
	EntityID   string     `json:"entityId" validate:"required"`
	EntityType EntityType `json:"entityType" validate:"required,entitytype"`
}

// CreateDocumentData is the repository-level input for a document record.
type CreateDocumentData struct {
	UserID       string
	Title        string
	StoragePath  string
	URL          string
	DocumentSize int64
	MimeType     string
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

// DocumentRepository defines data access for document records.
// Lookups return nil (not an error) when absent; queries return empty
// slices when nothing matches.
type DocumentRepository interface {
	FindByID(ctx context.Context, id string) (*Document, error)
	FindByUserID(ctx context.Context, userID string) ([]Document, error)
	Create(ctx context.Context, data CreateDocumentData) (*Document, error)
	Delete(ctx context.Context, id string) error
}

// RelationRepository defines data access for document relations.
type RelationRepository interface {
	FindByID(ctx context.Context, id string) (*DocumentRelation, error)
	FindByDocumentID(ctx context.Context, documentID string) ([]DocumentRelation, error)
	FindByEntity(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error)
	Create(ctx context.Context, documentID, entityID string, entityType EntityType) (*DocumentRelation, error)
	Delete(ctx context.Context, id string) error
	// DeleteByDocumentID removes every relation for a document atomically.
	DeleteByDocumentID(ctx context.Context, documentID string) error
}

// BlobStore writes and deletes file bytes in the underlying object store.
type BlobStore interface {
	Write(ctx context.Context, path string, content []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, path string) error
}

// Service defines the storage service interface.
type Service interface {
	UploadDocument(ctx context.Context, userID string, file FileUpload, payload UploadDocumentPayload) (*Document, error)
	UploadAndLinkDocument(ctx context.Context, userID string, file FileUpload, payload UploadDocumentPayload, entityID string) (*Document, error)
	GetDocumentByID(ctx context.Context, id string) (*Document, error)
	GetDocumentsByUserID(ctx context.Context, userID string) ([]Document, error)
	GetDocumentsPage(ctx context.Context, userID string, page, limit int) ([]Document, PaginationMeta, error)
	DeleteDocument(ctx context.Context, id, userID string) error
	CreateRelation(ctx context.Context, payload CreateDocumentRelationPayload) (*DocumentRelation, error)
	DeleteRelation(ctx context.Context, id string) error
	GetRelationsByEntity(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error)
	GetDocumentsByEntity(ctx context.Context, entityID string, entityType EntityType) ([]Document, error)
	DeleteDocumentsByEntity(ctx context.Context, entityID string, entityType EntityType, userID string) error
}
