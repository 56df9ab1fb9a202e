package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

type service struct {
	documents DocumentRepository
	relations RelationRepository
	blobs     BlobStore
	limits    Limits
	logger    *slog.Logger
}

// NewService creates a new storage service.
func NewService(documents DocumentRepository, relations RelationRepository, blobs BlobStore, limits Limits, logger *slog.Logger) Service {
	return &service{
		documents: documents,
		relations: relations,
		blobs:     blobs,
		limits:    limits,
		logger:    logger,
	}
}

func (s *service) UploadDocument(ctx context.Context, userID string, file FileUpload, payload UploadDocumentPayload) (*Document, error) {
	maxSize := s.limits.MaxFileSize(payload.EntityType)
	if file.Size > maxSize {
		mb := maxSizeMB(maxSize)
		return nil, apperror.Validation(
			fmt.Sprintf("File size exceeds the maximum allowed size of %dMB for %s", mb, payload.EntityType),
			map[string][]string{"file": {fmt.Sprintf("Maximum file size is %dMB", mb)}},
		)
	}

	storagePath := fmt.Sprintf("documents/%s/%s/%d_%s",
		userID, payload.EntityType, time.Now().UnixMilli(), sanitizeFilename(file.Filename))

	url, err := s.blobs.Write(ctx, storagePath, file.Content, file.MimeType)
	if err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	title := payload.Title
	if title == "" {
		title = file.Filename
	}

	document, err := s.documents.Create(ctx, CreateDocumentData{
		UserID:       userID,
		Title:        title,
		StoragePath:  storagePath,
		URL:          url,
		DocumentSize: file.Size,
		MimeType:     file.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}
	return document, nil
}

func (s *service) UploadAndLinkDocument(ctx context.Context, userID string, file FileUpload, payload UploadDocumentPayload, entityID string) (*Document, error) {
	document, err := s.UploadDocument(ctx, userID, file, payload)
	if err != nil {
		return nil, err
	}

	if _, err := s.relations.Create(ctx, document.ID, entityID, payload.EntityType); err != nil {
		return nil, fmt.Errorf("link document: %w", err)
	}
	return document, nil
}

func (s *service) GetDocumentByID(ctx context.Context, id string) (*Document, error) {
	document, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperror.NotFound("Document not found")
	}
	return document, nil
}

func (s *service) GetDocumentsByUserID(ctx context.Context, userID string) ([]Document, error) {
	return s.documents.FindByUserID(ctx, userID)
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// GetDocumentsPage returns one page of a user's documents plus pagination
// metadata. The working set is a single user's uploads, so slicing the full
// result in memory beats maintaining Firestore count aggregations.
func (s *service) GetDocumentsPage(ctx context.Context, userID string, page, limit int) ([]Document, PaginationMeta, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	documents, err := s.documents.FindByUserID(ctx, userID)
	if err != nil {
		return nil, PaginationMeta{}, err
	}

	total := len(documents)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	meta := PaginationMeta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
	return documents[start:end], meta, nil
}

// DeleteDocument removes the blob (best-effort), the document's relations
// and the record itself. A document owned by someone else is reported as
// absent so callers cannot probe for other users' documents.
func (s *service) DeleteDocument(ctx context.Context, id, userID string) error {
	document, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if document == nil || document.UserID != userID {
		return apperror.NotFound("Document not found")
	}

	// The blob may already be gone; a failed delete must never block
	// record cleanup.
	if err := s.blobs.Delete(ctx, document.StoragePath); err != nil {
		s.logger.Warn("blob delete failed, continuing with record cleanup",
			slog.String("documentId", id),
			slog.String("storagePath", document.StoragePath),
			slog.Any("error", err))
	}

	if err := s.relations.DeleteByDocumentID(ctx, id); err != nil {
		return fmt.Errorf("delete relations: %w", err)
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}
	return nil
}

func (s *service) CreateRelation(ctx context.Context, payload CreateDocumentRelationPayload) (*DocumentRelation, error) {
	document, err := s.documents.FindByID(ctx, payload.DocumentID)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperror.NotFound("Document not found")
	}

	return s.relations.Create(ctx, payload.DocumentID, payload.EntityID, payload.EntityType)
}

func (s *service) DeleteRelation(ctx context.Context, id string) error {
	relation, err := s.relations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if relation == nil {
		return apperror.NotFound("Document relation not found")
	}
	return s.relations.Delete(ctx, id)
}

func (s *service) GetRelationsByEntity(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error) {
	return s.relations.FindByEntity(ctx, entityID, entityType)
}

func (s *service) GetDocumentsByEntity(ctx context.Context, entityID string, entityType EntityType) ([]Document, error) {
	relations, err := s.relations.FindByEntity(ctx, entityID, entityType)
	if err != nil {
		return nil, err
	}

	documents := []Document{}
	for _, relation := range relations {
		document, err := s.documents.FindByID(ctx, relation.DocumentID)
		if err != nil {
			return nil, err
		}
		if document != nil {
			documents = append(documents, *document)
		}
	}
	return documents, nil
}

// DeleteDocumentsByEntity cascades ownership-checked deletes across every
// document related to an entity. Used for cleanup when the owning entity
// (e.g. a user) is removed.
func (s *service) DeleteDocumentsByEntity(ctx context.Context, entityID string, entityType EntityType, userID string) error {
	relations, err := s.relations.FindByEntity(ctx, entityID, entityType)
	if err != nil {
		return err
	}

	for _, relation := range relations {
		if err := s.DeleteDocument(ctx, relation.DocumentID, userID); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeFilename keeps object paths flat: a filename must not introduce
// extra path segments or traversal.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.ReplaceAll(name, " ", "_")
}
