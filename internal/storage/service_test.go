package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

type fakeDocumentRepo struct {
	findByID     func(ctx context.Context, id string) (*Document, error)
	findByUserID func(ctx context.Context, userID string) ([]Document, error)
	create       func(ctx context.Context, data CreateDocumentData) (*Document, error)
	deleted      []string
	deleteErr    error
}

func (f *fakeDocumentRepo) FindByID(ctx context.Context, id string) (*Document, error) {
	return f.findByID(ctx, id)
}

func (f *fakeDocumentRepo) FindByUserID(ctx context.Context, userID string) ([]Document, error) {
	return f.findByUserID(ctx, userID)
}

func (f *fakeDocumentRepo) Create(ctx context.Context, data CreateDocumentData) (*Document, error) {
	return f.create(ctx, data)
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeRelationRepo struct {
	findByID         func(ctx context.Context, id string) (*DocumentRelation, error)
	findByDocumentID func(ctx context.Context, documentID string) ([]DocumentRelation, error)
	findByEntity     func(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error)
	create           func(ctx context.Context, documentID, entityID string, entityType EntityType) (*DocumentRelation, error)
	deleted          []string
	deletedByDoc     []string
}

func (f *fakeRelationRepo) FindByID(ctx context.Context, id string) (*DocumentRelation, error) {
	return f.findByID(ctx, id)
}

func (f *fakeRelationRepo) FindByDocumentID(ctx context.Context, documentID string) ([]DocumentRelation, error) {
	if f.findByDocumentID == nil {
		return []DocumentRelation{}, nil
	}
	return f.findByDocumentID(ctx, documentID)
}

func (f *fakeRelationRepo) FindByEntity(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error) {
	if f.findByEntity == nil {
		return []DocumentRelation{}, nil
	}
	return f.findByEntity(ctx, entityID, entityType)
}

func (f *fakeRelationRepo) Create(ctx context.Context, documentID, entityID string, entityType EntityType) (*DocumentRelation, error) {
	if f.create == nil {
		return &DocumentRelation{ID: "rel-1", DocumentID: documentID, EntityID: entityID, EntityType: entityType}, nil
	}
	return f.create(ctx, documentID, entityID, entityType)
}

func (f *fakeRelationRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRelationRepo) DeleteByDocumentID(ctx context.Context, documentID string) error {
	f.deletedByDoc = append(f.deletedByDoc, documentID)
	return nil
}

type fakeBlobStore struct {
	write     func(ctx context.Context, path string, content []byte, contentType string) (string, error)
	deleteErr error
	deleted   []string
}

func (f *fakeBlobStore) Write(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	if f.write == nil {
		return "https://storage.googleapis.com/bucket/" + path, nil
	}
	return f.write(ctx, path, content, contentType)
}

func (f *fakeBlobStore) Delete(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return f.deleteErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testLimits() Limits {
	return Limits{EntityTypeUserProfile: 10 * megabyte}
}

func TestUploadDocumentAtLimitSucceeds(t *testing.T) {
	docs := &fakeDocumentRepo{
		create: func(ctx context.Context, data CreateDocumentData) (*Document, error) {
			return &Document{ID: "doc-1", UserID: data.UserID, Title: data.Title, StoragePath: data.StoragePath, URL: data.URL, DocumentSize: data.DocumentSize, MimeType: data.MimeType}, nil
		},
	}
	svc := NewService(docs, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	doc, err := svc.UploadDocument(context.Background(), "u1", FileUpload{
		Filename: "exact.pdf",
		MimeType: "application/pdf",
		Size:     10 * megabyte,
	}, UploadDocumentPayload{EntityType: EntityTypeUserProfile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "exact.pdf" {
		t.Fatalf("expected title to fall back to filename, got %q", doc.Title)
	}
	if !strings.HasPrefix(doc.StoragePath, "documents/u1/user_profile/") {
		t.Fatalf("unexpected storage path %q", doc.StoragePath)
	}
}

func TestUploadDocumentOverLimitRejected(t *testing.T) {
	svc := NewService(&fakeDocumentRepo{}, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	_, err := svc.UploadDocument(context.Background(), "u1", FileUpload{
		Filename: "big.pdf",
		MimeType: "application/pdf",
		Size:     10*megabyte + 1,
	}, UploadDocumentPayload{EntityType: EntityTypeUserProfile})

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if !strings.Contains(appErr.Message, "10MB") {
		t.Fatalf("expected message to name the limit in MB, got %q", appErr.Message)
	}
	if msgs := appErr.Details["file"]; len(msgs) != 1 || !strings.Contains(msgs[0], "10MB") {
		t.Fatalf("unexpected details %v", appErr.Details)
	}
}

func TestUploadDocumentSanitizesFilename(t *testing.T) {
	docs := &fakeDocumentRepo{
		create: func(ctx context.Context, data CreateDocumentData) (*Document, error) {
			return &Document{ID: "doc-1", StoragePath: data.StoragePath}, nil
		},
	}
	svc := NewService(docs, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	doc, err := svc.UploadDocument(context.Background(), "u1", FileUpload{
		Filename: "../../etc/my passwd.txt",
		MimeType: "text/plain",
		Size:     1,
	}, UploadDocumentPayload{EntityType: EntityTypeUserProfile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.StoragePath, "..") {
		t.Fatalf("path traversal survived sanitization: %q", doc.StoragePath)
	}
	if !strings.HasSuffix(doc.StoragePath, "_my_passwd.txt") {
		t.Fatalf("unexpected sanitized path %q", doc.StoragePath)
	}
}

func TestUploadAndLinkDocumentCreatesRelation(t *testing.T) {
	docs := &fakeDocumentRepo{
		create: func(ctx context.Context, data CreateDocumentData) (*Document, error) {
			return &Document{ID: "doc-1"}, nil
		},
	}
	var linked *DocumentRelation
	rels := &fakeRelationRepo{
		create: func(ctx context.Context, documentID, entityID string, entityType EntityType) (*DocumentRelation, error) {
			linked = &DocumentRelation{ID: "rel-1", DocumentID: documentID, EntityID: entityID, EntityType: entityType}
			return linked, nil
		},
	}
	svc := NewService(docs, rels, &fakeBlobStore{}, testLimits(), discardLogger())

	_, err := svc.UploadAndLinkDocument(context.Background(), "u1", FileUpload{Filename: "a.png", MimeType: "image/png", Size: 1},
		UploadDocumentPayload{EntityType: EntityTypeUserProfile}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked == nil || linked.DocumentID != "doc-1" || linked.EntityID != "u1" {
		t.Fatalf("expected relation doc-1 -> u1, got %+v", linked)
	}
}

func TestDeleteDocumentConcealsForeignOwnership(t *testing.T) {
	docs := &fakeDocumentRepo{
		findByID: func(ctx context.Context, id string) (*Document, error) {
			return &Document{ID: id, UserID: "owner", StoragePath: "documents/owner/user_profile/1_a.png"}, nil
		},
	}
	svc := NewService(docs, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	err := svc.DeleteDocument(context.Background(), "doc-1", "intruder")

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for foreign document, got %v", err)
	}
	if len(docs.deleted) != 0 {
		t.Fatalf("foreign delete must not touch the record, deleted %v", docs.deleted)
	}
}

func TestDeleteDocumentMissingIsNotFound(t *testing.T) {
	docs := &fakeDocumentRepo{
		findByID: func(ctx context.Context, id string) (*Document, error) { return nil, nil },
	}
	svc := NewService(docs, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	err := svc.DeleteDocument(context.Background(), "gone", "u1")

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNotFound {
		t.Fatalf("expected NOT_FOUND on repeated delete, got %v", err)
	}
}

func TestDeleteDocumentSurvivesBlobFailure(t *testing.T) {
	docs := &fakeDocumentRepo{
		findByID: func(ctx context.Context, id string) (*Document, error) {
			return &Document{ID: id, UserID: "u1", StoragePath: "documents/u1/user_profile/1_a.png"}, nil
		},
	}
	rels := &fakeRelationRepo{}
	blobs := &fakeBlobStore{deleteErr: fmt.Errorf("object not found")}
	svc := NewService(docs, rels, blobs, testLimits(), discardLogger())

	if err := svc.DeleteDocument(context.Background(), "doc-1", "u1"); err != nil {
		t.Fatalf("blob failure must not fail the delete: %v", err)
	}
	if len(rels.deletedByDoc) != 1 || rels.deletedByDoc[0] != "doc-1" {
		t.Fatalf("expected relation cascade for doc-1, got %v", rels.deletedByDoc)
	}
	if len(docs.deleted) != 1 || docs.deleted[0] != "doc-1" {
		t.Fatalf("expected record delete for doc-1, got %v", docs.deleted)
	}
}

func TestCreateRelationMissingDocument(t *testing.T) {
	docs := &fakeDocumentRepo{
		findByID: func(ctx context.Context, id string) (*Document, error) { return nil, nil },
	}
	svc := NewService(docs, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	_, err := svc.CreateRelation(context.Background(), CreateDocumentRelationPayload{
		DocumentID: "gone", EntityID: "u1", EntityType: EntityTypeUserProfile,
	})

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteRelationMissing(t *testing.T) {
	rels := &fakeRelationRepo{
		findByID: func(ctx context.Context, id string) (*DocumentRelation, error) { return nil, nil },
	}
	svc := NewService(&fakeDocumentRepo{}, rels, &fakeBlobStore{}, testLimits(), discardLogger())

	err := svc.DeleteRelation(context.Background(), "gone")

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if appErr.Message != "Document relation not found" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestGetDocumentsByEntitySkipsDanglingRelations(t *testing.T) {
	docs := &fakeDocumentRepo{
		findByID: func(ctx context.Context, id string) (*Document, error) {
			if id == "doc-live" {
				return &Document{ID: id, UserID: "u1"}, nil
			}
			return nil, nil
		},
	}
	rels := &fakeRelationRepo{
		findByEntity: func(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error) {
			return []DocumentRelation{
				{ID: "rel-1", DocumentID: "doc-live"},
				{ID: "rel-2", DocumentID: "doc-dangling"},
			}, nil
		},
	}
	svc := NewService(docs, rels, &fakeBlobStore{}, testLimits(), discardLogger())

	result, err := svc.GetDocumentsByEntity(context.Background(), "u1", EntityTypeUserProfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].ID != "doc-live" {
		t.Fatalf("expected only doc-live, got %+v", result)
	}
}

func TestGetDocumentsPage(t *testing.T) {
	all := make([]Document, 45)
	for i := range all {
		all[i] = Document{ID: fmt.Sprintf("doc-%d", i), UserID: "u1"}
	}
	docs := &fakeDocumentRepo{
		findByUserID: func(ctx context.Context, userID string) ([]Document, error) { return all, nil },
	}
	svc := NewService(docs, &fakeRelationRepo{}, &fakeBlobStore{}, testLimits(), discardLogger())

	tests := []struct {
		name      string
		page      int
		limit     int
		wantLen   int
		wantMeta  PaginationMeta
		wantFirst string
	}{
		{
			name: "first page defaults", page: 0, limit: 0, wantLen: 20,
			wantMeta:  PaginationMeta{Page: 1, Limit: 20, Total: 45, TotalPages: 3, HasNextPage: true, HasPrevPage: false},
			wantFirst: "doc-0",
		},
		{
			name: "middle page", page: 2, limit: 20, wantLen: 20,
			wantMeta:  PaginationMeta{Page: 2, Limit: 20, Total: 45, TotalPages: 3, HasNextPage: true, HasPrevPage: true},
			wantFirst: "doc-20",
		},
		{
			name: "short last page", page: 3, limit: 20, wantLen: 5,
			wantMeta:  PaginationMeta{Page: 3, Limit: 20, Total: 45, TotalPages: 3, HasNextPage: false, HasPrevPage: true},
			wantFirst: "doc-40",
		},
		{
			name: "page beyond end", page: 9, limit: 20, wantLen: 0,
			wantMeta: PaginationMeta{Page: 9, Limit: 20, Total: 45, TotalPages: 3, HasNextPage: false, HasPrevPage: true},
		},
		{
			name: "limit capped", page: 1, limit: 500, wantLen: 45,
			wantMeta:  PaginationMeta{Page: 1, Limit: 100, Total: 45, TotalPages: 1, HasNextPage: false, HasPrevPage: false},
			wantFirst: "doc-0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, meta, err := svc.GetDocumentsPage(context.Background(), "u1", tt.page, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(page) != tt.wantLen {
				t.Fatalf("expected %d documents, got %d", tt.wantLen, len(page))
			}
			if meta != tt.wantMeta {
				t.Fatalf("expected meta %+v, got %+v", tt.wantMeta, meta)
			}
			if tt.wantFirst != "" && page[0].ID != tt.wantFirst {
				t.Fatalf("expected first %q, got %q", tt.wantFirst, page[0].ID)
			}
		})
	}
}

func TestDeleteDocumentsByEntity(t *testing.T) {
	owned := map[string]*Document{
		"doc-1": {ID: "doc-1", UserID: "u1", StoragePath: "p1"},
		"doc-2": {ID: "doc-2", UserID: "u1", StoragePath: "p2"},
	}
	docs := &fakeDocumentRepo{
		findByID: func(ctx context.Context, id string) (*Document, error) { return owned[id], nil },
	}
	rels := &fakeRelationRepo{
		findByEntity: func(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error) {
			return []DocumentRelation{
				{ID: "rel-1", DocumentID: "doc-1"},
				{ID: "rel-2", DocumentID: "doc-2"},
			}, nil
		},
	}
	blobs := &fakeBlobStore{}
	svc := NewService(docs, rels, blobs, testLimits(), discardLogger())

	if err := svc.DeleteDocumentsByEntity(context.Background(), "u1", EntityTypeUserProfile, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs.deleted) != 2 {
		t.Fatalf("expected both records deleted, got %v", docs.deleted)
	}
	if len(blobs.deleted) != 2 {
		t.Fatalf("expected both blobs deleted, got %v", blobs.deleted)
	}
}
