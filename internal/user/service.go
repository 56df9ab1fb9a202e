package user

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

type service struct {
	repo      Repository
	prefsRepo PreferencesRepository
	documents DocumentStore
}

// NewService creates a new user service. documents may be NoDocuments when
// avatar features are disabled at composition time.
func NewService(repo Repository, prefsRepo PreferencesRepository, documents DocumentStore) Service {
	return &service{repo: repo, prefsRepo: prefsRepo, documents: documents}
}

func (s *service) GetUserByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// GetUserWithPreferences loads the user, its preferences and its avatar in
// parallel. Preferences missing on read are created with defaults.
func (s *service) GetUserWithPreferences(ctx context.Context, id string) (*WithPreferences, error) {
	var (
		user   *User
		prefs  *Preferences
		avatar *storage.Document
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.repo.FindByID(gctx, id)
		if err != nil {
			return err
		}
		user = u
		return nil
	})

	g.Go(func() error {
		p, err := s.prefsRepo.FindByUserID(gctx, id)
		if err != nil {
			return err
		}
		prefs = p
		return nil
	})

	g.Go(func() error {
		a, err := s.currentAvatar(gctx, id)
		if err != nil {
			return err
		}
		avatar = a
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	if prefs == nil {
		created, err := s.prefsRepo.Create(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("create default preferences: %w", err)
		}
		prefs = created
	}

	return &WithPreferences{User: *user, Preferences: prefs, Avatar: avatar}, nil
}

// CreateUser writes the user record and its default preferences. The two
// writes are sequential and not transactional; a crash in between leaves a
// user without preferences, which the lazy default on read repairs.
func (s *service) CreateUser(ctx context.Context, id string, data CreateUserPayload) (*User, error) {
	existing, err := s.repo.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("User with this email already exists")
	}

	user, err := s.repo.Create(ctx, id, data)
	if err != nil {
		return nil, err
	}
	if _, err := s.prefsRepo.Create(ctx, id); err != nil {
		return nil, fmt.Errorf("create preferences: %w", err)
	}
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, id string, data UpdateUserPayload) (*User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("User not found")
	}
	return s.repo.Update(ctx, id, data)
}

func (s *service) UpdateUserPreferences(ctx context.Context, id string, data UpdatePreferencesPayload) (*WithPreferences, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("User not found")
	}

	if _, err := s.prefsRepo.Update(ctx, id, data); err != nil {
		return nil, err
	}
	return s.GetUserWithPreferences(ctx, id)
}

// DeleteUser cascades: profile documents first, then preferences, then the
// user record. Callers remove the identity-provider account afterwards.
func (s *service) DeleteUser(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotFound("User not found")
	}

	if err := s.documents.DeleteDocumentsByEntity(ctx, id, storage.EntityTypeUserProfile, id); err != nil {
		return fmt.Errorf("cascade document deletion: %w", err)
	}
	if err := s.prefsRepo.DeleteByUserID(ctx, id); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// UploadAvatar enforces the at-most-one-avatar invariant: any existing
// avatar document is deleted before the new one is uploaded and linked.
func (s *service) UploadAvatar(ctx context.Context, userID string, file storage.FileUpload) (*storage.Document, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.documents.DeleteDocumentsByEntity(ctx, userID, storage.EntityTypeUserProfile, userID); err != nil {
		return nil, fmt.Errorf("remove existing avatar: %w", err)
	}

	return s.documents.UploadAndLinkDocument(ctx, userID, file, storage.UploadDocumentPayload{
		EntityType: storage.EntityTypeUserProfile,
		Title:      file.Filename,
	}, userID)
}

// GetAvatar returns the user's current avatar document, or nil when none exists.
func (s *service) GetAvatar(ctx context.Context, userID string) (*storage.Document, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.currentAvatar(ctx, userID)
}

func (s *service) RemoveAvatar(ctx context.Context, userID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return s.documents.DeleteDocumentsByEntity(ctx, userID, storage.EntityTypeUserProfile, userID)
}

func (s *service) currentAvatar(ctx context.Context, userID string) (*storage.Document, error) {
	documents, err := s.documents.GetDocumentsByEntity(ctx, userID, storage.EntityTypeUserProfile)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, nil
	}
	return &documents[0], nil
}

// NoDocuments is the null DocumentStore used when storage is not wired.
// Reads behave as if the user has no documents; uploads are rejected.
type NoDocuments struct{}

func (NoDocuments) UploadAndLinkDocument(context.Context, string, storage.FileUpload, storage.UploadDocumentPayload, string) (*storage.Document, error) {
	return nil, apperror.Validation("Document storage is not available", nil)
}

func (NoDocuments) GetDocumentsByEntity(context.Context, string, storage.EntityType) ([]storage.Document, error) {
	return []storage.Document{}, nil
}

func (NoDocuments) DeleteDocumentsByEntity(context.Context, string, storage.EntityType, string) error {
	return nil
}
