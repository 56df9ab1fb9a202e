package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

type fakeRepo struct {
	findByID    func(ctx context.Context, id string) (*User, error)
	findByEmail func(ctx context.Context, email string) (*User, error)
	create      func(ctx context.Context, id string, data CreateUserPayload) (*User, error)
	update      func(ctx context.Context, id string, data UpdateUserPayload) (*User, error)
	delete      func(ctx context.Context, id string) error
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*User, error) {
	return f.findByID(ctx, id)
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return f.findByEmail(ctx, email)
}

func (f *fakeRepo) Create(ctx context.Context, id string, data CreateUserPayload) (*User, error) {
	return f.create(ctx, id, data)
}

func (f *fakeRepo) Update(ctx context.Context, id string, data UpdateUserPayload) (*User, error) {
	return f.update(ctx, id, data)
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

type fakePrefsRepo struct {
	findByUserID   func(ctx context.Context, userID string) (*Preferences, error)
	create         func(ctx context.Context, userID string) (*Preferences, error)
	update         func(ctx context.Context, userID string, data UpdatePreferencesPayload) (*Preferences, error)
	deleteByUserID func(ctx context.Context, userID string) error
}

func (f *fakePrefsRepo) FindByUserID(ctx context.Context, userID string) (*Preferences, error) {
	return f.findByUserID(ctx, userID)
}

func (f *fakePrefsRepo) Create(ctx context.Context, userID string) (*Preferences, error) {
	return f.create(ctx, userID)
}

func (f *fakePrefsRepo) Update(ctx context.Context, userID string, data UpdatePreferencesPayload) (*Preferences, error) {
	return f.update(ctx, userID, data)
}

func (f *fakePrefsRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return f.deleteByUserID(ctx, userID)
}

type fakeDocumentStore struct {
	uploadAndLink   func(ctx context.Context, userID string, file storage.FileUpload, payload storage.UploadDocumentPayload, entityID string) (*storage.Document, error)
	getByEntity     func(ctx context.Context, entityID string, entityType storage.EntityType) ([]storage.Document, error)
	deleteByEntity  func(ctx context.Context, entityID string, entityType storage.EntityType, userID string) error
	deletedEntities []string
}

func (f *fakeDocumentStore) UploadAndLinkDocument(ctx context.Context, userID string, file storage.FileUpload, payload storage.UploadDocumentPayload, entityID string) (*storage.Document, error) {
	return f.uploadAndLink(ctx, userID, file, payload, entityID)
}

func (f *fakeDocumentStore) GetDocumentsByEntity(ctx context.Context, entityID string, entityType storage.EntityType) ([]storage.Document, error) {
	if f.getByEntity == nil {
		return []storage.Document{}, nil
	}
	return f.getByEntity(ctx, entityID, entityType)
}

func (f *fakeDocumentStore) DeleteDocumentsByEntity(ctx context.Context, entityID string, entityType storage.EntityType, userID string) error {
	f.deletedEntities = append(f.deletedEntities, entityID)
	if f.deleteByEntity == nil {
		return nil
	}
	return f.deleteByEntity(ctx, entityID, entityType, userID)
}

func testUser(id string) *User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &User{ID: id, FullName: "Test User", Email: "test@example.com", CreatedAt: now, UpdatedAt: now}
}

func defaultPrefs(userID string) *Preferences {
	return &Preferences{
		ID:                    "prefs-1",
		UserID:                userID,
		Locale:                "en",
		PreferredDistanceUnit: DistanceUnitKilometers,
		PreferredCurrency:     "USD",
		Theme:                 ThemeSystem,
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return nil, nil },
	}, &fakePrefsRepo{}, NoDocuments{})

	_, err := svc.GetUserByID(context.Background(), "missing")

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetUserWithPreferencesLazyCreate(t *testing.T) {
	created := false
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return testUser(id), nil },
	}, &fakePrefsRepo{
		findByUserID: func(ctx context.Context, userID string) (*Preferences, error) { return nil, nil },
		create: func(ctx context.Context, userID string) (*Preferences, error) {
			created = true
			return defaultPrefs(userID), nil
		},
	}, NoDocuments{})

	result, err := svc.GetUserWithPreferences(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected default preferences to be created")
	}
	if result.Preferences == nil || result.Preferences.Locale != "en" {
		t.Fatalf("expected default preferences, got %+v", result.Preferences)
	}
	if result.Avatar != nil {
		t.Fatalf("expected no avatar, got %+v", result.Avatar)
	}
}

func TestGetUserWithPreferencesAttachesAvatar(t *testing.T) {
	avatar := storage.Document{ID: "doc-1", UserID: "u1", Title: "me.png"}
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return testUser(id), nil },
	}, &fakePrefsRepo{
		findByUserID: func(ctx context.Context, userID string) (*Preferences, error) {
			return defaultPrefs(userID), nil
		},
	}, &fakeDocumentStore{
		getByEntity: func(ctx context.Context, entityID string, entityType storage.EntityType) ([]storage.Document, error) {
			if entityType != storage.EntityTypeUserProfile {
				t.Fatalf("unexpected entity type %q", entityType)
			}
			return []storage.Document{avatar}, nil
		},
	})

	result, err := svc.GetUserWithPreferences(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Avatar == nil || result.Avatar.ID != "doc-1" {
		t.Fatalf("expected avatar doc-1, got %+v", result.Avatar)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(&fakeRepo{
		findByEmail: func(ctx context.Context, email string) (*User, error) { return testUser("u1"), nil },
	}, &fakePrefsRepo{}, NoDocuments{})

	_, err := svc.CreateUser(context.Background(), "u2", CreateUserPayload{Email: "test@example.com", FullName: "Dup"})

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if !strings.Contains(appErr.Message, "already exists") {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestCreateUserWritesDefaultsAfterRecord(t *testing.T) {
	var order []string
	svc := NewService(&fakeRepo{
		findByEmail: func(ctx context.Context, email string) (*User, error) { return nil, nil },
		create: func(ctx context.Context, id string, data CreateUserPayload) (*User, error) {
			order = append(order, "user")
			return testUser(id), nil
		},
	}, &fakePrefsRepo{
		create: func(ctx context.Context, userID string) (*Preferences, error) {
			order = append(order, "prefs")
			return defaultPrefs(userID), nil
		},
	}, NoDocuments{})

	user, err := svc.CreateUser(context.Background(), "u1", CreateUserPayload{Email: "new@example.com", FullName: "New User"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("expected id u1, got %q", user.ID)
	}
	if len(order) != 2 || order[0] != "user" || order[1] != "prefs" {
		t.Fatalf("expected user write before preferences, got %v", order)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return nil, nil },
	}, &fakePrefsRepo{}, NoDocuments{})

	name := "Renamed"
	_, err := svc.UpdateUser(context.Background(), "missing", UpdateUserPayload{FullName: &name})

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteUserCascadeOrder(t *testing.T) {
	var order []string
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return testUser(id), nil },
		delete: func(ctx context.Context, id string) error {
			order = append(order, "user")
			return nil
		},
	}, &fakePrefsRepo{
		deleteByUserID: func(ctx context.Context, userID string) error {
			order = append(order, "prefs")
			return nil
		},
	}, &fakeDocumentStore{
		deleteByEntity: func(ctx context.Context, entityID string, entityType storage.EntityType, userID string) error {
			order = append(order, "documents")
			return nil
		},
	})

	if err := svc.DeleteUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"documents", "prefs", "user"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestUploadAvatarReplacesExisting(t *testing.T) {
	uploaded := false
	docs := &fakeDocumentStore{
		uploadAndLink: func(ctx context.Context, userID string, file storage.FileUpload, payload storage.UploadDocumentPayload, entityID string) (*storage.Document, error) {
			uploaded = true
			if entityID != userID {
				t.Fatalf("expected entity id %q, got %q", userID, entityID)
			}
			return &storage.Document{ID: "doc-2", UserID: userID, Title: payload.Title}, nil
		},
	}
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return testUser(id), nil },
	}, &fakePrefsRepo{}, docs)

	doc, err := svc.UploadAvatar(context.Background(), "u1", storage.FileUpload{Filename: "new.png", MimeType: "image/png", Size: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !uploaded {
		t.Fatal("expected upload to happen")
	}
	if len(docs.deletedEntities) != 1 || docs.deletedEntities[0] != "u1" {
		t.Fatalf("expected existing avatar removal for u1, got %v", docs.deletedEntities)
	}
	if doc.ID != "doc-2" {
		t.Fatalf("expected doc-2, got %q", doc.ID)
	}
}

func TestGetAvatarNilWhenAbsent(t *testing.T) {
	svc := NewService(&fakeRepo{
		findByID: func(ctx context.Context, id string) (*User, error) { return testUser(id), nil },
	}, &fakePrefsRepo{}, NoDocuments{})

	doc, err := svc.GetAvatar(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil avatar, got %+v", doc)
	}
}
