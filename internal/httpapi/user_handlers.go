package httpapi

import (
	"context"
	"net/http"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/auth"
	"github.com/kursattkorkmazzz/garagely/internal/user"
	"github.com/kursattkorkmazzz/garagely/internal/validate"
)

// subjectID extracts the authenticated user or writes the 401 envelope.
func subjectID(w http.ResponseWriter, r *http.Request, deps Deps) (auth.AuthenticatedUser, bool) {
	subject, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, deps.Logger, apperror.Unauthorized(""))
	}
	return subject, ok
}

func getMe(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := deps.Users.GetUserWithPreferences(ctx, subject.UserID)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, profile)
	}
}

func updateMe(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		var payload user.UpdateUserPayload
		if err := validate.Decode(r, &payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		updated, err := deps.Users.UpdateUser(ctx, subject.UserID, payload)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, updated)
	}
}

// deleteMe removes the profile with its documents and preferences, then the
// identity-provider account itself.
func deleteMe(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := deps.Users.DeleteUser(ctx, subject.UserID); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		if err := deps.Auth.DeleteAccount(ctx, subject.UserID); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
	}
}

func updatePreferences(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		var payload user.UpdatePreferencesPayload
		if err := validate.Decode(r, &payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		updated, err := deps.Users.UpdateUserPreferences(ctx, subject.UserID, payload)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, updated)
	}
}

func uploadAvatar(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		file, err := readUpload(w, r, "file", deps.Limits.MaxUploadSize())
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		document, err := deps.Users.UploadAvatar(ctx, subject.UserID, file)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, document)
	}
}

// getAvatar returns 200 with data null when no avatar exists; absence is a
// normal state, not an error.
func getAvatar(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		document, err := deps.Users.GetAvatar(ctx, subject.UserID)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, document)
	}
}

func removeAvatar(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := deps.Users.RemoveAvatar(ctx, subject.UserID); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"message": "Avatar removed successfully"})
	}
}
