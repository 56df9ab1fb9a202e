package httpapi

import (
	"context"
	"net/http"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/auth"
	"github.com/kursattkorkmazzz/garagely/internal/validate"
)

func register(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.RegisterPayload
		if err := validate.Decode(r, &payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		result, err := deps.Auth.Register(ctx, payload)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, result)
	}
}

func login(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.LoginPayload
		if err := validate.Decode(r, &payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		result, err := deps.Auth.Login(ctx, payload)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, result)
	}
}

func changePassword(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(r.Context(), w, deps.Logger, apperror.Unauthorized(""))
			return
		}

		var payload auth.ChangePasswordPayload
		if err := validate.Decode(r, &payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := deps.Auth.ChangePassword(ctx, subject.UserID, subject.Email, payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}
