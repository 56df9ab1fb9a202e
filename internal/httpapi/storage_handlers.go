package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kursattkorkmazzz/garagely/internal/storage"
	"github.com/kursattkorkmazzz/garagely/internal/validate"
)

// uploadDocument accepts a multipart form with the file plus entityType,
// title and an optional entityId. With entityId present the document is
// linked in the same request.
func uploadDocument(deps Deps) http.HandlerFunc {
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

		payload := storage.UploadDocumentPayload{
			EntityType: storage.EntityType(r.FormValue("entityType")),
			Title:      r.FormValue("title"),
			EntityID:   r.FormValue("entityId"),
		}
		if err := validate.Struct(&payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		var document *storage.Document
		if payload.EntityID != "" {
			document, err = deps.Storage.UploadAndLinkDocument(ctx, subject.UserID, file, payload, payload.EntityID)
		} else {
			document, err = deps.Storage.UploadDocument(ctx, subject.UserID, file, payload)
		}
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, document)
	}
}

func listDocuments(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		documents, meta, err := deps.Storage.GetDocumentsPage(ctx, subject.UserID, page, limit)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writePage(w, documents, meta)
	}
}

func getDocument(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := subjectID(w, r, deps); !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		document, err := deps.Storage.GetDocumentByID(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, document)
	}
}

func deleteDocument(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := subjectID(w, r, deps)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := deps.Storage.DeleteDocument(ctx, chi.URLParam(r, "id"), subject.UserID); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
	}
}

func createRelation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := subjectID(w, r, deps); !ok {
			return
		}

		var payload storage.CreateDocumentRelationPayload
		if err := validate.Decode(r, &payload); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		relation, err := deps.Storage.CreateRelation(ctx, payload)
		if err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, relation)
	}
}

func deleteRelation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := subjectID(w, r, deps); !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := deps.Storage.DeleteRelation(ctx, chi.URLParam(r, "id")); err != nil {
			writeError(r.Context(), w, deps.Logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"message": "Document relation deleted successfully"})
	}
}
