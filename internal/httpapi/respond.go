package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeData emits the success envelope. data is serialized even when nil or
// empty; its presence is part of the contract.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func writePage(w http.ResponseWriter, data any, meta storage.PaginationMeta) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data, "meta": meta})
}

// writeError maps any error onto the taxonomy envelope. Unclassified
// failures are logged with the request id and surface only the generic
// internal message.
func writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		attrs := []any{slog.Any("error", err)}
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			attrs = append(attrs, slog.String("requestId", reqID))
		}
		logger.Error("request failed", attrs...)
	}
	writeJSON(w, appErr.Status(), map[string]any{"success": false, "error": appErr})
}
