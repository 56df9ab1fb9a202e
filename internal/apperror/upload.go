package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Upload-middleware limit violations. Multipart parsing reports limit
// breaches through a handful of distinct error shapes; each maps onto the
// validation family, attaching the offending field name when known.

var (
	// ErrTooManyFiles signals more file parts than the endpoint accepts.
	ErrTooManyFiles = errors.New("too many files")
	// ErrMissingFile signals an absent required file part.
	ErrMissingFile = errors.New("file is required")
)

// FromUpload translates a multipart/upload parsing failure. field names the
// form field being read when the violation occurred, or is empty.
func FromUpload(err error, field string) *Error {
	if err == nil {
		return nil
	}

	details := func(message string) map[string][]string {
		if field == "" {
			return nil
		}
		return map[string][]string{field: {message}}
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return &Error{
			Code:    CodeFileTooLarge,
			Message: "File is too large",
			Details: details("File is too large"),
		}
	case errors.Is(err, ErrTooManyFiles):
		return &Error{
			Code:    CodeTooManyFiles,
			Message: "Too many files",
			Details: details("Too many files"),
		}
	case errors.Is(err, ErrMissingFile):
		return Validation("No file uploaded", map[string][]string{"file": {"File is required"}})
	case strings.Contains(err.Error(), "request body too large"):
		return &Error{
			Code:    CodeFileTooLarge,
			Message: "File is too large",
			Details: details("File is too large"),
		}
	default:
		return &Error{
			Code:    CodeFileUploadError,
			Message: "File upload error",
			Details: details("File upload error"),
		}
	}
}
