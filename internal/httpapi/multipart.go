package httpapi

import (
	"io"
	"net/http"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

const multipartMemoryLimit = 4 << 20 // buffered in memory before spilling to disk

// multipartOverhead is headroom on top of the file ceiling for the multipart
// framing itself: boundary lines, part headers and the other form fields. A
// file of exactly the configured limit must survive parsing.
const multipartOverhead = 64 << 10

// readUpload extracts a single uploaded file from a multipart form. The body
// cap is a backstop against grossly oversized requests; the exact per-file
// limit is enforced by the storage service, which knows the entity type and
// names the limit in its error.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (storage.FileUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return storage.FileUpload{}, apperror.FromUpload(err, field)
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return storage.FileUpload{}, apperror.FromUpload(apperror.ErrMissingFile, field)
	}
	if len(files) > 1 {
		return storage.FileUpload{}, apperror.FromUpload(apperror.ErrTooManyFiles, field)
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return storage.FileUpload{}, apperror.FromUpload(err, field)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return storage.FileUpload{}, apperror.FromUpload(err, field)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return storage.FileUpload{
		Content:  content,
		Filename: header.Filename,
		MimeType: mimeType,
		Size:     int64(len(content)),
	}, nil
}
