// Package http exposes the REST API over chi.
package http

import (
	"encoding/json"
	"net/http"

	"vidtube/internal/storage"
	apperrors "vidtube/pkg/errors"
)

const (
	maxJSONBody      = 1 << 20   // 1MB
	maxImageUpload   = 8 << 20   // 8MB
	maxVideoUpload   = 512 << 20 // 512MB
	multipartMemory  = 32 << 20
)

// decodeJSON reads and decodes a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return nil
}

// formFile extracts an uploaded file from a parsed multipart form.
// It returns nil when the field is absent.
func formFile(r *http.Request, field string) (*storage.UploadInput, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperrors.InvalidInput("invalid file field " + field)
	}

	return &storage.UploadInput{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}, func() { _ = file.Close() }, nil
}

// requireFile is formFile for fields that must be present.
func requireFile(r *http.Request, field string) (*storage.UploadInput, func(), error) {
	upload, closeFn, err := formFile(r, field)
	if err != nil {
		return nil, closeFn, err
	}
	if upload == nil {
		return nil, closeFn, apperrors.InvalidInput(field + " file is required")
	}
	return upload, closeFn, nil
}
