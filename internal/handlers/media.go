// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// maxUploadSize is the maximum allowed media upload size (50 MB).
	maxUploadSize = 50 << 20
)

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// MediaUpload stores an uploaded image in object storage and returns its
// storage key and absolute URL. The key goes into an image's relative_url;
// the writer cleans the object up when the image row is removed.
func (a *API) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		errorJSON(w, http.StatusServiceUnavailable, errors.New("object storage not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, errors.New("read upload"))
		return
	}

	contentType := http.DetectContentType(data)
	if strings.HasSuffix(header.Filename, ".svg") {
		contentType = "image/svg+xml"
	}
	if !allowedMediaTypes[contentType] {
		errorJSON(w, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported media type %s", contentType))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("media/%s/%s%s", time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)

	if err := a.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		a.fail(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": a.storage.FileURL(key),
	})
}
