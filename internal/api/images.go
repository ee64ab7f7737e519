package api

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erazemk/zbirka/internal/imaging"
	"github.com/erazemk/zbirka/internal/model"
)

// Thumbnail bounds in pixels.
const (
	DefaultThumbnailSize = 256
	minThumbnailSize     = 16
)

const thumbnailTTL = time.Hour

// NewThumbnailCache returns a cache for scaled photos, or nil when size is
// not positive.
func NewThumbnailCache(size int) *expirable.LRU[string, []byte] {
	if size <= 0 {
		return nil
	}
	return expirable.NewLRU[string, []byte](size, nil, thumbnailTTL)
}

// thumbnailKey changes whenever the photo does, so replaced photos never hit
// a stale entry.
func thumbnailKey(id string, size int, data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%d:%x", id, size, sum[:8])
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Items.Get(id); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, err := imaging.Compress(file)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		jsonError(w, http.StatusBadRequest, "image must be JPEG or PNG")
		return
	}
	if err != nil {
		slog.Warn("rejected image upload", "id", id, "error", err)
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	if _, ok := h.Items.Modify(r.Context(), id, func(it *model.Item) { it.ImageData = data }); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	item, ok := h.Items.Get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if len(item.ImageData) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}
	writeImage(w, item.ImageData)
}

// DeleteImage handles DELETE /api/items/{id}/image.
func (h *ItemsHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Items.Modify(r.Context(), chi.URLParam(r, "id"), func(it *model.Item) { it.ImageData = nil }); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image removed"})
}

// Thumbnail handles GET /api/items/{id}/thumbnail?size=N.
func (h *ItemsHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	size := DefaultThumbnailSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < minThumbnailSize || n > imaging.MaxDimension {
			jsonError(w, http.StatusBadRequest, fmt.Sprintf("size must be between %d and %d", minThumbnailSize, imaging.MaxDimension))
			return
		}
		size = n
	}

	item, ok := h.Items.Get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if len(item.ImageData) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	key := thumbnailKey(item.ID, size, item.ImageData)
	if h.Thumbs != nil {
		if thumb, ok := h.Thumbs.Get(key); ok {
			writeImage(w, thumb)
			return
		}
	}

	thumb, err := imaging.Thumbnail(item.ImageData, size)
	if err != nil {
		// Imported data may hold bytes that are not a photo.
		slog.Warn("failed to scale image", "id", item.ID, "error", err)
		jsonError(w, http.StatusUnprocessableEntity, "stored image cannot be scaled")
		return
	}
	if h.Thumbs != nil {
		h.Thumbs.Add(key, thumb)
	}
	writeImage(w, thumb)
}

func writeImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
