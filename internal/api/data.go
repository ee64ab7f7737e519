package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/zbirka/internal/store"
)

// maxImportBytes bounds an import body. Photos are inlined, so this is far
// above maxBodyBytes.
const maxImportBytes = 256 << 20

// DataHandler handles export, import, clearing and the profile name.
type DataHandler struct {
	Items *store.Store
}

type profile struct {
	UserName string `json:"userName" validate:"max=100"`
}

// Export handles GET /api/export.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Items.ExportJSON()
	if err != nil {
		slog.Error("failed to export items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export items")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="zbirka-export.json"`)
	io.WriteString(w, data)
}

// Import handles POST /api/import. The body replaces the whole item list.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "import too large")
		return
	}

	count, err := h.Items.ImportJSON(r.Context(), string(body))
	if err != nil {
		if errors.Is(err, store.ErrInvalidImport) {
			jsonError(w, http.StatusBadRequest, "invalid import data")
			return
		}
		slog.Error("failed to import items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to import items")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("items imported", "user", claims.Username, "count", count)
	jsonResponse(w, http.StatusOK, map[string]int{"imported": count})
}

// Clear handles DELETE /api/data.
func (h *DataHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Items.ClearAll(r.Context())
	slog.Info("all items cleared", "user", GetClaims(r.Context()).Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "all items deleted"})
}

// GetProfile handles GET /api/profile.
func (h *DataHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, profile{UserName: h.Items.UserName(r.Context())})
}

// UpdateProfile handles PUT /api/profile.
func (h *DataHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profile
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Items.SetUserName(r.Context(), req.UserName); err != nil {
		slog.Error("failed to save profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	jsonResponse(w, http.StatusOK, req)
}
