package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/query"
	"github.com/erazemk/zbirka/internal/store"
)

// ItemsHandler handles item, wishlist and photo endpoints.
type ItemsHandler struct {
	Items  *store.Store
	Thumbs *expirable.LRU[string, []byte]
	Now    func() time.Time
}

func (h *ItemsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// itemView is an item without its photo bytes, which are served separately.
type itemView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Condition    model.Condition `json:"condition"`
	Notes        string          `json:"notes"`
	IsInWishlist bool            `json:"isInWishlist"`
	Priority     model.Priority  `json:"priority"`
	HasImage     bool            `json:"hasImage"`
}

func newItemView(it model.Item) itemView {
	return itemView{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		PurchaseDate: it.PurchaseDate,
		Condition:    it.Condition,
		Notes:        it.Notes,
		IsInWishlist: it.IsInWishlist,
		Priority:     it.Priority,
		HasImage:     len(it.ImageData) > 0,
	}
}

func newItemViews(items []model.Item) []itemView {
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, newItemView(it))
	}
	return views
}

type createItemRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"required,max=100"`
	PurchaseDate *time.Time      `json:"purchaseDate"`
	Condition    model.Condition `json:"condition" validate:"required"`
	Notes        string          `json:"notes" validate:"max=5000"`
}

type updateItemRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"required,max=100"`
	PurchaseDate time.Time       `json:"purchaseDate" validate:"required"`
	Condition    model.Condition `json:"condition" validate:"required"`
	Notes        string          `json:"notes" validate:"max=5000"`
	IsInWishlist bool            `json:"isInWishlist"`
	Priority     model.Priority  `json:"priority"`
}

type wishlistRequest struct {
	Name     string         `json:"name" validate:"required,max=200"`
	Notes    string         `json:"notes" validate:"max=5000"`
	Priority model.Priority `json:"priority"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := query.FilteredAndSorted(h.Items.Items(), q.Get("search"), query.ParseSort(q.Get("sort")))
	jsonResponse(w, http.StatusOK, newItemViews(items))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	purchased := h.now()
	if req.PurchaseDate != nil {
		purchased = *req.PurchaseDate
	}

	item := model.NewItem(req.Name, req.Category, purchased, req.Condition, req.Notes, nil)
	h.Items.Add(r.Context(), item)
	jsonResponse(w, http.StatusCreated, newItemView(item))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.Items.Get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(item))
}

// Update handles PUT /api/items/{id}. Every editable field is replaced; the
// photo is managed through the image endpoints and kept as is.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	item, ok := h.Items.Modify(r.Context(), chi.URLParam(r, "id"), func(it *model.Item) {
		*it = model.Item{
			ID:           it.ID,
			Name:         req.Name,
			Category:     req.Category,
			PurchaseDate: req.PurchaseDate,
			Condition:    req.Condition,
			Notes:        req.Notes,
			ImageData:    it.ImageData,
			IsInWishlist: req.IsInWishlist,
			Priority:     req.Priority,
		}
	})
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(item))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Items.Delete(r.Context(), chi.URLParam(r, "id")) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Collect handles POST /api/items/{id}/collect.
func (h *ItemsHandler) Collect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := h.Items.MoveFromWishlistToCollection(r.Context(), id)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	slog.Info("item moved to collection", "user", GetClaims(r.Context()).Username, "id", id, "name", item.Name)
	jsonResponse(w, http.StatusOK, newItemView(item))
}

// Collection handles GET /api/collection.
func (h *ItemsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, newItemViews(query.CollectionItems(h.Items.Items())))
}

// Wishlist handles GET /api/wishlist.
func (h *ItemsHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, newItemViews(query.WishlistItems(h.Items.Items())))
}

// AddToWishlist handles POST /api/wishlist.
func (h *ItemsHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	item := model.NewWishlistItem(req.Name, req.Notes, nil, req.Priority, h.now())
	h.Items.Add(r.Context(), item)
	jsonResponse(w, http.StatusCreated, newItemView(item))
}
