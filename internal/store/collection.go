package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/erazemk/zbirka/internal/kv"
	"github.com/erazemk/zbirka/internal/metrics"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/query"
)

// Keys in the kv namespace.
const (
	ItemsKey    = "items"
	UserNameKey = "user_name"
)

var (
	// ErrCorruptData means the persisted item list could not be decoded.
	ErrCorruptData = errors.New("stored item list is corrupt")

	// ErrInvalidImport means imported JSON is not a valid item list.
	ErrInvalidImport = errors.New("invalid import data")
)

// Store owns the item list and its persisted copy. Every mutation rewrites the
// whole list under ItemsKey before returning.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	items []model.Item
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for wishlist conversion.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns an empty store backed by kv. Call Load to read persisted items.
func New(kv kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		now: time.Now,
		log: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted one. Missing data gives
// an empty list and so does data that cannot be read or decoded.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readItems(ctx)
	if err != nil {
		s.log.Warn("discarding unreadable item list", "error", err)
		items = nil
	}
	s.items = items
	s.observe()
}

// readItems returns the persisted list, nil if nothing is stored, or an error
// wrapping ErrCorruptData when the stored value does not decode.
func (s *Store) readItems(ctx context.Context) ([]model.Item, error) {
	data, err := s.kv.Get(ctx, ItemsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}

	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return items, nil
}

// persist writes the full list. Failures are logged and dropped. The write
// outlives ctx so a mutation is not lost once it has been applied in memory.
func (s *Store) persist(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	s.observe()

	data, err := marshalItems(s.items)
	if err != nil {
		metrics.PersistFailures.Inc()
		s.log.Error("failed to encode items", "error", err)
		return
	}
	if err := s.kv.Set(ctx, ItemsKey, data); err != nil {
		metrics.PersistFailures.Inc()
		s.log.Error("failed to persist items", "error", err)
	}
}

func (s *Store) observe() {
	sum := query.Summarize(s.items)
	metrics.Items.WithLabelValues("collection").Set(float64(sum.CollectionItems))
	metrics.Items.WithLabelValues("wishlist").Set(float64(sum.WishlistItems))
}

func marshalItems(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	return json.Marshal(items)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}

// Items returns a deep copy of the current list.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Item, len(s.items))
	for i, it := range s.items {
		items[i] = it.Clone()
	}
	return items
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i].Clone(), true
}

// Add appends item. IDs are not checked for duplicates. Unknown condition and
// priority values are normalized before the item is stored.
func (s *Store) Add(ctx context.Context, item model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item = item.Clone()
	item.Normalize()
	s.items = append(s.items, item)
	metrics.StoreOperations.WithLabelValues("add").Inc()
	s.persist(ctx)
	s.log.Info("added item", "id", item.ID, "name", item.Name, "wishlist", item.IsInWishlist)
}

// Update replaces the first item with a matching id. It reports whether an
// item matched; a miss changes nothing.
func (s *Store) Update(ctx context.Context, item model.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(item.ID)
	if i < 0 {
		return false
	}
	item = item.Clone()
	item.Normalize()
	s.items[i] = item
	metrics.StoreOperations.WithLabelValues("update").Inc()
	s.persist(ctx)
	return true
}

// Modify applies fn to the item with the given id under the store lock and
// persists the result. fn must not change the item's ID.
func (s *Store) Modify(ctx context.Context, id string, fn func(*model.Item)) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	fn(&s.items[i])
	s.items[i].ID = id
	s.items[i].Normalize()
	metrics.StoreOperations.WithLabelValues("update").Inc()
	s.persist(ctx)
	return s.items[i].Clone(), true
}

// Delete removes the item with the given id and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	name := s.items[i].Name
	s.items = slices.Delete(s.items, i, i+1)
	metrics.StoreOperations.WithLabelValues("delete").Inc()
	s.persist(ctx)
	s.log.Info("deleted item", "id", id, "name", name)
	return true
}

// MoveFromWishlistToCollection marks the item as owned and stamps its purchase
// date with the current time, returning the moved item. Priority is left as it
// was. Items already in the collection are stamped again.
func (s *Store) MoveFromWishlistToCollection(ctx context.Context, id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	s.items[i].IsInWishlist = false
	s.items[i].PurchaseDate = s.now()
	metrics.StoreOperations.WithLabelValues("move").Inc()
	s.persist(ctx)
	return s.items[i].Clone(), true
}

// ExportJSON serializes the full list.
func (s *Store) ExportJSON() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := marshalItems(s.items)
	if err != nil {
		return "", fmt.Errorf("encoding items: %w", err)
	}
	return string(data), nil
}

// ImportJSON replaces the whole list with the items encoded in data and
// returns how many were imported. data must be a JSON array of complete
// items. On failure the current list is kept and the error wraps
// ErrInvalidImport.
func (s *Store) ImportJSON(ctx context.Context, data string) (int, error) {
	var items []model.Item
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	// null decodes without error but is not a list.
	if items == nil {
		return 0, fmt.Errorf("%w: expected a JSON array", ErrInvalidImport)
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	metrics.StoreOperations.WithLabelValues("import").Inc()
	s.persist(ctx)
	s.log.Info("imported items", "count", len(items))
	return len(items), nil
}

// ClearAll empties the list and removes the persisted key.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.observe()
	metrics.StoreOperations.WithLabelValues("clear").Inc()
	if err := s.kv.Delete(context.WithoutCancel(ctx), ItemsKey); err != nil {
		s.log.Error("failed to delete persisted items", "error", err)
	}
	s.log.Info("cleared all items")
}

// UserName returns the stored display name, or "" if none is set or it
// cannot be read.
func (s *Store) UserName(ctx context.Context) string {
	data, err := s.kv.Get(ctx, UserNameKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("failed to read user name", "error", err)
		}
		return ""
	}
	return string(data)
}

// SetUserName stores the display name.
func (s *Store) SetUserName(ctx context.Context, name string) error {
	if err := s.kv.Set(ctx, UserNameKey, []byte(name)); err != nil {
		return fmt.Errorf("saving user name: %w", err)
	}
	return nil
}
