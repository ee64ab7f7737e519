package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/erazemk/zbirka/internal/db"
	"github.com/erazemk/zbirka/internal/kv"
	"github.com/erazemk/zbirka/internal/model"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T, opts ...Option) (*Store, kv.Store) {
	t.Helper()
	backing := kv.NewSQLite(db.NewTestDB(t))
	s := New(backing, append([]Option{WithLogger(quiet)}, opts...)...)
	s.Load(context.Background())
	return s, backing
}

func sampleItem(name string) model.Item {
	return model.NewItem(name, "Coins", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), model.ConditionUsed, "", nil)
}

// failingKV reads like an empty store and refuses every write.
type failingKV struct{ sets int }

func (f *failingKV) Get(context.Context, string) ([]byte, error) { return nil, kv.ErrNotFound }
func (f *failingKV) Set(context.Context, string, []byte) error {
	f.sets++
	return errors.New("disk full")
}
func (f *failingKV) Delete(context.Context, string) error { return errors.New("disk full") }
func (f *failingKV) Close() error                         { return nil }

func TestLoadMissingDataGivesEmptyList(t *testing.T) {
	s, _ := newTestStore(t)
	if got := s.Items(); len(got) != 0 {
		t.Errorf("expected empty list, got %d items", len(got))
	}
}

func TestLoadCorruptDataResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	backing := kv.NewSQLite(db.NewTestDB(t))
	if err := backing.Set(ctx, ItemsKey, []byte(`{"not":"a list"`)); err != nil {
		t.Fatal(err)
	}

	s := New(backing, WithLogger(quiet))
	s.Load(ctx)

	if got := s.Items(); len(got) != 0 {
		t.Errorf("expected corrupt data to be discarded, got %d items", len(got))
	}
}

func TestReadItemsReportsCorruptData(t *testing.T) {
	ctx := context.Background()
	backing := kv.NewSQLite(db.NewTestDB(t))
	backing.Set(ctx, ItemsKey, []byte(`[{"id":"1","condition":"Mint"}]`))

	s := New(backing, WithLogger(quiet))
	_, err := s.readItems(ctx)
	if !errors.Is(err, ErrCorruptData) {
		t.Errorf("expected ErrCorruptData, got %v", err)
	}
}

func TestAddPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)

	a := sampleItem("Morgan Dollar")
	b := sampleItem("Buffalo Nickel")
	s.Add(ctx, a)
	s.Add(ctx, b)

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(ctx)

	if diff := cmp.Diff([]model.Item{a, b}, reloaded.Items()); diff != "" {
		t.Errorf("reloaded list mismatch (-want +got):\n%s", diff)
	}
}

func TestAddDoesNotCheckDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a := sampleItem("Morgan Dollar")
	s.Add(ctx, a)
	s.Add(ctx, a)

	if got := len(s.Items()); got != 2 {
		t.Errorf("expected 2 items, got %d", got)
	}
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a := sampleItem("Morgan Dollar")
	a.Notes = "from grandpa"
	s.Add(ctx, a)

	edited := model.Item{ID: a.ID, Name: "Morgan Dollar 1881", Condition: model.ConditionRare, Priority: model.PriorityLow}
	if !s.Update(ctx, edited) {
		t.Fatal("expected update to find the item")
	}

	got, ok := s.Get(a.ID)
	if !ok {
		t.Fatal("item disappeared")
	}
	if diff := cmp.Diff(edited, got); diff != "" {
		t.Errorf("updated item mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Add(ctx, sampleItem("Morgan Dollar"))
	before := s.Items()

	if s.Update(ctx, sampleItem("Ghost")) {
		t.Error("expected update of unknown id to report a miss")
	}
	if diff := cmp.Diff(before, s.Items()); diff != "" {
		t.Errorf("list changed (-before +after):\n%s", diff)
	}
}

func TestModifyChangesOneField(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)

	a := sampleItem("Morgan Dollar")
	s.Add(ctx, a)

	got, ok := s.Modify(ctx, a.ID, func(it *model.Item) {
		it.ImageData = []byte{1, 2, 3}
		it.ID = "hijacked"
	})
	if !ok {
		t.Fatal("expected modify to find the item")
	}

	want := a
	want.ImageData = []byte{1, 2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("modified item mismatch (-want +got):\n%s", diff)
	}

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(ctx)
	if diff := cmp.Diff([]model.Item{want}, reloaded.Items()); diff != "" {
		t.Errorf("persisted list mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.Modify(ctx, "missing", func(*model.Item) { t.Error("fn called for a miss") }); ok {
		t.Error("expected miss")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)

	a := sampleItem("Morgan Dollar")
	b := sampleItem("Buffalo Nickel")
	s.Add(ctx, a)
	s.Add(ctx, b)

	if !s.Delete(ctx, a.ID) {
		t.Fatal("expected first delete to find the item")
	}
	if s.Delete(ctx, a.ID) {
		t.Error("expected second delete to be a no-op")
	}

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(ctx)
	if diff := cmp.Diff([]model.Item{b}, reloaded.Items()); diff != "" {
		t.Errorf("persisted list mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveFromWishlistToCollection(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	now := first
	s, backing := newTestStore(t, WithClock(func() time.Time { return now }))

	w := model.NewWishlistItem("Double Eagle", "", nil, model.PriorityHigh, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Add(ctx, w)

	got, ok := s.MoveFromWishlistToCollection(ctx, w.ID)
	if !ok {
		t.Fatal("expected move to find the item")
	}
	if got.IsInWishlist {
		t.Error("expected item to be in the collection")
	}
	if !got.PurchaseDate.Equal(first) {
		t.Errorf("expected purchase date %v, got %v", first, got.PurchaseDate)
	}
	if got.Priority != model.PriorityHigh {
		t.Errorf("expected priority to be left alone, got %q", got.Priority)
	}

	// Moving an item already in the collection stamps it again.
	now = first.Add(48 * time.Hour)
	if _, ok := s.MoveFromWishlistToCollection(ctx, w.ID); !ok {
		t.Fatal("expected second move to find the item")
	}
	got, _ = s.Get(w.ID)
	if got.IsInWishlist || !got.PurchaseDate.Equal(now) {
		t.Errorf("expected re-applied move, got wishlist=%v date=%v", got.IsInWishlist, got.PurchaseDate)
	}

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(ctx)
	persisted, _ := reloaded.Get(w.ID)
	if persisted.IsInWishlist {
		t.Error("expected move to be persisted")
	}
}

func TestMoveUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	if _, ok := s.MoveFromWishlistToCollection(context.Background(), "missing"); ok {
		t.Error("expected miss")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	photo := []byte{0xff, 0xd8, 0xff, 0x00, 0x01, 0x02, 0xfe}
	a := model.NewItem("Penny Black", "Stamps", time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC), model.ConditionRare, "1840", photo)
	w := model.NewWishlistItem("Inverted Jenny", "someday", nil, model.PriorityLow, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	s.Add(ctx, a)
	s.Add(ctx, w)

	exported, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	fresh, backing := newTestStore(t)
	n, err := fresh.ImportJSON(ctx, exported)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported items, got %d", n)
	}

	if diff := cmp.Diff(s.Items(), fresh.Items()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(ctx)
	got, _ := reloaded.Get(a.ID)
	if string(got.ImageData) != string(photo) {
		t.Errorf("image data not byte-identical after import: %v", got.ImageData)
	}
}

func TestImportInvalidKeepsCurrentList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.Add(ctx, sampleItem("Morgan Dollar"))

	for _, in := range []string{
		"",
		"not json",
		"null",
		" null ",
		`{"id":"1"}`,
		`[{"id":"1","condition":"Shiny"}]`,
		`[{"id":"1","name":"no condition"}]`,
	} {
		_, err := s.ImportJSON(ctx, in)
		if !errors.Is(err, ErrInvalidImport) {
			t.Errorf("ImportJSON(%q): expected ErrInvalidImport, got %v", in, err)
		}
	}
	if got := len(s.Items()); got != 1 {
		t.Errorf("expected list to be kept, got %d items", got)
	}
}

func TestImportEmptyArrayClearsList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.Add(ctx, sampleItem("Morgan Dollar"))

	n, err := s.ImportJSON(ctx, "[]")
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 0 || len(s.Items()) != 0 {
		t.Errorf("expected empty list, got n=%d items=%d", n, len(s.Items()))
	}
}

func TestIncompleteItemsSurviveReload(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)

	s.Add(ctx, sampleItem("Morgan Dollar"))
	s.Add(ctx, sampleItem("Buffalo Nickel"))
	s.Add(ctx, model.Item{ID: "bare", Name: "bare"})
	s.Update(ctx, model.Item{ID: "bare", Name: "still bare", Condition: "Mint", Priority: "Urgent"})

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(ctx)
	if got := len(reloaded.Items()); got != 3 {
		t.Fatalf("expected 3 items after reload, got %d", got)
	}

	bare, _ := reloaded.Get("bare")
	if bare.Condition != model.ConditionNew || bare.Priority != model.PriorityMedium {
		t.Errorf("expected New/Medium defaults, got %q/%q", bare.Condition, bare.Priority)
	}

	exported, err := reloaded.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if _, err := reloaded.ImportJSON(ctx, exported); err != nil {
		t.Errorf("re-importing export: %v", err)
	}
}

func TestModifyNormalizesLabels(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	a := sampleItem("Morgan Dollar")
	s.Add(ctx, a)

	got, ok := s.Modify(ctx, a.ID, func(it *model.Item) { it.Priority = "" })
	if !ok {
		t.Fatal("expected item to be found")
	}
	if got.Priority != model.PriorityMedium {
		t.Errorf("expected Medium, got %q", got.Priority)
	}
}

func TestMutationPersistsAfterContextCancel(t *testing.T) {
	s, backing := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := sampleItem("Morgan Dollar")
	s.Add(ctx, a)

	reloaded := New(backing, WithLogger(quiet))
	reloaded.Load(context.Background())
	if _, ok := reloaded.Get(a.ID); !ok {
		t.Error("expected item added under a cancelled context to be persisted")
	}

	s.ClearAll(ctx)
	if _, err := backing.Get(context.Background(), ItemsKey); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected clear under a cancelled context to remove the key, got %v", err)
	}
}

func TestReturnedItemsDoNotShareImageData(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	a := sampleItem("Penny Black")
	a.ImageData = []byte{1, 2, 3}
	s.Add(ctx, a)

	got, _ := s.Get(a.ID)
	got.ImageData[0] = 9
	s.Items()[0].ImageData[1] = 9

	again, _ := s.Get(a.ID)
	if diff := cmp.Diff([]byte{1, 2, 3}, again.ImageData); diff != "" {
		t.Errorf("stored image data changed (-want +got):\n%s", diff)
	}
}

func TestExportEmptyList(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestClearAllRemovesKey(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)
	s.Add(ctx, sampleItem("Morgan Dollar"))

	s.ClearAll(ctx)

	if got := len(s.Items()); got != 0 {
		t.Errorf("expected empty list, got %d", got)
	}
	if _, err := backing.Get(ctx, ItemsKey); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected persisted key to be removed, got %v", err)
	}
}

func TestPersistFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	backing := &failingKV{}
	s := New(backing, WithLogger(quiet))
	s.Load(ctx)

	a := sampleItem("Morgan Dollar")
	s.Add(ctx, a)
	s.MoveFromWishlistToCollection(ctx, a.ID)
	s.ClearAll(ctx)

	if backing.sets != 2 {
		t.Errorf("expected 2 write attempts without retries, got %d", backing.sets)
	}
}

func TestUserName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if got := s.UserName(ctx); got != "" {
		t.Errorf("expected empty name, got %q", got)
	}
	if err := s.SetUserName(ctx, "Erazem"); err != nil {
		t.Fatalf("SetUserName: %v", err)
	}
	if got := s.UserName(ctx); got != "Erazem" {
		t.Errorf("expected Erazem, got %q", got)
	}

	// The name survives clearing the collection.
	s.ClearAll(ctx)
	if got := s.UserName(ctx); got != "Erazem" {
		t.Errorf("expected name to survive ClearAll, got %q", got)
	}
}
