package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sakif/sportify/internal/model"
	"github.com/sakif/sportify/internal/repository"
)

// newTestDB returns a fresh in-memory store, closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// =========================================================================
// GET / SET TESTS
// =========================================================================

func TestGet_MissingKey(t *testing.T) {
	db := newTestDB(t)

	value, found, err := db.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for a missing key")
	}
	if value != nil {
		t.Errorf("Get() value = %q, want nil", value)
	}
}

func TestSetThenGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "authToken", []byte(`"token-1"`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := db.Get(ctx, "authToken")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false after Set()")
	}
	if string(value) != `"token-1"` {
		t.Errorf("Get() value = %q, want %q", value, `"token-1"`)
	}
}

func TestSet_Overwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("Set() first error = %v", err)
	}
	if err := db.Set(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("Set() second error = %v", err)
	}

	value, _, err := db.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != "second" {
		t.Errorf("Get() value = %q, want %q", value, "second")
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "user", []byte(`{}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, found, err := db.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true after Delete()")
	}
}

func TestDelete_MissingKeyIsNoop(t *testing.T) {
	db := newTestDB(t)

	if err := db.Delete(context.Background(), "never-written"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

// =========================================================================
// JSON HELPER TESTS (exercise repository.GetJSON / SetJSON over SQLite)
// =========================================================================

func TestJSONHelpers_FavouritesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	items := []model.SportItem{
		{ID: "2", Title: "Lionel Messi", Image: "⚽", Status: model.StatusActive, Category: model.CategoryPlayer},
		{ID: "1", Title: "Lakers vs Warriors", Image: "🏀", Status: model.StatusUpcoming, Category: model.CategoryMatch, Date: "2025-12-15"},
	}
	key := repository.FavouritesKey("ann@x.com")

	if err := repository.SetJSON(ctx, db, key, items); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got []model.SportItem
	found, err := repository.GetJSON(ctx, db, key, &got)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if !found {
		t.Fatal("GetJSON() found = false")
	}
	if len(got) != len(items) {
		t.Fatalf("len = %d, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], items[i])
		}
	}
}

func TestJSONHelpers_CorruptValue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "user", []byte("{not json")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var u model.User
	if _, err := repository.GetJSON(ctx, db, "user", &u); err == nil {
		t.Fatal("GetJSON() should fail on a corrupt value")
	}
}

// =========================================================================
// PERSISTENCE ACROSS REOPEN
// =========================================================================

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sportify.db")
	ctx := context.Background()

	first, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.Set(ctx, "registeredUsers", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	t.Cleanup(func() { second.Close() })

	value, found, err := second.Get(ctx, "registeredUsers")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || string(value) != "[]" {
		t.Errorf("Get() = (%q, %v), want (\"[]\", true)", value, found)
	}
}
