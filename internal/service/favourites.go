package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sakif/sportify/internal/apperror"
	"github.com/sakif/sportify/internal/model"
	"github.com/sakif/sportify/internal/repository"
	"github.com/sakif/sportify/internal/session"
)

// FavouritesState tracks whether the favourites of the active identity have
// been read from the store yet.
type FavouritesState int32

const (
	StateUninitialized FavouritesState = iota
	StateLoading
	StateReady
)

func (s FavouritesState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// FavouritesService keeps the ordered favourite list of the active identity
// and writes the full list back to the store after every change.
//
// Every operation holds mu for its whole duration, so two quick changes can
// never persist out of order. A change that arrives after the active user
// switched but before the reload first reads the new identity's list, so
// one user's items are never written under another user's key. Store failures are logged and never returned:
// the in-memory list stays ahead of the store until the next successful
// write.
type FavouritesService struct {
	store   repository.RecordStore
	session *session.Context
	logger  *slog.Logger

	mu    sync.Mutex
	items []model.SportItem
	// owner is the identity key items was loaded for.
	owner string
	state atomic.Int32
}

var _ SessionObserver = (*FavouritesService)(nil)

// NewFavouritesService creates an empty, uninitialized FavouritesService.
func NewFavouritesService(store repository.RecordStore, sess *session.Context, logger *slog.Logger) *FavouritesService {
	return &FavouritesService{
		store:   store,
		session: sess,
		logger:  logger,
		items:   []model.SportItem{},
	}
}

// IdentityKey returns the key the favourites are stored under: the active
// user's email, else username, else "guest".
func (f *FavouritesService) IdentityKey() string {
	return f.session.IdentityKey()
}

// State reports the load state. It does not wait for an operation in flight.
func (f *FavouritesService) State() FavouritesState {
	return FavouritesState(f.state.Load())
}

// Load replaces the in-memory list with the stored favourites of the active
// identity. A missing or unreadable record yields an empty list.
func (f *FavouritesService) Load(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.load(ctx, f.IdentityKey())
}

// Add appends item unless an item with the same id is already present.
func (f *FavouritesService) Add(ctx context.Context, item model.SportItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.follow(ctx)
	if f.indexOf(item.ID) >= 0 {
		return
	}
	f.items = append(f.items, item)
	f.persist(ctx)
}

// Remove drops the item with the given id, if present.
func (f *FavouritesService) Remove(ctx context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.follow(ctx)
	kept := make([]model.SportItem, 0, len(f.items))
	for _, it := range f.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
	f.persist(ctx)
}

// Toggle removes item when it is a favourite and adds it otherwise. It
// returns whether item is a favourite afterwards.
func (f *FavouritesService) Toggle(ctx context.Context, item model.SportItem) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.follow(ctx)
	if i := f.indexOf(item.ID); i >= 0 {
		f.items = append(f.items[:i:i], f.items[i+1:]...)
		f.persist(ctx)
		return false
	}
	f.items = append(f.items, item)
	f.persist(ctx)
	return true
}

// Contains reports whether id is a favourite.
func (f *FavouritesService) Contains(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(id) >= 0
}

// Items returns a copy of the favourites in insertion order.
func (f *FavouritesService) Items() []model.SportItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.SportItem, len(f.items))
	copy(out, f.items)
	return out
}

// Clear empties the list and persists the empty list.
func (f *FavouritesService) Clear(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.follow(ctx)
	f.items = []model.SportItem{}
	f.persist(ctx)
}

// SessionStarted reloads for the identity that just became active.
func (f *FavouritesService) SessionStarted(ctx context.Context) {
	f.Load(ctx)
}

// SessionEnding clears the outgoing identity's favourites.
func (f *FavouritesService) SessionEnding(ctx context.Context) {
	f.Clear(ctx)
}

// IdentityRenamed moves the favourites stored under oldKey to the current
// identity key.
func (f *FavouritesService) IdentityRenamed(ctx context.Context, oldKey string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	newKey := f.IdentityKey()

	// The in-memory list may be ahead of the store, so prefer it when it
	// belongs to oldKey. Changes already made under newKey are kept.
	if f.State() != StateReady || f.owner != oldKey {
		moved := f.read(ctx, oldKey)
		if f.State() == StateReady && f.owner == newKey {
			for _, it := range f.items {
				if !containsID(moved, it.ID) {
					moved = append(moved, it)
				}
			}
		}
		f.items = moved
	}

	f.owner = newKey
	f.state.Store(int32(StateReady))
	f.persist(ctx)

	if err := f.store.Delete(ctx, repository.FavouritesKey(oldKey)); err != nil {
		f.logger.Warn("failed to remove old favourites",
			slog.Any("error", apperror.Storage(repository.FavouritesKey(oldKey), err)))
	}

	f.logger.Info("favourites moved",
		slog.String("from", oldKey),
		slog.String("to", newKey),
		slog.Int("count", len(f.items)),
	)
}

// load replaces items with the stored list of identity. Callers hold f.mu.
func (f *FavouritesService) load(ctx context.Context, identity string) {
	f.state.Store(int32(StateLoading))
	f.items = f.read(ctx, identity)
	f.owner = identity
	f.state.Store(int32(StateReady))

	f.logger.Debug("favourites loaded",
		slog.String("identity", identity),
		slog.Int("count", len(f.items)),
	)
}

// follow reloads when items belongs to someone other than the active
// identity. Callers hold f.mu.
func (f *FavouritesService) follow(ctx context.Context) {
	if key := f.IdentityKey(); f.State() != StateReady || f.owner != key {
		f.load(ctx, key)
	}
}

// read loads the favourites stored for identity, dropping repeated ids.
// Callers hold f.mu.
func (f *FavouritesService) read(ctx context.Context, identity string) []model.SportItem {
	key := repository.FavouritesKey(identity)

	var stored []model.SportItem
	if _, err := repository.GetJSON(ctx, f.store, key, &stored); err != nil {
		f.logger.Error("failed to load favourites, starting empty",
			slog.Any("error", apperror.Storage(key, err)))
		return []model.SportItem{}
	}

	items := make([]model.SportItem, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, it := range stored {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		items = append(items, it)
	}
	return items
}

// persist writes the full list under the identity it belongs to.
// Callers hold f.mu.
func (f *FavouritesService) persist(ctx context.Context) {
	key := repository.FavouritesKey(f.owner)
	if err := repository.SetJSON(ctx, f.store, key, f.items); err != nil {
		f.logger.Warn("failed to save favourites",
			slog.String("identity", f.owner),
			slog.Int("count", len(f.items)),
			slog.Any("error", apperror.Storage(key, err)),
		)
	}
}

func (f *FavouritesService) indexOf(id string) int {
	for i, it := range f.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func containsID(items []model.SportItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
