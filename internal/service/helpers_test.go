package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/sakif/sportify/internal/auth"
	"github.com/sakif/sportify/internal/directory"
	"github.com/sakif/sportify/internal/model"
	"github.com/sakif/sportify/internal/repository"
	"github.com/sakif/sportify/internal/session"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeStore is an in-memory repository.RecordStore. Set the *Err maps to
// make a key fail.
type fakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr map[string]error
	setErr map[string]error
	delErr map[string]error
	writes map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:   make(map[string][]byte),
		getErr: make(map[string]error),
		setErr: make(map[string]error),
		delErr: make(map[string]error),
		writes: make(map[string]int),
	}
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.getErr[key]; err != nil {
		return nil, false, err
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.data[key] = append([]byte(nil), value...)
	s.writes[key]++
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.delErr[key]; err != nil {
		return err
	}
	delete(s.data, key)
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func (s *fakeStore) raw(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data[key])
}

// favourites decodes the stored favourites of identity.
func (s *fakeStore) favourites(t *testing.T, identity string) []model.SportItem {
	t.Helper()
	var items []model.SportItem
	raw := s.raw(repository.FavouritesKey(identity))
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("stored favourites for %q are not valid JSON: %v", identity, err)
	}
	return items
}

func (s *fakeStore) registered(t *testing.T) []model.RegisteredUser {
	t.Helper()
	var users []model.RegisteredUser
	raw := s.raw(repository.KeyRegisteredUsers)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		t.Fatalf("stored registeredUsers are not valid JSON: %v", err)
	}
	return users
}

var errUnreachable = errors.New("dial tcp: connection refused")

// fakeDirectory is an in-memory Directory. With down set every call fails
// like an unreachable host.
type fakeDirectory struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount // keyed by username
	down     bool
	addCalls []directory.AddUserRequest
	meCalls  []string
}

type fakeAccount struct {
	password string
	payload  directory.UserPayload
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts: map[string]fakeAccount{
			"emilys": {
				password: "emilyspass",
				payload: directory.UserPayload{
					ID: 1, Username: "emilys", Email: "emily.johnson@x.dummyjson.com",
					FirstName: "Emily", LastName: "Johnson",
					Image: "https://dummyjson.com/icon/emilys/128", AccessToken: "remote-token",
				},
			},
		},
	}
}

func (d *fakeDirectory) Login(ctx context.Context, username, password string) (*directory.UserPayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.down {
		return nil, errUnreachable
	}
	acc, ok := d.accounts[username]
	if !ok || acc.password != password {
		return nil, &directory.StatusError{StatusCode: 400, Message: "Invalid credentials"}
	}
	p := acc.payload
	return &p, nil
}

func (d *fakeDirectory) AddUser(ctx context.Context, req directory.AddUserRequest) (*directory.UserPayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addCalls = append(d.addCalls, req)
	if d.down {
		return nil, errUnreachable
	}
	return &directory.UserPayload{
		ID: 209, Username: req.Username, Email: req.Email,
		FirstName: req.FirstName, LastName: req.LastName,
	}, nil
}

func (d *fakeDirectory) Me(ctx context.Context, token string) (*directory.UserPayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meCalls = append(d.meCalls, token)
	if d.down {
		return nil, errUnreachable
	}
	for _, acc := range d.accounts {
		if acc.payload.SessionToken() == token {
			p := acc.payload
			return &p, nil
		}
	}
	return nil, &directory.StatusError{StatusCode: 401, Message: "Token Expired!"}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEnv is a fully wired core over fakes.
type testEnv struct {
	store      *fakeStore
	dir        *fakeDirectory
	session    *session.Context
	sessions   *SessionService
	favourites *FavouritesService
}

// newTestEnv wires the services the way server.New does. Pass a nil dir to
// run without the directory.
func newTestEnv(t *testing.T, store *fakeStore, dir *fakeDirectory) *testEnv {
	t.Helper()

	logger := testLogger()
	sess := session.NewContext()
	favs := NewFavouritesService(store, sess, logger)

	var remote Directory
	if dir != nil {
		remote = dir
	}
	sessions := NewSessionService(store, remote, auth.NewPasswordServiceForTest(), sess, logger)
	sessions.Observe(favs)

	return &testEnv{store: store, dir: dir, session: sess, sessions: sessions, favourites: favs}
}

// register creates a local account and fails the test on error.
func (e *testEnv) register(t *testing.T, name, email, password string) {
	t.Helper()
	if _, err := e.sessions.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password}); err != nil {
		t.Fatalf("Register(%q) error = %v", email, err)
	}
}

var (
	lakers = model.SportItem{ID: "1", Title: "Lakers vs Warriors", Image: "🏀", Status: model.StatusUpcoming, Category: model.CategoryMatch, Date: "2025-12-15"}
	messi  = model.SportItem{ID: "2", Title: "Lionel Messi", Image: "⚽", Status: model.StatusActive, Category: model.CategoryPlayer}
	manUtd = model.SportItem{ID: "3", Title: "Manchester United", Image: "🔴", Status: model.StatusActive, Category: model.CategoryTeam}
)

func ids(items []model.SportItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
