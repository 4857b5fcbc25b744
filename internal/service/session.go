// Package service contains the business logic of the app core.
//
// THE LAYERS:
//
//	Handler (HTTP facade)   → parses requests, writes responses
//	Service (business)      → validates, enforces rules, orchestrates
//	RecordStore / Directory → durable records and the remote user directory
//
// SessionService owns sign-in state. FavouritesService owns the favourite
// list of whoever is signed in. The two are coupled only through the
// session.Context they share and the SessionObserver hooks below, so either
// can be tested with plain function calls and fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/sportify/internal/apperror"
	"github.com/sakif/sportify/internal/auth"
	"github.com/sakif/sportify/internal/directory"
	"github.com/sakif/sportify/internal/model"
	"github.com/sakif/sportify/internal/repository"
	"github.com/sakif/sportify/internal/session"
)

// localTokenPrefix marks session tokens minted for local logins. The remote
// directory never sees them.
const localTokenPrefix = "token-"

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// Directory is the slice of the remote user directory the session needs.
// *directory.Client satisfies it.
type Directory interface {
	Login(ctx context.Context, username, password string) (*directory.UserPayload, error)
	AddUser(ctx context.Context, req directory.AddUserRequest) (*directory.UserPayload, error)
	Me(ctx context.Context, token string) (*directory.UserPayload, error)
}

var _ Directory = (*directory.Client)(nil)

// SessionObserver is notified whenever the active identity changes.
//
//   - SessionStarted runs after sign-in, restore and sign-out, once the
//     session context holds the new identity (nil user = guest).
//   - SessionEnding runs before sign-out, while the old identity is still
//     active.
//   - IdentityRenamed runs after a profile edit changed the identity key;
//     oldKey is the key before the edit.
type SessionObserver interface {
	SessionStarted(ctx context.Context)
	SessionEnding(ctx context.Context)
	IdentityRenamed(ctx context.Context, oldKey string)
}

// RegisterInput is the data collected by the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	Username string
}

// ProfileUpdate carries the edited profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Avatar *string
}

// SessionService registers accounts, signs users in and out, and edits the
// signed-in profile.
//
// DEPENDENCIES (injected via NewSessionService):
//   - store      repository.RecordStore  → durable user/registeredUsers records
//   - remote     Directory               → remote login; nil disables it
//   - passwords  *auth.PasswordService   → bcrypt hashing of local accounts
//   - session    *session.Context        → the single active-user holder
//   - logger     *slog.Logger            → structured logging
type SessionService struct {
	store     repository.RecordStore
	remote    Directory
	passwords *auth.PasswordService
	session   *session.Context
	logger    *slog.Logger

	// mu serializes read-modify-write of the registeredUsers list and the
	// persisted user record.
	mu        sync.Mutex
	observers []SessionObserver
	now       func() time.Time
}

// NewSessionService creates a SessionService. Pass a nil remote to run
// without the directory; logins then go straight to local accounts.
func NewSessionService(
	store repository.RecordStore,
	remote Directory,
	passwords *auth.PasswordService,
	sess *session.Context,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		store:     store,
		remote:    remote,
		passwords: passwords,
		session:   sess,
		logger:    logger,
		now:       time.Now,
	}
}

// Observe registers o for identity change notifications. Call it while
// wiring, before the service is used.
func (s *SessionService) Observe(o SessionObserver) {
	s.observers = append(s.observers, o)
}

// Current returns the active user, or nil for a guest.
func (s *SessionService) Current() *model.User {
	return s.session.Get()
}

// Register creates a local account.
//
//  1. Reject an email that any registered account already uses (case-insensitive).
//  2. Mirror the account to the remote directory. Failure is only logged.
//  3. Hash the password and append the account to the registeredUsers record.
//
// Registration does not sign the user in.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or fewer", MaxPasswordBytes))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A failed read must not be treated as "no accounts": the append below
	// would overwrite every existing account.
	users, err := s.registeredUsers(ctx)
	if err != nil {
		return nil, err
	}
	if indexByEmail(users, email) >= 0 {
		return nil, apperror.DuplicateAccount()
	}

	username := s.mirrorRegistration(ctx, name, email)

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/session: hashing password: %w", err)
	}

	users = append(users, model.RegisteredUser{
		ID:           xid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		CreatedAt:    s.now().UTC(),
	})
	if err := repository.SetJSON(ctx, s.store, repository.KeyRegisteredUsers, users); err != nil {
		return nil, apperror.Storage(repository.KeyRegisteredUsers, err)
	}

	s.logger.Info("account registered",
		slog.String("email", email),
		slog.String("username", username),
	)

	return &RegisterResult{Username: username}, nil
}

// mirrorRegistration posts the new account to the directory and returns the
// username to store locally.
func (s *SessionService) mirrorRegistration(ctx context.Context, name, email string) string {
	username := directory.UsernameFromEmail(email)
	if s.remote == nil {
		return username
	}

	payload, err := s.remote.AddUser(ctx, directory.NewAddUserRequest(name, email))
	if err != nil {
		s.logger.Warn("registration mirroring failed",
			slog.String("email", email),
			slog.Any("error", apperror.RemoteService("add user", err)),
		)
		return username
	}
	if payload.Username != "" {
		return payload.Username
	}
	return username
}

// Authenticate signs a user in.
//
// The remote directory is tried first. Any remote failure (rejection,
// transport error, timeout) falls back to the local accounts, where the
// identifier matches an email or username case-insensitively and the
// password must match the stored bcrypt hash.
func (s *SessionService) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperror.InvalidCredentials()
	}

	user := s.remoteLogin(ctx, identifier, password)
	if user == nil {
		var err error
		if user, err = s.localLogin(ctx, identifier, password); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.persistUser(ctx, user)
	if err := repository.SetJSON(ctx, s.store, repository.KeyAuthToken, user.Token); err != nil {
		s.logger.Error("failed to persist auth token",
			slog.Any("error", apperror.Storage(repository.KeyAuthToken, err)))
	}
	s.session.Set(user)
	s.mu.Unlock()

	s.logger.Info("user signed in",
		slog.String("identity", user.IdentityKey()),
		slog.Bool("local", strings.HasPrefix(user.Token, localTokenPrefix)),
	)

	for _, o := range s.observers {
		o.SessionStarted(ctx)
	}

	return s.session.Get(), nil
}

// remoteLogin returns nil when the directory is disabled or the login fails
// for any reason.
func (s *SessionService) remoteLogin(ctx context.Context, identifier, password string) *model.User {
	if s.remote == nil {
		return nil
	}

	payload, err := s.remote.Login(ctx, identifier, password)
	if err != nil {
		var statusErr *directory.StatusError
		level := slog.LevelWarn
		if errors.As(err, &statusErr) {
			// The directory answered; the account is probably local.
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "remote login failed, trying local accounts",
			slog.String("identifier", identifier),
			slog.Any("error", apperror.RemoteService("login", err)),
		)
		return nil
	}

	return payload.ToUser()
}

func (s *SessionService) localLogin(ctx context.Context, identifier, password string) (*model.User, error) {
	users, err := s.registeredUsers(ctx)
	if err != nil {
		s.logger.Error("failed to read local accounts", slog.Any("error", err))
		return nil, apperror.InvalidCredentials()
	}

	for _, ru := range users {
		if !strings.EqualFold(ru.Email, identifier) &&
			(ru.Username == "" || !strings.EqualFold(ru.Username, identifier)) {
			continue
		}
		if err := s.passwords.Verify(ru.PasswordHash, password); err != nil {
			if !errors.Is(err, auth.ErrPasswordMismatch) {
				s.logger.Warn("unreadable password hash",
					slog.String("email", ru.Email),
					slog.Any("error", err),
				)
			}
			continue
		}

		username := ru.Username
		if username == "" {
			username = directory.UsernameFromEmail(ru.Email)
		}
		return &model.User{
			ID:       ru.ID,
			Name:     ru.Name,
			Email:    ru.Email,
			Username: username,
			Token:    fmt.Sprintf("%s%d", localTokenPrefix, s.now().UnixMilli()),
			Avatar:   ru.Avatar,
		}, nil
	}

	return nil, apperror.InvalidCredentials()
}

// RestoreSession adopts the persisted user, if any, without contacting the
// directory. An unreadable record leaves the app in guest mode. The
// favourites of the resulting identity are always loaded.
func (s *SessionService) RestoreSession(ctx context.Context) *model.User {
	var restored *model.User

	var u model.User
	found, err := repository.GetJSON(ctx, s.store, repository.KeyUser, &u)
	switch {
	case err != nil:
		s.logger.Error("failed to restore session, continuing as guest",
			slog.Any("error", apperror.Storage(repository.KeyUser, err)))
	case found:
		restored = &u
		s.logger.Info("session restored", slog.String("identity", u.IdentityKey()))
	default:
		s.logger.Debug("no saved session, continuing as guest")
	}

	s.session.Set(restored)

	for _, o := range s.observers {
		o.SessionStarted(ctx)
	}

	return s.session.Get()
}

// Logout signs the active user out. The favourites of the outgoing identity
// are cleared, the persisted session is removed, and guest favourites are
// loaded. Calling it as a guest clears the guest favourites.
func (s *SessionService) Logout(ctx context.Context) {
	identity := s.session.IdentityKey()

	for _, o := range s.observers {
		o.SessionEnding(ctx)
	}

	s.mu.Lock()
	for _, key := range []string{repository.KeyUser, repository.KeyAuthToken} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Error("failed to remove session record",
				slog.Any("error", apperror.Storage(key, err)))
		}
	}
	s.session.Set(nil)
	s.mu.Unlock()

	s.logger.Info("user signed out", slog.String("identity", identity))

	for _, o := range s.observers {
		o.SessionStarted(ctx)
	}
}

// UpdateProfile edits the signed-in user's name, email or avatar.
//
// A new email must not belong to another registered account. The local
// account matched by the old email is updated too, so the edit survives the
// next local login. When the identity key changes, observers are told so
// favourites can follow the user.
func (s *SessionService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*model.User, error) {
	current := s.session.Get()
	if current == nil {
		return nil, apperror.NotAuthenticated()
	}

	updated := *current
	if upd.Name != nil {
		updated.Name = strings.TrimSpace(*upd.Name)
		if updated.Name == "" {
			return nil, apperror.ValidationFailed("name", "Name cannot be empty")
		}
	}
	if upd.Email != nil {
		updated.Email = strings.TrimSpace(*upd.Email)
		if updated.Email == "" {
			return nil, apperror.ValidationFailed("email", "Email cannot be empty")
		}
	}
	if upd.Avatar != nil {
		updated.Avatar = *upd.Avatar
	}

	s.mu.Lock()

	emailChanged := updated.Email != current.Email

	// Without the account list a new email cannot be checked for
	// duplicates. Other edits go ahead on the session alone.
	users, err := s.registeredUsers(ctx)
	if err != nil {
		if emailChanged {
			s.mu.Unlock()
			return nil, err
		}
		s.logger.Warn("local account not updated", slog.Any("error", err))
		users = nil
	}

	if emailChanged {
		for _, ru := range users {
			if strings.EqualFold(ru.Email, updated.Email) && !strings.EqualFold(ru.Email, current.Email) {
				s.mu.Unlock()
				return nil, apperror.DuplicateAccount()
			}
		}
	}

	if i := indexByEmail(users, current.Email); i >= 0 {
		users[i].Name = updated.Name
		users[i].Email = updated.Email
		users[i].Avatar = updated.Avatar
		if err := repository.SetJSON(ctx, s.store, repository.KeyRegisteredUsers, users); err != nil {
			s.mu.Unlock()
			return nil, apperror.Storage(repository.KeyRegisteredUsers, err)
		}
	}

	s.persistUser(ctx, &updated)
	s.session.Set(&updated)
	s.mu.Unlock()

	oldKey := current.IdentityKey()
	if newKey := updated.IdentityKey(); newKey != oldKey {
		s.logger.Info("identity changed",
			slog.String("from", oldKey),
			slog.String("to", newKey),
		)
		for _, o := range s.observers {
			o.IdentityRenamed(ctx, oldKey)
		}
	}

	return s.session.Get(), nil
}

// VerifyRemote refreshes the signed-in profile from the directory.
//
// Only directory-issued tokens are checked; local sessions are returned
// unchanged. A failed check leaves the session as it was.
func (s *SessionService) VerifyRemote(ctx context.Context) (*model.User, error) {
	current := s.session.Get()
	if current == nil {
		return nil, apperror.NotAuthenticated()
	}
	if s.remote == nil || current.Token == "" || strings.HasPrefix(current.Token, localTokenPrefix) {
		return current, nil
	}

	payload, err := s.remote.Me(ctx, current.Token)
	if err != nil {
		return nil, apperror.RemoteService("profile refresh", err)
	}

	refreshed := payload.ToUser()
	updated := *current
	if refreshed.Name != "" {
		updated.Name = refreshed.Name
	}
	if refreshed.Email != "" {
		updated.Email = refreshed.Email
	}
	if refreshed.Username != "" {
		updated.Username = refreshed.Username
	}
	if refreshed.Avatar != "" {
		updated.Avatar = refreshed.Avatar
	}

	s.mu.Lock()
	s.persistUser(ctx, &updated)
	s.session.Set(&updated)
	s.mu.Unlock()

	if oldKey := current.IdentityKey(); updated.IdentityKey() != oldKey {
		for _, o := range s.observers {
			o.IdentityRenamed(ctx, oldKey)
		}
	}

	return s.session.Get(), nil
}

// persistUser writes the user record. The in-memory session stays
// authoritative when the write fails. Callers hold s.mu.
func (s *SessionService) persistUser(ctx context.Context, u *model.User) {
	if err := repository.SetJSON(ctx, s.store, repository.KeyUser, u); err != nil {
		s.logger.Error("failed to persist user",
			slog.Any("error", apperror.Storage(repository.KeyUser, err)))
	}
}

// registeredUsers reads the local account list. A missing record is an
// empty list.
func (s *SessionService) registeredUsers(ctx context.Context) ([]model.RegisteredUser, error) {
	var users []model.RegisteredUser
	if _, err := repository.GetJSON(ctx, s.store, repository.KeyRegisteredUsers, &users); err != nil {
		return nil, apperror.Storage(repository.KeyRegisteredUsers, err)
	}
	return users, nil
}

func indexByEmail(users []model.RegisteredUser, email string) int {
	for i, u := range users {
		if strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}
