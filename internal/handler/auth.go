package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportify/internal/apperror"
	"github.com/sakif/sportify/internal/auth"
	"github.com/sakif/sportify/internal/model"
	"github.com/sakif/sportify/internal/service"
)

// AuthHandler exposes sign-up, sign-in, sign-out and the profile screen.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister  → create a local account (no sign-in)
//   - HandleLogin     → sign in, set the token cookie
//   - HandleLogout    → sign out, clear the token cookie
//   - HandleSession   → who is signed in, if anyone
//   - HandleMe        → the signed-in profile
//   - HandleUpdateMe  → edit the signed-in profile
//   - HandleVerify    → refresh the profile from the remote directory
//
// The cookie is a facade credential only: its subject is the identity key of
// the session it was issued for, and RequireAuth rejects it once the active
// session belongs to someone else.
type AuthHandler struct {
	sessions *service.SessionService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *service.SessionService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// loginRequest accepts either an email or a username as the identifier.
type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
}

type sessionResponse struct {
	Guest bool        `json:"guest"`
	User  *model.User `json:"user,omitempty"`
}

// HandleRegister creates a local account.
//
// HTTP: POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.sessions.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Username: res.Username,
		Message:  "Account created successfully! Please login.",
	})
}

// HandleLogin signs the user in and sets the token cookie.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, err := h.sessions.Authenticate(r.Context(), identifier, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.setTokenCookie(w, user); err != nil {
		h.logger.Error("login: token generation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout signs out and deletes the token cookie.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleSession reports the active session, or guest.
//
// HTTP: GET /api/session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.Current()
	writeJSON(w, http.StatusOK, sessionResponse{Guest: user == nil, User: user})
}

// HandleMe returns the signed-in profile.
//
// HTTP: GET /api/me
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.Current()
	if user == nil {
		writeError(w, apperror.NotAuthenticated())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateMe edits the signed-in profile. A changed email changes the
// identity, so the cookie is re-issued for the new one.
//
// HTTP: PATCH /api/me
// Auth: Required
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.sessions.UpdateProfile(r.Context(), service.ProfileUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.refreshCookie(w, r, user)
	writeJSON(w, http.StatusOK, user)
}

// HandleVerify checks a directory-issued token against the directory and
// refreshes the profile from it.
//
// HTTP: POST /api/me/verify
// Auth: Required
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessions.VerifyRemote(r.Context())
	if err != nil {
		h.logger.Warn("profile verification failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.refreshCookie(w, r, user)
	writeJSON(w, http.StatusOK, user)
}

// refreshCookie re-issues the cookie when the identity no longer matches
// the one the request was authenticated as.
func (h *AuthHandler) refreshCookie(w http.ResponseWriter, r *http.Request, user *model.User) {
	if identity, _ := auth.IdentityFromContext(r.Context()); identity == user.IdentityKey() {
		return
	}
	if err := h.setTokenCookie(w, user); err != nil {
		h.logger.Error("failed to re-issue token cookie", slog.String("error", err.Error()))
	}
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, user *model.User) error {
	token, err := h.tokens.Generate(user.IdentityKey())
	if err != nil {
		return err
	}

	// Secure should be true behind HTTPS. The facade listens on localhost.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
