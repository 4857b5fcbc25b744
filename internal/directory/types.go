// Package directory is a client for the remote user directory (a DummyJSON
// compatible HTTP JSON API) used for login and best-effort registration
// mirroring.
//
// The directory's responses are decoded into the typed DTOs below and then
// mapped explicitly into model.User. Nothing outside this package sees the
// wire shapes.
package directory

import (
	"strconv"
	"strings"

	"github.com/sakif/sportify/internal/model"
)

// DefaultExpiresInMins is the lifetime requested for directory tokens.
const DefaultExpiresInMins = 30

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
}

// UserPayload is the user object the directory returns from /auth/login,
// /auth/me and /users/add.
//
// Older directory versions return the access token as "token", newer ones
// as "accessToken"; both are accepted.
type UserPayload struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Image       string `json:"image"`
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// SessionToken returns whichever token field the directory filled in.
func (p UserPayload) SessionToken() string {
	if p.AccessToken != "" {
		return p.AccessToken
	}
	return p.Token
}

// ToUser maps the payload into the session identity.
func (p UserPayload) ToUser() *model.User {
	u := &model.User{
		Name:     strings.TrimSpace(p.FirstName + " " + p.LastName),
		Email:    p.Email,
		Username: p.Username,
		Token:    p.SessionToken(),
		Avatar:   p.Image,
	}
	if p.ID != 0 {
		u.ID = strconv.FormatInt(p.ID, 10)
	}
	return u
}

// AddUserRequest is the body of POST /users/add.
type AddUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

// NewAddUserRequest builds the mirroring request for a local registration.
// The display name is split on spaces into first and last name, and the
// username is the local part of the email.
func NewAddUserRequest(name, email string) AddUserRequest {
	first, last := SplitName(name)
	return AddUserRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Username:  UsernameFromEmail(email),
	}
}

// SplitName returns the first and second space-separated words of name.
// A single-word name has an empty last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return name, ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}

// UsernameFromEmail returns the part of email before the '@'.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// errorPayload is the body the directory sends with non-2xx responses.
type errorPayload struct {
	Message string `json:"message"`
}
