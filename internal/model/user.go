// Package model defines the data structures used throughout the application.
package model

import "time"

// GuestIdentity is the identity key used when nobody is signed in.
const GuestIdentity = "guest"

// User is the identity of the active session.
//
// A User comes either from the remote directory (ID is the directory's
// numeric id rendered as a string, Token is the directory's access token)
// or from a locally registered account (ID is an xid, Token starts with
// "token-"). Avatar holds an emoji glyph or a data-URI encoded image.
type User struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// IdentityKey returns the partition key that scopes this user's favourites:
// the email when present, else the username, else "guest".
//
// A nil receiver is the guest.
func (u *User) IdentityKey() string {
	switch {
	case u == nil:
		return GuestIdentity
	case u.Email != "":
		return u.Email
	case u.Username != "":
		return u.Username
	default:
		return GuestIdentity
	}
}

// RegisteredUser is a locally registered account. Avatar is kept so a
// profile picture chosen while signed in survives the next local login.
//
// Passwords are stored as bcrypt hashes, never in plain text. The JSON
// field name is "passwordHash" so an old plaintext "password" field is
// never mistaken for a hash.
type RegisteredUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Username     string    `json:"username,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
