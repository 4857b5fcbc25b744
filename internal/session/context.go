// Package session holds the identity of the signed-in user.
//
// There is exactly one Context per running application. It is created in
// main and handed to every component that needs to know who is signed in,
// instead of living in a package-level variable.
package session

import (
	"sync"

	"github.com/sakif/sportify/internal/model"
)

// Context owns the active user. A nil user means guest.
type Context struct {
	mu   sync.RWMutex
	user *model.User
}

// NewContext returns a Context with no signed-in user.
func NewContext() *Context {
	return &Context{}
}

// Get returns a copy of the active user, or nil for a guest.
func (c *Context) Get() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Set replaces the active user. Passing nil signs the user out.
func (c *Context) Set(u *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u == nil {
		c.user = nil
		return
	}
	copied := *u
	c.user = &copied
}

// IdentityKey is the favourites partition key of the active user.
func (c *Context) IdentityKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.IdentityKey()
}

// Authenticated reports whether a user is signed in.
func (c *Context) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}
