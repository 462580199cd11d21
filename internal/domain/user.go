// Package domain contains entities without logic, just meta-data
package domain

import "errors"

const MaxUsernameLen = 64

var ErrUsernameTooLong = errors.New("username too long")

// User is the display identity a connection carries into rooms.
// The ID is the server-assigned connection identifier; the username is
// whatever the client supplied on join.
type User struct {
	ID       ConnID `json:"id"`
	Username string `json:"username"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id ConnID, username string) *User {
	if username == "" {
		username = "guest"
	}
	return &User{ID: id, Username: username}
}

func (u *User) SetUsername(username string) error {
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	if username != "" {
		u.Username = username
	}
	return nil
}
