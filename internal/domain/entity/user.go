package entity

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is stored in the users collection keyed by username.
type User struct {
	Username     string    `json:"username" firestore:"username"`
	PasswordHash string    `json:"-" firestore:"password"`
	Role         string    `json:"role" firestore:"role"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the observing user as seen by notification logic.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RoleForUsername grants the admin role to the reserved artist username,
// compared case-insensitively.
func RoleForUsername(username, adminUsername string) string {
	if strings.EqualFold(username, adminUsername) {
		return RoleAdmin
	}
	return RoleUser
}
