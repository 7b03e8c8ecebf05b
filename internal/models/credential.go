package models

import "time"

// Credential is the newest token committed for one client session. An empty
// Token records that the session was logged out or expired at IssuedAt.
type Credential struct {
	Token    string    `json:"token"`
	User     *User     `json:"user,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}
