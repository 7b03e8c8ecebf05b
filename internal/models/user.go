package models

type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderGithub AuthProvider = "github"
)

// User is the authenticated user as reported by the backend token exchange.
// It is never mutated locally; a fresh exchange replaces it.
type User struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	ProfilePicture *string      `json:"profile_picture,omitempty"`
	AuthProvider   AuthProvider `json:"auth_provider"`
	EmailVerified  bool         `json:"email_verified"`
}

// Copy returns a detached copy so callers cannot alter the session's value.
func (u *User) Copy() *User {
	if u == nil {
		return nil
	}

	c := *u
	if u.ProfilePicture != nil {
		pic := *u.ProfilePicture
		c.ProfilePicture = &pic
	}

	return &c
}
