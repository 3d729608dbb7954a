package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the canonical identity record. Both login paths resolve onto it,
// keyed by email.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	AvatarURL      string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Provider       string     `bun:"provider" json:"provider,omitempty"`
	ProviderUserID string     `bun:"provider_user_id" json:"provider_user_id,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasPassword reports whether the user registered (or later acquired) a
// password credential. Provider-only accounts return false.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// HasProviderLink reports whether an external provider id is already set.
// The linkage is written at most once per user.
func (u *User) HasProviderLink() bool {
	return u != nil && u.ProviderUserID != ""
}

// Sanitize clears the password hash so the record can travel upward from the
// store boundary. Lookups that need the secret must ask for it explicitly.
func (u *User) Sanitize() *User {
	if u != nil {
		u.PasswordHash = ""
	}
	return u
}
