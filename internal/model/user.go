package model

import "time"

// Role enumerates the account roles the application knows about.  Keeping
// the set closed lets the role middleware compare against constants instead
// of free-text strings.
type Role string

const (
	RoleAdmin    Role = "ADMIN"    // back-office operator
	RoleStandard Role = "STANDARD" // any non-admin account
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStandard
}

// User represents an application user record as stored in the `users`
// table.  Accounts are provisioned out-of-band (see cmd/seed); the HTTP
// surface only ever reads them and rotates PasswordHash through the
// password-reset flow.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	Email        – email address, used by the password-reset flow.
//	PasswordHash – bcrypt hashed password.
//	Role         – closed role enumeration (ADMIN or STANDARD).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// PasswordResetToken models a row in `password_reset_tokens`.  A token is
// redeemable while Used is false and ExpiresAt lies in the future; it is
// marked used exactly once, at successful redemption.  Several outstanding
// tokens may exist for the same email, each judged on its own fields.  As
// with refresh tokens only the SHA-256 hash of the mailed value is stored.
type PasswordResetToken struct {
	ID        uint64    // password_reset_tokens.id
	Email     string    // password_reset_tokens.email
	TokenHash string    // password_reset_tokens.token_hash
	ExpiresAt time.Time // password_reset_tokens.expires_at
	Used      bool      // password_reset_tokens.used
	CreatedAt time.Time // password_reset_tokens.created_at
}

// Redeemable reports whether the token can still be redeemed at the given
// instant.  The store query enforces the same condition; this mirror exists
// so the rule is testable without a database.
func (t PasswordResetToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
