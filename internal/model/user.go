package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Accounts start unverified: registration stores a 6-digit
// verification code and VerificationCode stays non-nil until the
// user redeems it, at which point IsVerified flips to true and the
// code is cleared. Password resets follow the same issue-then-redeem
// shape but with an explicit expiry.
//
// Fields:
//  ID                   – primary key identifier of the user.
//  Name                 – first name.
//  Surname              – last name.
//  Email                – unique email address (stored lowercased).
//  PasswordHash         – bcrypt hashed password.
//  Role                 – one of "student", "head_admin", "super_admin".
//  Phone                – optional phone number.
//  Gender               – optional gender string.
//  BirthDate            – optional birth date (YYYY-MM-DD).
//  ClubName             – club the user heads, if any.
//  IsVerified           – whether the email was confirmed.
//  VerificationCode     – pending email verification code (nil once verified).
//  ResetPasswordCode    – outstanding password reset code (nil when none).
//  ResetPasswordExpires – expiry of the reset code (nil when none).
//  CreatedAt            – timestamp of creation.
//  UpdatedAt            – timestamp of last update.
type User struct {
	ID                   uint64     // users.id
	Name                 string     // users.name
	Surname              string     // users.surname
	Email                string     // users.email
	PasswordHash         string     // users.password_hash
	Role                 string     // users.role
	Phone                *string    // users.phone (nullable)
	Gender               *string    // users.gender (nullable)
	BirthDate            *string    // users.birth_date (nullable)
	ClubName             *string    // users.club_name (nullable)
	IsVerified           bool       // users.is_verified
	VerificationCode     *string    // users.verification_code (nullable)
	ResetPasswordCode    *string    // users.reset_password_code (nullable)
	ResetPasswordExpires *time.Time // users.reset_password_expires (nullable)
	CreatedAt            time.Time  // users.created_at
	UpdatedAt            time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
