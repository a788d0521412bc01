package model

import "time"

// User represents a traveler account as stored in the `users` table.
// Handlers never expose PasswordHash; response DTOs carry only id, name
// and email.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name shown in the client.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password; plaintext is never persisted.
//  CreatedAt    – timestamp of registration.
//  UpdatedAt    – timestamp of last profile update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
