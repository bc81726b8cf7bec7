// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash json:"-"?
// The `json:"-"` tag tells encoding/json to NEVER serialize this field.
// The bcrypt hash is not reversible, but leaking it still hands attackers
// offline cracking material. With the "-" tag, even a careless handler that
// encodes a whole *model.User cannot expose it.
//
// WHY ID int64 (not a string)?
// The users table uses INTEGER PRIMARY KEY AUTOINCREMENT, so the database
// assigns sequential integer IDs. int64 matches SQLite's 64-bit rowids and
// survives any realistic number of registrations.
type User struct {
	ID           int64     `json:"id"         db:"id"`
	Email        string    `json:"email"      db:"email"`         // Unique — enforced by the DB
	PasswordHash string    `json:"-"          db:"password_hash"` // bcrypt output, never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
