// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Post represents a blog post owned by a user.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize
// this struct to/from JSON. OwnerID is a foreign key into the users table;
// the database enforces that it references an existing user.
//
// Published defaults to true when a client omits it on creation. That
// defaulting happens in the handler (where "omitted" is still observable),
// not here — a struct can't distinguish `false` from "not provided".
type Post struct {
	ID        int64     `json:"id"         db:"id"`
	Title     string    `json:"title"      db:"title"`
	Content   string    `json:"content"    db:"content"`
	Published bool      `json:"published"  db:"published"`
	OwnerID   int64     `json:"owner_id"   db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
