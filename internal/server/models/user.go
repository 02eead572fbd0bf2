// Package models defines server-side data models persisted in the database.
// The schema itself lives in the migrations package; these are plain
// structs scanned from and bound to SQL by the repositories.
package models

import "time"

// User is a registered account. PasswordHash is never serialised to clients.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
