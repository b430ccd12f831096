// Package users holds accounts and the authentication flows around them.
package users

import "time"

// User is an account that can upload and own documents.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Department   string
	Position     string
	CreatedAt    time.Time
	LastLogin    *time.Time
}
