package users

import "context"

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name       *string
	Department *string
	Position   *string
}

// Repo abstracts user persistence.
type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string) error
}
