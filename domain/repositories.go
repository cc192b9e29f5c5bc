package domain

import "context"

// UserRepository provides read access to authorization records. Login never
// mutates the collection.
type UserRepository interface {
	// GetUserByEmail returns the single record whose email field exactly
	// matches the argument. Zero matches returns ErrUserNotFound; more
	// than one returns ErrAmbiguousUser.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
