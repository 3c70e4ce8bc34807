package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// Locks the user row for the duration of the surrounding transaction.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*User, error)
	Save(ctx context.Context, u *User) error
}
