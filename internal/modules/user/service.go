package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser creates an account with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, email, password, fullName string) (*User, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, id string) (*User, error)

	// UpdateProfile updates the mutable profile fields.
	UpdateProfile(ctx context.Context, id string, fullName, phone, avatarURL string) (*User, error)

	// ChangePassword replaces the user's password.
	ChangePassword(ctx context.Context, id string, newPassword string) error
}

// Repository defines data access for users.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
}
