package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.FullName)
	return err
}

const selectUser = `
	SELECT id, email, password_hash, full_name, phone, avatar_url, created_at, updated_at
	FROM users
`

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+`WHERE email = $1`, email))
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRowContext(ctx, selectUser+`WHERE id = $1`, parsedID))
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, user *User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name=$1, phone=$2, avatar_url=$3, updated_at=$4
		WHERE id=$5`,
		user.FullName, user.Phone, user.AvatarURL, time.Now(), user.ID)
	return err
}

func (r *postgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1, updated_at=$2 WHERE id=$3`,
		hash, time.Now(), parsedID)
	return err
}

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var phone, avatarURL sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&phone,
		&avatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Phone = phone.String
	user.AvatarURL = avatarURL.String
	return user, nil
}
