package wishlist

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL wishlist repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Add(ctx context.Context, userID, productID string) (*Entry, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	e := &Entry{ID: uuid.New(), UserID: uid, ProductID: productID}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO wishlist (id, user_id, product_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		e.ID, e.UserID, e.ProductID).Scan(&e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist WHERE user_id=$1 AND product_id=$2`, userID, productID)
	return err
}

func (r *postgresRepo) Contains(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM wishlist WHERE user_id=$1 AND product_id=$2)`,
		userID, productID).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.name, p.price, COALESCE(p.image_url, '')
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt,
			&e.ProductName, &e.ProductPrice, &e.ImageURL); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
