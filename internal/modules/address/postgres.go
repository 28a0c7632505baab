package address

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL address repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectAddress = `
	SELECT id, user_id, label, full_name, phone, street, city, state,
	       postal_code, is_default, created_at, updated_at
	FROM addresses`

func (r *postgresRepo) Create(ctx context.Context, a *Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default=FALSE WHERE user_id=$1`, a.UserID); err != nil {
			return fmt.Errorf("demote defaults: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO addresses
		  (id, user_id, label, full_name, phone, street, city, state, postal_code, is_default)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.UserID, a.Label, a.FullName, a.Phone, a.Street, a.City, a.State,
		a.PostalCode, a.IsDefault)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Address, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanAddress(r.db.QueryRowContext(ctx, selectAddress+` WHERE id=$1`, uid))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx, selectAddress+`
		WHERE user_id=$1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, a *Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default=FALSE WHERE user_id=$1`, a.UserID); err != nil {
			return fmt.Errorf("demote defaults: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addresses
		SET label=$1, full_name=$2, phone=$3, street=$4, city=$5, state=$6,
		    postal_code=$7, is_default=$8, updated_at=$9
		WHERE id=$10 AND user_id=$11`,
		a.Label, a.FullName, a.Phone, a.Street, a.City, a.State,
		a.PostalCode, a.IsDefault, time.Now(), a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *postgresRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepo) SetDefault(ctx context.Context, id, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE addresses SET is_default=FALSE WHERE user_id=$1`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE addresses SET is_default=TRUE, updated_at=$1 WHERE id=$2 AND user_id=$3`,
		time.Now(), id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAddress(row scanner) (*Address, error) {
	a := &Address{}
	var label, postalCode sql.NullString
	err := row.Scan(&a.ID, &a.UserID, &label, &a.FullName, &a.Phone, &a.Street,
		&a.City, &a.State, &postalCode, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Label = label.String
	a.PostalCode = postalCode.String
	return a, nil
}
