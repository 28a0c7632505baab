package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectProduct = `
	SELECT id, name, description, price, category, sizes, stock, rating, sales,
	       image_url, is_active, created_at, updated_at
	FROM products`

func (r *postgresRepo) List(ctx context.Context, f Filters) ([]*Product, error) {
	query := selectProduct + ` WHERE is_active = TRUE`
	var args []interface{}

	if f.Category != "" && f.Category != "todos" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		query += fmt.Sprintf(` AND price >= $%d`, len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		query += fmt.Sprintf(` AND price <= $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	switch f.SortBy {
	case SortPriceAsc:
		query += ` ORDER BY price ASC`
	case SortPriceDesc:
		query += ` ORDER BY price DESC`
	case SortName:
		query += ` ORDER BY name ASC`
	case SortRating:
		query += ` ORDER BY rating DESC`
	case SortSales:
		query += ` ORDER BY sales DESC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	return r.query(ctx, query, args...)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE id = $1`, id))
}

func (r *postgresRepo) Search(ctx context.Context, term string, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.query(ctx, selectProduct+`
		WHERE is_active = TRUE
		  AND (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1)
		LIMIT $2`, "%"+term+"%", limit)
}

func (r *postgresRepo) Featured(ctx context.Context, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = 4
	}
	return r.query(ctx, selectProduct+`
		WHERE is_active = TRUE ORDER BY rating DESC LIMIT $1`, limit)
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (*Product, error) {
	p := &Product{}
	var description, imageURL sql.NullString
	err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Category, &p.Sizes,
		&p.Stock, &p.Rating, &p.Sales, &imageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.ImageURL = imageURL.String
	return p, nil
}

func (r *postgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
