package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, user_id, order_number, status, subtotal, shipping_cost, total,
		   shipping_name, shipping_email, shipping_phone, shipping_address,
		   shipping_city, shipping_state, shipping_postal_code,
		   payment_method, payment_status, payment_transaction_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.UserID, o.OrderNumber, o.Status, o.Subtotal, o.ShippingCost, o.Total,
		o.ShippingName, o.ShippingEmail, o.ShippingPhone, o.ShippingAddress,
		o.ShippingCity, o.ShippingState, o.ShippingPostalCode,
		o.PaymentMethod, o.PaymentStatus, nullableString(o.PaymentTransactionID))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, product_name, product_price, quantity, size)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			item.ID, o.ID, item.ProductID, item.ProductName,
			item.ProductPrice, item.Quantity, nullableString(item.Size))
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+` WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Items, err = r.listItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

// AdjustProductStock keeps catalog stock and sales counters in sync with a
// placed order. Stock never drops below zero.
func (r *postgresRepo) AdjustProductStock(ctx context.Context, productID string, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = GREATEST(stock - $1, 0), sales = sales + $1, updated_at = $2
		WHERE id = $3`,
		quantity, time.Now(), productID)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

const selectOrder = `
	SELECT id, user_id, order_number, status, subtotal, shipping_cost, total,
	       shipping_name, shipping_email, shipping_phone, shipping_address,
	       shipping_city, shipping_state, shipping_postal_code,
	       payment_method, payment_status, payment_transaction_id,
	       created_at, updated_at
	FROM orders`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner) (*Order, error) {
	o := &Order{}
	var userID, txID sql.NullString
	err := row.Scan(
		&o.ID, &userID, &o.OrderNumber, &o.Status, &o.Subtotal, &o.ShippingCost, &o.Total,
		&o.ShippingName, &o.ShippingEmail, &o.ShippingPhone, &o.ShippingAddress,
		&o.ShippingCity, &o.ShippingState, &o.ShippingPostalCode,
		&o.PaymentMethod, &o.PaymentStatus, &txID,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		uid, err := uuid.Parse(userID.String)
		if err == nil {
			o.UserID = &uid
		}
	}
	o.PaymentTransactionID = txID.String
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, product_price, quantity, size, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		var size sql.NullString
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductPrice, &item.Quantity, &size, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Size = size.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
