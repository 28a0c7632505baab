package payment

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL payment repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateTransaction(ctx context.Context, tx *Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_transactions
		  (id, transaction_id, method, status, amount, currency,
		   card_type, masked_card, phone_number, last_error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		tx.ID, nullable(tx.TransactionID), tx.Method, tx.Status, tx.Amount, tx.Currency,
		nullable(string(tx.CardType)), nullable(tx.MaskedCard),
		nullable(tx.PhoneNumber), nullable(tx.LastError))
	return err
}

func (r *postgresRepo) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scan(r.db.QueryRowContext(ctx, selectColumns+` WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error) {
	return r.scan(r.db.QueryRowContext(ctx, selectColumns+` WHERE transaction_id=$1`, transactionID))
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		tx, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

const selectColumns = `
	SELECT id, transaction_id, method, status, amount, currency,
	       card_type, masked_card, phone_number, last_error, created_at, updated_at
	FROM payment_transactions`

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scan(row scanner) (*Transaction, error) { return scanRow(row) }

func scanRow(row scanner) (*Transaction, error) {
	tx := &Transaction{}
	var transactionID, cardType, maskedCard, phone, lastError sql.NullString
	err := row.Scan(
		&tx.ID, &transactionID, &tx.Method, &tx.Status, &tx.Amount, &tx.Currency,
		&cardType, &maskedCard, &phone, &lastError, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tx.TransactionID = transactionID.String
	tx.CardType = CardType(cardType.String)
	tx.MaskedCard = maskedCard.String
	tx.PhoneNumber = phone.String
	tx.LastError = lastError.String
	return tx, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
