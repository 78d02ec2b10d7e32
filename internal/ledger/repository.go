package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountNotFound     = errors.New("account not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Transfer moves amount between two accounts and records the
// transaction, all in one database transaction. Both rows are locked in
// id order so two opposing transfers cannot deadlock.
func (r *repository) Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, channel string) (*Transaction, decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer tx.Rollback()

	type lockedRow struct {
		ID      string          `db:"id"`
		Balance decimal.Decimal `db:"balance"`
	}

	var rows []lockedRow
	err = tx.SelectContext(ctx, &rows,
		`SELECT id, balance FROM users WHERE id = $1 OR id = $2 ORDER BY id FOR UPDATE`,
		senderID, recipientID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if len(rows) != 2 {
		return nil, decimal.Zero, ErrAccountNotFound
	}

	var senderBalance decimal.Decimal
	for _, row := range rows {
		if row.ID == senderID {
			senderBalance = row.Balance
		}
	}

	if senderBalance.LessThan(amount) {
		return nil, decimal.Zero, ErrInsufficientBalance
	}

	newSenderBalance := senderBalance.Sub(amount)

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2`, amount, senderID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2`, amount, recipientID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var transaction Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO transactions (sender_id, recipient_id, amount, channel)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sender_id, recipient_id, amount, channel, created_at`,
		senderID, recipientID, amount, channel,
	).StructScan(&transaction)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return nil, decimal.Zero, err
	}

	return &transaction, newSenderBalance, nil
}

func (r *repository) AdminAdjust(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.GetContext(ctx, &balance,
		`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}

	newBalance := balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = $1 WHERE id = $2`, newBalance, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

func (r *repository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]TransactionWithParties, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []TransactionWithParties
	err := r.db.SelectContext(ctx, &txs, `
		SELECT t.id, t.sender_id, t.recipient_id, t.amount, t.channel, t.created_at,
		       s.username AS sender_username, s.wwid AS sender_wwid,
		       rcpt.username AS recipient_username, rcpt.wwid AS recipient_wwid
		FROM transactions t
		JOIN users s ON s.id = t.sender_id
		JOIN users rcpt ON rcpt.id = t.recipient_id
		WHERE t.sender_id = $1 OR t.recipient_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
