package funding

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/ledger"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	// ErrAlreadyDecided guards the exactly-once status transition: a
	// second approve (or decline) of the same request is rejected
	// instead of double-crediting.
	ErrAlreadyDecided = errors.New("request already decided")
)

const fundColumns = `id, user_id, amount, after_tax_amount, utr, status, created_at, decided_at`

const withdrawColumns = `id, user_id, amount, after_tax_amount, upi_id, status, created_at, decided_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFundRequest(ctx context.Context, userID string, amount, afterTax decimal.Decimal, utr string) (*FundRequest, error) {
	var req FundRequest
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO fund_requests (user_id, amount, after_tax_amount, utr)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+fundColumns,
		userID, amount, afterTax, utr,
	).StructScan(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateWithdrawRequest debits the full amount up front (the hold) and
// records the pending request in the same transaction, so the money
// cannot be spent twice while an admin decides.
func (r *repository) CreateWithdrawRequest(ctx context.Context, userID string, amount, afterTax decimal.Decimal, upiID string) (*WithdrawRequest, decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.GetContext(ctx, &balance,
		`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, decimal.Zero, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, decimal.Zero, err
	}

	if balance.LessThan(amount) {
		return nil, decimal.Zero, ledger.ErrInsufficientBalance
	}

	newBalance := balance.Sub(amount)

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2`, amount, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var req WithdrawRequest
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO withdraw_requests (user_id, amount, after_tax_amount, upi_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+withdrawColumns,
		userID, amount, afterTax, upiID,
	).StructScan(&req)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return nil, decimal.Zero, err
	}

	return &req, newBalance, nil
}

func (r *repository) ApproveFund(ctx context.Context, id string) (*FundRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var req FundRequest
	err = tx.QueryRowxContext(ctx,
		`UPDATE fund_requests
		 SET status = 'approved', decided_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+fundColumns, id,
	).StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.fundDecisionConflict(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2`,
		req.AfterTaxAmount, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &req, nil
}

func (r *repository) DeclineFund(ctx context.Context, id string) (*FundRequest, error) {
	var req FundRequest
	err := r.db.QueryRowxContext(ctx,
		`UPDATE fund_requests
		 SET status = 'declined', decided_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+fundColumns, id,
	).StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.fundDecisionConflict(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ApproveWithdraw(ctx context.Context, id string) (*WithdrawRequest, error) {
	// Balance was already debited when the request was created, so
	// approval only flips the status.
	var req WithdrawRequest
	err := r.db.QueryRowxContext(ctx,
		`UPDATE withdraw_requests
		 SET status = 'approved', decided_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+withdrawColumns, id,
	).StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.withdrawDecisionConflict(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) DeclineWithdraw(ctx context.Context, id string) (*WithdrawRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var req WithdrawRequest
	err = tx.QueryRowxContext(ctx,
		`UPDATE withdraw_requests
		 SET status = 'declined', decided_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+withdrawColumns, id,
	).StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.withdrawDecisionConflict(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	// Refund the full held amount, not the fee-adjusted payout.
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2`,
		req.Amount, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &req, nil
}

func (r *repository) fundDecisionConflict(ctx context.Context, id string) error {
	var status string
	err := r.db.GetContext(ctx, &status,
		`SELECT status FROM fund_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyDecided
}

func (r *repository) withdrawDecisionConflict(ctx context.Context, id string) error {
	var status string
	err := r.db.GetContext(ctx, &status,
		`SELECT status FROM withdraw_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyDecided
}

func (r *repository) ListFundRequests(ctx context.Context) ([]FundRequest, error) {
	var reqs []FundRequest
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT `+fundColumns+` FROM fund_requests ORDER BY created_at DESC`)
	return reqs, err
}

func (r *repository) ListWithdrawRequests(ctx context.Context) ([]WithdrawRequest, error) {
	var reqs []WithdrawRequest
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT `+withdrawColumns+` FROM withdraw_requests ORDER BY created_at DESC`)
	return reqs, err
}

func (r *repository) ListUserFundRequests(ctx context.Context, userID string) ([]FundRequest, error) {
	var reqs []FundRequest
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT `+fundColumns+` FROM fund_requests WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return reqs, err
}

func (r *repository) ListUserWithdrawRequests(ctx context.Context, userID string) ([]WithdrawRequest, error) {
	var reqs []WithdrawRequest
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT `+withdrawColumns+` FROM withdraw_requests WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return reqs, err
}
