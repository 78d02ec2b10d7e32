package giftcode

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/ledger"
)

var (
	ErrCodeNotFound   = errors.New("gift code not found")
	ErrCodeInactive   = errors.New("gift code is no longer active")
	ErrCodeExhausted  = errors.New("gift code has no remaining slots")
	ErrCodeTaken      = errors.New("gift code already exists")
	ErrAlreadyClaimed = errors.New("gift code already claimed by this user")
	ErrNotCodeOwner   = errors.New("only the creator can stop a gift code")
)

const uniqueViolation = "23505"

const codeColumns = `id, creator_id, code, comment, total_slots, remaining_slots, amount_per_slot, is_active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create debits the full cost (slots × amount) from the creator and
// inserts the code in one transaction.
func (r *repository) Create(ctx context.Context, creatorID, code, comment string, totalSlots int, amountPerSlot decimal.Decimal) (*GiftCode, error) {
	cost := amountPerSlot.Mul(decimal.NewFromInt(int64(totalSlots)))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.GetContext(ctx, &balance,
		`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	if balance.LessThan(cost) {
		return nil, ledger.ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2`, cost, creatorID)
	if err != nil {
		return nil, err
	}

	var gc GiftCode
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO gift_codes (creator_id, code, comment, total_slots, remaining_slots, amount_per_slot)
		 VALUES ($1, $2, $3, $4, $4, $5)
		 RETURNING `+codeColumns,
		creatorID, code, comment, totalSlots, amountPerSlot,
	).StructScan(&gc)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &gc, nil
}

// Claim locks the code row, credits the claimant and burns one slot.
// The UNIQUE (gift_code_id, user_id) constraint backstops the explicit
// already-claimed check against concurrent claims.
func (r *repository) Claim(ctx context.Context, userID, code string) (*GiftCode, *Claim, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var gc GiftCode
	err = tx.QueryRowxContext(ctx,
		`SELECT `+codeColumns+` FROM gift_codes WHERE code = $1 FOR UPDATE`, code,
	).StructScan(&gc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if !gc.IsActive {
		return nil, nil, ErrCodeInactive
	}
	if gc.RemainingSlots <= 0 {
		return nil, nil, ErrCodeExhausted
	}

	var claimed bool
	err = tx.GetContext(ctx, &claimed,
		`SELECT EXISTS(SELECT 1 FROM gift_code_claims WHERE gift_code_id = $1 AND user_id = $2)`,
		gc.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	if claimed {
		return nil, nil, ErrAlreadyClaimed
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE gift_codes SET remaining_slots = remaining_slots - 1 WHERE id = $1`, gc.ID)
	if err != nil {
		return nil, nil, err
	}
	gc.RemainingSlots--

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2`, gc.AmountPerSlot, userID)
	if err != nil {
		return nil, nil, err
	}

	var claim Claim
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO gift_code_claims (gift_code_id, user_id, amount)
		 VALUES ($1, $2, $3)
		 RETURNING id, gift_code_id, user_id, amount, created_at`,
		gc.ID, userID, gc.AmountPerSlot,
	).StructScan(&claim)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, ErrAlreadyClaimed
		}
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &gc, &claim, nil
}

// Stop deactivates the code and refunds the unclaimed slots to the
// creator.
func (r *repository) Stop(ctx context.Context, creatorID, code string) (decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	var gc GiftCode
	err = tx.QueryRowxContext(ctx,
		`SELECT `+codeColumns+` FROM gift_codes WHERE code = $1 FOR UPDATE`, code,
	).StructScan(&gc)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrCodeNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}

	if gc.CreatorID != creatorID {
		return decimal.Zero, ErrNotCodeOwner
	}
	if !gc.IsActive {
		return decimal.Zero, ErrCodeInactive
	}

	refund := gc.AmountPerSlot.Mul(decimal.NewFromInt(int64(gc.RemainingSlots)))

	_, err = tx.ExecContext(ctx,
		`UPDATE gift_codes SET is_active = FALSE, remaining_slots = 0 WHERE id = $1`, gc.ID)
	if err != nil {
		return decimal.Zero, err
	}

	if refund.IsPositive() {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + $1 WHERE id = $2`, refund, creatorID)
		if err != nil {
			return decimal.Zero, err
		}
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}

	return refund, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM gift_codes WHERE code = $1)`, code)
	return exists, err
}

func (r *repository) ListByCreator(ctx context.Context, creatorID string) ([]GiftCode, error) {
	var codes []GiftCode
	err := r.db.SelectContext(ctx, &codes,
		`SELECT `+codeColumns+` FROM gift_codes WHERE creator_id = $1 ORDER BY created_at DESC`,
		creatorID)
	return codes, err
}

func (r *repository) ListClaims(ctx context.Context, creatorID, code string) ([]ClaimWithUser, error) {
	var gc GiftCode
	err := r.db.QueryRowxContext(ctx,
		`SELECT `+codeColumns+` FROM gift_codes WHERE code = $1`, code,
	).StructScan(&gc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	if gc.CreatorID != creatorID {
		return nil, ErrNotCodeOwner
	}

	var claims []ClaimWithUser
	err = r.db.SelectContext(ctx, &claims, `
		SELECT c.id, c.gift_code_id, c.user_id, c.amount, c.created_at,
		       u.username, u.wwid
		FROM gift_code_claims c
		JOIN users u ON u.id = c.user_id
		WHERE c.gift_code_id = $1
		ORDER BY c.created_at DESC
	`, gc.ID)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
