package giftcode

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamenter95/weoo/internal/ledger"
)

func setupGiftMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func codeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "creator_id", "code", "comment", "total_slots", "remaining_slots", "amount_per_slot", "is_active", "created_at",
	})
}

func TestCreate_DebitsFullCost(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	amount := decimal.NewFromInt(50)
	cost := decimal.NewFromInt(250)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT balance FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("500"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET balance = balance - $1 WHERE id = $2")).
		WithArgs(cost, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO gift_codes (creator_id, code, comment, total_slots, remaining_slots, amount_per_slot)")).
		WithArgs("u-1", "FESTIVE7", "", 5, amount).
		WillReturnRows(codeRows().
			AddRow("g-1", "u-1", "FESTIVE7", "", 5, 5, "50", true, time.Now()))
	mock.ExpectCommit()

	gc, err := repo.Create(context.Background(), "u-1", "FESTIVE7", "", 5, amount)
	require.NoError(t, err)
	assert.Equal(t, 5, gc.RemainingSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsufficientBalance(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT balance FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("100"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), "u-1", "FESTIVE7", "", 5, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}

func TestClaim_Success(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, creator_id, code, comment, total_slots, remaining_slots, amount_per_slot, is_active, created_at FROM gift_codes WHERE code = $1 FOR UPDATE")).
		WithArgs("FESTIVE7").
		WillReturnRows(codeRows().
			AddRow("g-1", "u-1", "FESTIVE7", "", 5, 3, "50", true, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM gift_code_claims WHERE gift_code_id = $1 AND user_id = $2)")).
		WithArgs("g-1", "u-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE gift_codes SET remaining_slots = remaining_slots - 1 WHERE id = $1")).
		WithArgs("g-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET balance = balance + $1 WHERE id = $2")).
		WithArgs(decimal.NewFromInt(50), "u-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO gift_code_claims (gift_code_id, user_id, amount)")).
		WithArgs("g-1", "u-2", decimal.NewFromInt(50)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "gift_code_id", "user_id", "amount", "created_at"}).
			AddRow("c-1", "g-1", "u-2", "50", time.Now()))
	mock.ExpectCommit()

	gc, claim, err := repo.Claim(context.Background(), "u-2", "FESTIVE7")
	require.NoError(t, err)
	assert.Equal(t, 2, gc.RemainingSlots)
	assert.True(t, claim.Amount.Equal(decimal.NewFromInt(50)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM gift_codes WHERE code = $1 FOR UPDATE")).
		WithArgs("FESTIVE7").
		WillReturnRows(codeRows().
			AddRow("g-1", "u-1", "FESTIVE7", "", 5, 3, "50", true, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM gift_code_claims WHERE gift_code_id = $1 AND user_id = $2)")).
		WithArgs("g-1", "u-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, _, err := repo.Claim(context.Background(), "u-2", "FESTIVE7")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestClaim_Exhausted(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM gift_codes WHERE code = $1 FOR UPDATE")).
		WithArgs("FESTIVE7").
		WillReturnRows(codeRows().
			AddRow("g-1", "u-1", "FESTIVE7", "", 5, 0, "50", true, time.Now()))
	mock.ExpectRollback()

	_, _, err := repo.Claim(context.Background(), "u-2", "FESTIVE7")
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestStop_RefundsRemainingSlots(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM gift_codes WHERE code = $1 FOR UPDATE")).
		WithArgs("FESTIVE7").
		WillReturnRows(codeRows().
			AddRow("g-1", "u-1", "FESTIVE7", "", 5, 3, "50", true, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE gift_codes SET is_active = FALSE, remaining_slots = 0 WHERE id = $1")).
		WithArgs("g-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET balance = balance + $1 WHERE id = $2")).
		WithArgs(decimal.NewFromInt(150), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	refund, err := repo.Stop(context.Background(), "u-1", "FESTIVE7")
	require.NoError(t, err)
	assert.True(t, refund.Equal(decimal.NewFromInt(150)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStop_NotOwner(t *testing.T) {
	repo, mock, close := setupGiftMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM gift_codes WHERE code = $1 FOR UPDATE")).
		WithArgs("FESTIVE7").
		WillReturnRows(codeRows().
			AddRow("g-1", "u-1", "FESTIVE7", "", 5, 3, "50", true, time.Now()))
	mock.ExpectRollback()

	_, err := repo.Stop(context.Background(), "u-intruder", "FESTIVE7")
	assert.ErrorIs(t, err, ErrNotCodeOwner)
}
