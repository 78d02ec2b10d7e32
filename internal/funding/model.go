package funding

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

type FundRequest struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"userId"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	AfterTaxAmount decimal.Decimal `db:"after_tax_amount" json:"afterTaxAmount"`
	UTR            string          `db:"utr" json:"utr"`
	Status         string          `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	DecidedAt      sql.NullTime    `db:"decided_at" json:"decidedAt,omitempty" swaggertype:"string"`
}

type WithdrawRequest struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"userId"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	AfterTaxAmount decimal.Decimal `db:"after_tax_amount" json:"afterTaxAmount"`
	UPIID          string          `db:"upi_id" json:"upiId"`
	Status         string          `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	DecidedAt      sql.NullTime    `db:"decided_at" json:"decidedAt,omitempty" swaggertype:"string"`
}

type AddFundRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=10"`
	UTR    string  `json:"utr" binding:"required,len=12"`
}

type WithdrawFundsRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=20"`
	UPIID  string  `json:"upiId" binding:"required"`
}
