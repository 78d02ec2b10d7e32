package apipay

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Settings is a user's personal payment API configuration. The token
// is nullable in the database: a user who has never generated one (or
// revoked it) has no token at all.
type Settings struct {
	ID             string         `db:"id" json:"id"`
	UserID         string         `db:"user_id" json:"userId"`
	APIEnabled     bool           `db:"api_enabled" json:"apiEnabled"`
	APIToken       sql.NullString `db:"api_token" json:"-"`
	CallbackDomain string         `db:"callback_domain" json:"callbackDomain"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// SettingsView is the JSON shape handed to the owner; the token is a
// plain string so clients never see SQL null plumbing.
type SettingsView struct {
	APIEnabled     bool   `json:"apiEnabled"`
	APIToken       string `json:"apiToken"`
	CallbackDomain string `json:"callbackDomain"`
}

func (s *Settings) View() SettingsView {
	return SettingsView{
		APIEnabled:     s.APIEnabled,
		APIToken:       s.APIToken.String,
		CallbackDomain: s.CallbackDomain,
	}
}

type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

type UpdateDomainRequest struct {
	CallbackDomain string `json:"callbackDomain" binding:"required,url,max=200"`
}

// PayRequest carries the query parameters of the public payment
// endpoint after validation.
type PayRequest struct {
	Token         string
	RecipientWWID string
	Amount        decimal.Decimal
}

type PayResult struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Recipient     string          `json:"recipient"`
	NewBalance    decimal.Decimal `json:"newBalance"`
}
