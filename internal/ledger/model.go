package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ChannelP2P = "p2p"
	ChannelAPI = "api"
)

type Transaction struct {
	ID          string          `db:"id" json:"id"`
	SenderID    string          `db:"sender_id" json:"senderId"`
	RecipientID string          `db:"recipient_id" json:"recipientId"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Channel     string          `db:"channel" json:"channel"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// TransactionWithParties is the history row shown to users, with both
// ends of the transfer resolved to their handles.
type TransactionWithParties struct {
	Transaction
	SenderUsername    string `db:"sender_username" json:"senderUsername"`
	SenderWWID        string `db:"sender_wwid" json:"senderWWID"`
	RecipientUsername string `db:"recipient_username" json:"recipientUsername"`
	RecipientWWID     string `db:"recipient_wwid" json:"recipientWWID"`
}

type TransferRequest struct {
	RecipientWWID string  `json:"recipientWWID" binding:"required,wwid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	SPIN          string  `json:"spin" binding:"required,spin"`
}

type TransferResult struct {
	Transaction *Transaction
	NewBalance  decimal.Decimal
}
