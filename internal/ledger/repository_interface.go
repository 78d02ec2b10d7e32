package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, channel string) (*Transaction, decimal.Decimal, error)
	AdminAdjust(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]TransactionWithParties, error)
}
