package giftcode

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, creatorID, code, comment string, totalSlots int, amountPerSlot decimal.Decimal) (*GiftCode, error)
	Claim(ctx context.Context, userID, code string) (*GiftCode, *Claim, error)
	Stop(ctx context.Context, creatorID, code string) (decimal.Decimal, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByCreator(ctx context.Context, creatorID string) ([]GiftCode, error)
	ListClaims(ctx context.Context, creatorID, code string) ([]ClaimWithUser, error)
}
