package giftcode

import (
	"time"

	"github.com/shopspring/decimal"
)

type GiftCode struct {
	ID             string          `db:"id" json:"id"`
	CreatorID      string          `db:"creator_id" json:"creatorId"`
	Code           string          `db:"code" json:"code"`
	Comment        string          `db:"comment" json:"comment"`
	TotalSlots     int             `db:"total_slots" json:"totalSlots"`
	RemainingSlots int             `db:"remaining_slots" json:"remainingSlots"`
	AmountPerSlot  decimal.Decimal `db:"amount_per_slot" json:"amountPerSlot"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

type Claim struct {
	ID         string          `db:"id" json:"id"`
	GiftCodeID string          `db:"gift_code_id" json:"giftCodeId"`
	UserID     string          `db:"user_id" json:"userId"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt  time.Time       `db:"created_at" json:"claimedAt"`
}

// ClaimWithUser is the creator-facing claim row with the claimant
// resolved.
type ClaimWithUser struct {
	Claim
	Username string `db:"username" json:"username"`
	WWID     string `db:"wwid" json:"wwid"`
}

type CreateRequest struct {
	TotalSlots    int     `json:"totalUsers" binding:"required,gte=1"`
	AmountPerSlot float64 `json:"amountPerUser" binding:"required,gt=0"`
	Code          string  `json:"code"`
	Comment       string  `json:"comment" binding:"max=200"`
}

type ClaimRequest struct {
	Code string `json:"code" binding:"required"`
}
