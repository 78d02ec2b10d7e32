package notification

import "time"

const (
	TypeFundApproved     = "fund_approved"
	TypeFundDeclined     = "fund_declined"
	TypeWithdrawApproved = "withdraw_approved"
	TypeWithdrawDeclined = "withdraw_declined"
	TypeAPIPaymentSent   = "api_payment_sent"
	TypePaymentReceived  = "payment_received"
	TypeGiftCodeClaimed  = "gift_code_claimed"
)

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// WebhookJob is attached to a queued notification when the event should
// also be pushed to an external callback URL.
type WebhookJob struct {
	URL     string      `json:"url"`
	Payload interface{} `json:"payload"`
}

type Job struct {
	UserID  string      `json:"user_id"`
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Webhook *WebhookJob `json:"webhook,omitempty"`
	Tries   int         `json:"tries"`
	Created time.Time   `json:"created"`
}
