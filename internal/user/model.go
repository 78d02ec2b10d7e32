package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string          `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	Phone        string          `db:"phone" json:"phone"`
	PasswordHash string          `db:"password_hash" json:"-"`
	WWID         string          `db:"wwid" json:"wwid"`
	SPINHash     string          `db:"spin_hash" json:"-"`
	Role         string          `db:"role" json:"role"`
	Balance      decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Password string `json:"password" binding:"required,min=6"`
}

type SetupWWIDRequest struct {
	Token string `json:"token" binding:"required"`
	WWID  string `json:"wwid" binding:"required"`
}

type SetupSPINRequest struct {
	Token string `json:"token" binding:"required"`
	SPIN  string `json:"spin" binding:"required,spin"`
}

type LoginRequest struct {
	UsernameOrPhone string `json:"usernameOrPhone" binding:"required,min=3"`
	Password        string `json:"password" binding:"required,min=6"`
}

type VerifyPinRequest struct {
	SPIN string `json:"spin" binding:"required"`
}

type ForgotPasswordRequest struct {
	UsernameOrPhone string `json:"usernameOrPhone" binding:"required,min=3"`
	SPIN            string `json:"spin" binding:"required"`
}

type ForgotSPINRequest struct {
	UsernameOrPhone string `json:"usernameOrPhone" binding:"required,min=3"`
	Password        string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Field      string `json:"field" binding:"required,oneof=phone password spin wwid"`
	Value      string `json:"value" binding:"required"`
	VerifyWith string `json:"verifyWith" binding:"required"`
}

type AdjustBalanceRequest struct {
	UserID string  `json:"userId" binding:"required"`
	Change float64 `json:"change" binding:"required"`
}

type CreateUserParams struct {
	Username     string
	Phone        string
	PasswordHash string
	WWID         string
	SPINHash     string
}
