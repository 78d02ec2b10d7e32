package user

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByWWID(ctx context.Context, wwid string) (*User, error)
	FindByUsernameOrPhone(ctx context.Context, usernameOrPhone string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	WWIDExists(ctx context.Context, wwid string) (bool, error)
	List(ctx context.Context) ([]User, error)
	UpdatePhone(ctx context.Context, id, phone string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateSPINHash(ctx context.Context, id, hash string) error
	ChangeWWID(ctx context.Context, id, newWWID string, fee decimal.Decimal) error
}
