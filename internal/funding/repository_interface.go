package funding

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateFundRequest(ctx context.Context, userID string, amount, afterTax decimal.Decimal, utr string) (*FundRequest, error)
	CreateWithdrawRequest(ctx context.Context, userID string, amount, afterTax decimal.Decimal, upiID string) (*WithdrawRequest, decimal.Decimal, error)
	ApproveFund(ctx context.Context, id string) (*FundRequest, error)
	DeclineFund(ctx context.Context, id string) (*FundRequest, error)
	ApproveWithdraw(ctx context.Context, id string) (*WithdrawRequest, error)
	DeclineWithdraw(ctx context.Context, id string) (*WithdrawRequest, error)
	ListFundRequests(ctx context.Context) ([]FundRequest, error)
	ListWithdrawRequests(ctx context.Context) ([]WithdrawRequest, error)
	ListUserFundRequests(ctx context.Context, userID string) ([]FundRequest, error)
	ListUserWithdrawRequests(ctx context.Context, userID string) ([]WithdrawRequest, error)
}
