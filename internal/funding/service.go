package funding

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/ledger"
	"github.com/Gamenter95/weoo/internal/metrics"
	"github.com/Gamenter95/weoo/internal/notification"
)

var (
	minDeposit  = decimal.NewFromInt(10)
	minWithdraw = decimal.NewFromInt(20)
)

type Service interface {
	RequestDeposit(ctx context.Context, userID string, req AddFundRequest) (*FundRequest, error)
	RequestWithdraw(ctx context.Context, userID string, req WithdrawFundsRequest) (*WithdrawRequest, decimal.Decimal, error)
	ApproveDeposit(ctx context.Context, id string) error
	DeclineDeposit(ctx context.Context, id string) error
	ApproveWithdraw(ctx context.Context, id string) error
	DeclineWithdraw(ctx context.Context, id string) error
	ListFundRequests(ctx context.Context) ([]FundRequest, error)
	ListWithdrawRequests(ctx context.Context) ([]WithdrawRequest, error)
	ListUserFundRequests(ctx context.Context, userID string) ([]FundRequest, error)
	ListUserWithdrawRequests(ctx context.Context, userID string) ([]WithdrawRequest, error)
}

type service struct {
	repo     Repository
	notifier *notification.Service
}

func NewService(repo Repository, notifier *notification.Service) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *service) RequestDeposit(ctx context.Context, userID string, req AddFundRequest) (*FundRequest, error) {
	amount := decimal.NewFromFloat(req.Amount).Round(2)
	if amount.LessThan(minDeposit) {
		return nil, fmt.Errorf("minimum deposit is ₹%s", minDeposit)
	}

	// No balance change here: the credit happens on admin approval.
	return s.repo.CreateFundRequest(ctx, userID, amount, ledger.AfterTax(amount), req.UTR)
}

func (s *service) RequestWithdraw(ctx context.Context, userID string, req WithdrawFundsRequest) (*WithdrawRequest, decimal.Decimal, error) {
	amount := decimal.NewFromFloat(req.Amount).Round(2)
	if amount.LessThan(minWithdraw) {
		return nil, decimal.Zero, fmt.Errorf("minimum withdrawal is ₹%s", minWithdraw)
	}

	return s.repo.CreateWithdrawRequest(ctx, userID, amount, ledger.AfterTax(amount), req.UPIID)
}

func (s *service) ApproveDeposit(ctx context.Context, id string) error {
	req, err := s.repo.ApproveFund(ctx, id)
	if err != nil {
		return err
	}

	metrics.RecordFundDecision("approved")

	return s.notifier.Emit(ctx, notification.Job{
		UserID:  req.UserID,
		Type:    notification.TypeFundApproved,
		Title:   "Fund Request Approved",
		Message: fmt.Sprintf("Your fund request of ₹%s has been approved. ₹%s added to your account.", req.Amount, req.AfterTaxAmount),
	})
}

func (s *service) DeclineDeposit(ctx context.Context, id string) error {
	req, err := s.repo.DeclineFund(ctx, id)
	if err != nil {
		return err
	}

	metrics.RecordFundDecision("declined")

	return s.notifier.Emit(ctx, notification.Job{
		UserID:  req.UserID,
		Type:    notification.TypeFundDeclined,
		Title:   "Fund Request Declined",
		Message: fmt.Sprintf("Your fund request of ₹%s has been declined.", req.Amount),
	})
}

func (s *service) ApproveWithdraw(ctx context.Context, id string) error {
	req, err := s.repo.ApproveWithdraw(ctx, id)
	if err != nil {
		return err
	}

	metrics.RecordWithdrawDecision("approved")

	return s.notifier.Emit(ctx, notification.Job{
		UserID:  req.UserID,
		Type:    notification.TypeWithdrawApproved,
		Title:   "Withdraw Request Approved",
		Message: fmt.Sprintf("Your withdraw request of ₹%s has been approved. ₹%s will be sent to %s.", req.Amount, req.AfterTaxAmount, req.UPIID),
	})
}

func (s *service) DeclineWithdraw(ctx context.Context, id string) error {
	req, err := s.repo.DeclineWithdraw(ctx, id)
	if err != nil {
		return err
	}

	metrics.RecordWithdrawDecision("declined")

	return s.notifier.Emit(ctx, notification.Job{
		UserID:  req.UserID,
		Type:    notification.TypeWithdrawDeclined,
		Title:   "Withdraw Request Declined",
		Message: fmt.Sprintf("Your withdraw request of ₹%s has been declined. Amount refunded to your balance.", req.Amount),
	})
}

func (s *service) ListFundRequests(ctx context.Context) ([]FundRequest, error) {
	return s.repo.ListFundRequests(ctx)
}

func (s *service) ListWithdrawRequests(ctx context.Context) ([]WithdrawRequest, error) {
	return s.repo.ListWithdrawRequests(ctx)
}

func (s *service) ListUserFundRequests(ctx context.Context, userID string) ([]FundRequest, error) {
	return s.repo.ListUserFundRequests(ctx, userID)
}

func (s *service) ListUserWithdrawRequests(ctx context.Context, userID string) ([]WithdrawRequest, error) {
	return s.repo.ListUserWithdrawRequests(ctx, userID)
}
