package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/auth"
	"github.com/Gamenter95/weoo/internal/metrics"
	"github.com/Gamenter95/weoo/internal/user"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfTransfer      = errors.New("cannot pay to yourself")
	ErrInvalidSPIN       = errors.New("invalid s-pin")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

type APITransferResult struct {
	Transaction *Transaction
	NewBalance  decimal.Decimal
	Payer       *user.User
	Recipient   *user.User
}

type Service interface {
	Transfer(ctx context.Context, senderID string, req TransferRequest) (*TransferResult, error)
	TransferByAPI(ctx context.Context, ownerID, recipientWWID string, amount decimal.Decimal) (*APITransferResult, error)
	AdminAdjust(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error)
	History(ctx context.Context, userID string, limit, offset int) ([]TransactionWithParties, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *service) Transfer(ctx context.Context, senderID string, req TransferRequest) (*TransferResult, error) {
	amount := decimal.NewFromFloat(req.Amount).Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	recipient, err := s.userRepo.FindByWWID(ctx, req.RecipientWWID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if sender.ID == recipient.ID {
		return nil, ErrSelfTransfer
	}

	if !auth.CheckSecret(sender.SPINHash, req.SPIN) {
		return nil, ErrInvalidSPIN
	}

	transaction, newBalance, err := s.repo.Transfer(ctx, sender.ID, recipient.ID, amount, ChannelP2P)
	if err != nil {
		return nil, err
	}

	metrics.RecordTransfer(ChannelP2P)

	return &TransferResult{Transaction: transaction, NewBalance: newBalance}, nil
}

// TransferByAPI is the bearer-token variant of Transfer. The token was
// already authenticated by the caller, so no S-PIN is required.
func (s *service) TransferByAPI(ctx context.Context, ownerID, recipientWWID string, amount decimal.Decimal) (*APITransferResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	recipient, err := s.userRepo.FindByWWID(ctx, recipientWWID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	payer, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if payer.ID == recipient.ID {
		return nil, ErrSelfTransfer
	}

	transaction, newBalance, err := s.repo.Transfer(ctx, payer.ID, recipient.ID, amount, ChannelAPI)
	if err != nil {
		return nil, err
	}

	metrics.RecordTransfer(ChannelAPI)

	return &APITransferResult{
		Transaction: transaction,
		NewBalance:  newBalance,
		Payer:       payer,
		Recipient:   recipient,
	}, nil
}

func (s *service) AdminAdjust(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	return s.repo.AdminAdjust(ctx, userID, delta)
}

func (s *service) History(ctx context.Context, userID string, limit, offset int) ([]TransactionWithParties, error) {
	return s.repo.ListForUser(ctx, userID, limit, offset)
}
