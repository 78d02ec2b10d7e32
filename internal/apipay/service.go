package apipay

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/ledger"
	"github.com/Gamenter95/weoo/internal/logger"
	"github.com/Gamenter95/weoo/internal/notification"
)

var (
	ErrInvalidToken    = errors.New("invalid api token")
	ErrAPIDisabled     = errors.New("payment api is disabled for this account")
	ErrTokenGeneration = errors.New("failed to generate a unique api token")
)

const maxTokenAttempts = 10

type Service interface {
	GetSettings(ctx context.Context, userID string) (*Settings, error)
	Toggle(ctx context.Context, userID string, enabled bool) (*Settings, error)
	GenerateToken(ctx context.Context, userID string) (*Settings, error)
	RevokeToken(ctx context.Context, userID string) (*Settings, error)
	UpdateDomain(ctx context.Context, userID, domain string) (*Settings, error)
	Pay(ctx context.Context, req PayRequest) (*PayResult, error)
}

type service struct {
	repo     Repository
	ledger   ledger.Service
	notifier *notification.Service
}

func NewService(repo Repository, ledgerSvc ledger.Service, notifier *notification.Service) Service {
	return &service{
		repo:     repo,
		ledger:   ledgerSvc,
		notifier: notifier,
	}
}

func (s *service) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *service) Toggle(ctx context.Context, userID string, enabled bool) (*Settings, error) {
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.SetEnabled(ctx, userID, enabled)
}

func (s *service) GenerateToken(ctx context.Context, userID string) (*Settings, error) {
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := newToken()
		if err != nil {
			return nil, err
		}
		exists, err := s.repo.TokenExists(ctx, token)
		if err != nil {
			return nil, err
		}
		if !exists {
			return s.repo.SetToken(ctx, userID, token)
		}
	}
	return nil, ErrTokenGeneration
}

func (s *service) RevokeToken(ctx context.Context, userID string) (*Settings, error) {
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ClearToken(ctx, userID)
}

func (s *service) UpdateDomain(ctx context.Context, userID, domain string) (*Settings, error) {
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.UpdateDomain(ctx, userID, domain)
}

// Pay authenticates the bearer token and moves money on the token
// owner's behalf. Notifications and the callback webhook are
// best-effort; the transfer itself has already committed.
func (s *service) Pay(ctx context.Context, req PayRequest) (*PayResult, error) {
	settings, err := s.repo.FindByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !settings.APIEnabled {
		return nil, ErrAPIDisabled
	}

	result, err := s.ledger.TransferByAPI(ctx, settings.UserID, req.RecipientWWID, req.Amount)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, settings, result)

	return &PayResult{
		TransactionID: result.Transaction.ID,
		Amount:        result.Transaction.Amount,
		Recipient:     result.Recipient.WWID,
		NewBalance:    result.NewBalance,
	}, nil
}

func (s *service) notify(ctx context.Context, settings *Settings, result *ledger.APITransferResult) {
	amount := result.Transaction.Amount.StringFixed(2)

	sent := notification.Job{
		UserID:  result.Payer.ID,
		Type:    notification.TypeAPIPaymentSent,
		Title:   "API Payment Sent",
		Message: fmt.Sprintf("₹%s sent to %s via API", amount, result.Recipient.WWID),
	}
	if settings.CallbackDomain != "" {
		sent.Webhook = &notification.WebhookJob{
			URL: settings.CallbackDomain,
			Payload: map[string]interface{}{
				"event":         "payment.sent",
				"transactionId": result.Transaction.ID,
				"amount":        amount,
				"recipient":     result.Recipient.WWID,
			},
		}
	}
	if err := s.notifier.Emit(ctx, sent); err != nil {
		logger.Errorf("queue api payment notification: %v", err)
	}

	received := notification.Job{
		UserID:  result.Recipient.ID,
		Type:    notification.TypePaymentReceived,
		Title:   "Payment Received",
		Message: fmt.Sprintf("You received ₹%s from %s via API", amount, result.Payer.WWID),
	}
	if err := s.notifier.Emit(ctx, received); err != nil {
		logger.Errorf("queue api payment notification: %v", err)
	}
}

// newToken returns a 5-character URL-safe token. Uniqueness is
// enforced by the caller and the database constraint.
func newToken() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:5], nil
}
