package giftcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/metrics"
	"github.com/Gamenter95/weoo/internal/notification"
)

var (
	ErrInvalidCustomCode = errors.New("custom code must be 4-20 uppercase letters or digits")
	ErrCodeGeneration    = errors.New("failed to generate a unique gift code")
)

// Ambiguous characters (0/O, 1/I) are excluded so codes survive being
// read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 7

const maxGenerationAttempts = 10

var customCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,20}$`)

type Service interface {
	Create(ctx context.Context, creatorID string, req CreateRequest) (*GiftCode, error)
	Claim(ctx context.Context, userID string, code string) (*GiftCode, *Claim, error)
	Stop(ctx context.Context, creatorID, code string) (decimal.Decimal, error)
	ListMine(ctx context.Context, creatorID string) ([]GiftCode, error)
	ListClaims(ctx context.Context, creatorID, code string) ([]ClaimWithUser, error)
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

func (s *service) Create(ctx context.Context, creatorID string, req CreateRequest) (*GiftCode, error) {
	amount := decimal.NewFromFloat(req.AmountPerSlot).Round(2)

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		generated, err := s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	} else if !customCodePattern.MatchString(code) {
		return nil, ErrInvalidCustomCode
	}

	return s.repo.Create(ctx, creatorID, code, req.Comment, req.TotalSlots, amount)
}

func (s *service) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

func randomCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

func (s *service) Claim(ctx context.Context, userID string, code string) (*GiftCode, *Claim, error) {
	gc, claim, err := s.repo.Claim(ctx, userID, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordGiftCodeClaim()

	// Let the creator know a slot was burned.
	_ = s.notifier.Emit(ctx, notification.Job{
		UserID:  gc.CreatorID,
		Type:    notification.TypeGiftCodeClaimed,
		Title:   "Gift Code Claimed",
		Message: fmt.Sprintf("A slot of your gift code %s was claimed. %d slots remaining.", gc.Code, gc.RemainingSlots),
	})

	return gc, claim, nil
}

func (s *service) Stop(ctx context.Context, creatorID, code string) (decimal.Decimal, error) {
	return s.repo.Stop(ctx, creatorID, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *service) ListMine(ctx context.Context, creatorID string) ([]GiftCode, error) {
	return s.repo.ListByCreator(ctx, creatorID)
}

func (s *service) ListClaims(ctx context.Context, creatorID, code string) ([]ClaimWithUser, error) {
	return s.repo.ListClaims(ctx, creatorID, strings.ToUpper(strings.TrimSpace(code)))
}
