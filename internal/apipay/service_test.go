package apipay

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Gamenter95/weoo/internal/ledger"
	"github.com/Gamenter95/weoo/internal/notification"
	"github.com/Gamenter95/weoo/internal/user"
)

type MockSettingsRepo struct{ mock.Mock }

func (m *MockSettingsRepo) GetOrCreate(ctx context.Context, userID string) (*Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettingsRepo) SetEnabled(ctx context.Context, userID string, enabled bool) (*Settings, error) {
	args := m.Called(ctx, userID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettingsRepo) SetToken(ctx context.Context, userID, token string) (*Settings, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettingsRepo) ClearToken(ctx context.Context, userID string) (*Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettingsRepo) UpdateDomain(ctx context.Context, userID, domain string) (*Settings, error) {
	args := m.Called(ctx, userID, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettingsRepo) FindByToken(ctx context.Context, token string) (*Settings, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockSettingsRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type MockLedgerService struct{ mock.Mock }

func (m *MockLedgerService) Transfer(ctx context.Context, senderID string, req ledger.TransferRequest) (*ledger.TransferResult, error) {
	args := m.Called(ctx, senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransferResult), args.Error(1)
}

func (m *MockLedgerService) TransferByAPI(ctx context.Context, ownerID, recipientWWID string, amount decimal.Decimal) (*ledger.APITransferResult, error) {
	args := m.Called(ctx, ownerID, recipientWWID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.APITransferResult), args.Error(1)
}

func (m *MockLedgerService) AdminAdjust(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, userID string, limit, offset int) ([]ledger.TransactionWithParties, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.TransactionWithParties), args.Error(1)
}

type mockNotifRepo struct{ mock.Mock }

func (m *mockNotifRepo) Create(ctx context.Context, userID, notifType, title, message string) (*notification.Notification, error) {
	args := m.Called(ctx, userID, notifType, title, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotifRepo) ListForUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func newTestNotifier(t *testing.T, expectEmits int) *notification.Service {
	t.Helper()
	rdb, redisMock := redismock.NewClientMock()
	for i := 0; i < expectEmits; i++ {
		redisMock.Regexp().ExpectLPush("notifications", `.*`).SetVal(1)
	}
	return notification.New(rdb, new(mockNotifRepo))
}

func TestNewToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		token, err := newToken()
		require.NoError(t, err)
		assert.Len(t, token, 5)
		seen[token] = true
	}
	assert.Greater(t, len(seen), 40)
}

func TestGenerateToken_RetriesOnCollision(t *testing.T) {
	repo := new(MockSettingsRepo)
	repo.On("GetOrCreate", mock.Anything, "u-1").Return(&Settings{UserID: "u-1"}, nil)
	repo.On("TokenExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
	repo.On("TokenExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	repo.On("SetToken", mock.Anything, "u-1", mock.MatchedBy(func(token string) bool {
		return len(token) == 5
	})).Return(&Settings{UserID: "u-1", APIToken: sql.NullString{String: "abcde", Valid: true}}, nil)

	svc := NewService(repo, new(MockLedgerService), newTestNotifier(t, 0))

	settings, err := svc.GenerateToken(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, settings.APIToken.Valid)
	repo.AssertExpectations(t)
}

func TestPay(t *testing.T) {
	enabled := &Settings{
		UserID:     "u-owner",
		APIEnabled: true,
		APIToken:   sql.NullString{String: "tok12", Valid: true},
	}

	t.Run("invalid token", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("FindByToken", mock.Anything, "nope1").Return(nil, ErrTokenNotFound)

		svc := NewService(repo, new(MockLedgerService), newTestNotifier(t, 0))

		_, err := svc.Pay(context.Background(), PayRequest{Token: "nope1", RecipientWWID: "bob@ww", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("api disabled", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		disabled := *enabled
		disabled.APIEnabled = false
		repo.On("FindByToken", mock.Anything, "tok12").Return(&disabled, nil)

		svc := NewService(repo, new(MockLedgerService), newTestNotifier(t, 0))

		_, err := svc.Pay(context.Background(), PayRequest{Token: "tok12", RecipientWWID: "bob@ww", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, ErrAPIDisabled)
	})

	t.Run("successful payment notifies both sides", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("FindByToken", mock.Anything, "tok12").Return(enabled, nil)

		ledgerSvc := new(MockLedgerService)
		ledgerSvc.On("TransferByAPI", mock.Anything, "u-owner", "bob@ww",
			mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(10)) }),
		).Return(&ledger.APITransferResult{
			Transaction: &ledger.Transaction{ID: "tx-1", Amount: decimal.NewFromInt(10)},
			NewBalance:  decimal.NewFromInt(90),
			Payer:       &user.User{ID: "u-owner", WWID: "owner@ww"},
			Recipient:   &user.User{ID: "u-bob", WWID: "bob@ww"},
		}, nil)

		svc := NewService(repo, ledgerSvc, newTestNotifier(t, 2))

		result, err := svc.Pay(context.Background(), PayRequest{Token: "tok12", RecipientWWID: "bob@ww", Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
		assert.Equal(t, "tx-1", result.TransactionID)
		assert.Equal(t, "bob@ww", result.Recipient)
		assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(90)))
		ledgerSvc.AssertExpectations(t)
	})

	t.Run("transfer errors pass through", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("FindByToken", mock.Anything, "tok12").Return(enabled, nil)

		ledgerSvc := new(MockLedgerService)
		ledgerSvc.On("TransferByAPI", mock.Anything, "u-owner", "ghost@ww", mock.Anything).
			Return(nil, ledger.ErrRecipientNotFound)

		svc := NewService(repo, ledgerSvc, newTestNotifier(t, 0))

		_, err := svc.Pay(context.Background(), PayRequest{Token: "tok12", RecipientWWID: "ghost@ww", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, ledger.ErrRecipientNotFound)
	})
}
