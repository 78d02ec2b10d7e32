package funding

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Gamenter95/weoo/internal/notification"
)

type MockFundingRepo struct{ mock.Mock }

func (m *MockFundingRepo) CreateFundRequest(ctx context.Context, userID string, amount, afterTax decimal.Decimal, utr string) (*FundRequest, error) {
	args := m.Called(ctx, userID, amount, afterTax, utr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundRequest), args.Error(1)
}

func (m *MockFundingRepo) CreateWithdrawRequest(ctx context.Context, userID string, amount, afterTax decimal.Decimal, upiID string) (*WithdrawRequest, decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount, afterTax, upiID)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*WithdrawRequest), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockFundingRepo) ApproveFund(ctx context.Context, id string) (*FundRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundRequest), args.Error(1)
}

func (m *MockFundingRepo) DeclineFund(ctx context.Context, id string) (*FundRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundRequest), args.Error(1)
}

func (m *MockFundingRepo) ApproveWithdraw(ctx context.Context, id string) (*WithdrawRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WithdrawRequest), args.Error(1)
}

func (m *MockFundingRepo) DeclineWithdraw(ctx context.Context, id string) (*WithdrawRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WithdrawRequest), args.Error(1)
}

func (m *MockFundingRepo) ListFundRequests(ctx context.Context) ([]FundRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FundRequest), args.Error(1)
}

func (m *MockFundingRepo) ListWithdrawRequests(ctx context.Context) ([]WithdrawRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithdrawRequest), args.Error(1)
}

func (m *MockFundingRepo) ListUserFundRequests(ctx context.Context, userID string) ([]FundRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FundRequest), args.Error(1)
}

func (m *MockFundingRepo) ListUserWithdrawRequests(ctx context.Context, userID string) ([]WithdrawRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithdrawRequest), args.Error(1)
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

func TestRequestDeposit(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		svc := NewService(new(MockFundingRepo), newTestNotifier(t, 0))

		_, err := svc.RequestDeposit(context.Background(), "u-1", AddFundRequest{Amount: 9.99, UTR: "123456789012"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "minimum deposit")
	})

	t.Run("computes the after-tax credit", func(t *testing.T) {
		repo := new(MockFundingRepo)
		repo.On("CreateFundRequest", mock.Anything, "u-1",
			mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(100)) }),
			mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(97)) }),
			"123456789012",
		).Return(&FundRequest{ID: "f-1", Status: StatusPending}, nil)

		svc := NewService(repo, newTestNotifier(t, 0))

		req, err := svc.RequestDeposit(context.Background(), "u-1", AddFundRequest{Amount: 100, UTR: "123456789012"})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, req.Status)
		repo.AssertExpectations(t)
	})
}

func TestRequestWithdraw(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		svc := NewService(new(MockFundingRepo), newTestNotifier(t, 0))

		_, _, err := svc.RequestWithdraw(context.Background(), "u-1", WithdrawFundsRequest{Amount: 19.99, UPIID: "rahul@upi"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "minimum withdrawal")
	})

	t.Run("passes the after-tax payout to the repository", func(t *testing.T) {
		repo := new(MockFundingRepo)
		repo.On("CreateWithdrawRequest", mock.Anything, "u-1",
			mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(20)) }),
			mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.RequireFromString("19.4")) }),
			"rahul@upi",
		).Return(&WithdrawRequest{ID: "w-1"}, decimal.NewFromInt(80), nil)

		svc := NewService(repo, newTestNotifier(t, 0))

		req, newBalance, err := svc.RequestWithdraw(context.Background(), "u-1", WithdrawFundsRequest{Amount: 20, UPIID: "rahul@upi"})
		require.NoError(t, err)
		assert.Equal(t, "w-1", req.ID)
		assert.True(t, newBalance.Equal(decimal.NewFromInt(80)))
	})
}

func TestDecisions_NotifyTheRequester(t *testing.T) {
	t.Run("approve deposit", func(t *testing.T) {
		repo := new(MockFundingRepo)
		repo.On("ApproveFund", mock.Anything, "f-1").Return(&FundRequest{
			ID: "f-1", UserID: "u-1",
			Amount:         decimal.NewFromInt(100),
			AfterTaxAmount: decimal.NewFromInt(97),
			Status:         StatusApproved,
		}, nil)

		err := NewService(repo, newTestNotifier(t, 1)).ApproveDeposit(context.Background(), "f-1")
		assert.NoError(t, err)
	})

	t.Run("decline withdraw", func(t *testing.T) {
		repo := new(MockFundingRepo)
		repo.On("DeclineWithdraw", mock.Anything, "w-1").Return(&WithdrawRequest{
			ID: "w-1", UserID: "u-1",
			Amount:         decimal.NewFromInt(20),
			AfterTaxAmount: decimal.RequireFromString("19.40"),
			Status:         StatusDeclined,
		}, nil)

		err := NewService(repo, newTestNotifier(t, 1)).DeclineWithdraw(context.Background(), "w-1")
		assert.NoError(t, err)
	})

	t.Run("already decided propagates", func(t *testing.T) {
		repo := new(MockFundingRepo)
		repo.On("ApproveFund", mock.Anything, "f-1").Return(nil, ErrAlreadyDecided)

		err := NewService(repo, newTestNotifier(t, 0)).ApproveDeposit(context.Background(), "f-1")
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	})
}
