package apipay

import "context"

type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Settings, error)
	SetEnabled(ctx context.Context, userID string, enabled bool) (*Settings, error)
	SetToken(ctx context.Context, userID, token string) (*Settings, error)
	ClearToken(ctx context.Context, userID string) (*Settings, error)
	UpdateDomain(ctx context.Context, userID, domain string) (*Settings, error)
	FindByToken(ctx context.Context, token string) (*Settings, error)
	TokenExists(ctx context.Context, token string) (bool, error)
}
