package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Registration spans three requests (basic info, WWID, S-PIN). The
// in-flight state lives in Redis under a one-time token so an abandoned
// flow simply expires.
const (
	regStateTTL       = 15 * time.Minute
	regStateKeyPrefix = "regflow:"
)

var ErrSessionExpired = errors.New("registration session expired")

type RegistrationState struct {
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
	WWID         string `json:"wwid,omitempty"`
}

type RegistrationStore struct {
	redis *redis.Client
}

func NewRegistrationStore(client *redis.Client) *RegistrationStore {
	return &RegistrationStore{redis: client}
}

func (s *RegistrationStore) Start(ctx context.Context, state RegistrationState) (string, error) {
	token := uuid.NewString()
	if err := s.put(ctx, token, state); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RegistrationStore) Get(ctx context.Context, token string) (*RegistrationState, error) {
	data, err := s.redis.Get(ctx, regStateKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	var state RegistrationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RegistrationStore) Update(ctx context.Context, token string, state RegistrationState) error {
	return s.put(ctx, token, state)
}

func (s *RegistrationStore) Delete(ctx context.Context, token string) error {
	return s.redis.Del(ctx, regStateKeyPrefix+token).Err()
}

func (s *RegistrationStore) put(ctx context.Context, token string, state RegistrationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, regStateKeyPrefix+token, data, regStateTTL).Err()
}
