package user

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationStore_Start(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRegistrationStore(rdb)

	mock.Regexp().ExpectSet(`regflow:.+`, `.*`, regStateTTL).SetVal("OK")

	token, err := store.Start(context.Background(), RegistrationState{
		Username:     "rahul",
		Phone:        "9876543210",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationStore_Get(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRegistrationStore(rdb)

	state := RegistrationState{Username: "rahul", Phone: "9876543210", PasswordHash: "h", WWID: "rahul@ww"}
	data, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectGet("regflow:tok-1").SetVal(string(data))

	got, err := store.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "rahul@ww", got.WWID)
	assert.Equal(t, "rahul", got.Username)
}

func TestRegistrationStore_GetExpired(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRegistrationStore(rdb)

	mock.ExpectGet("regflow:stale").RedisNil()

	_, err := store.Get(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestRegistrationStore_Delete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRegistrationStore(rdb)

	mock.ExpectDel("regflow:tok-1").SetVal(1)

	assert.NoError(t, store.Delete(context.Background(), "tok-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
