// internal/common/database/database_test.go
package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-workers/internal/common/config"
)

// ==========================
// Redis
// ==========================

type cachedValue struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisClient_JSONRoundTrip(t *testing.T) {
	client, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))

	var got cachedValue
	found, err := client.GetJSON(ctx, "nlu:missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.SetJSON(ctx, "nlu:k", cachedValue{Intent: "ask_kb", Confidence: 0.5}, time.Minute))
	found, err = client.GetJSON(ctx, "nlu:k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Intent: "ask_kb", Confidence: 0.5}, got)

	mr.FastForward(2 * time.Minute)
	found, err = client.GetJSON(ctx, "nlu:k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisClient_CorruptValue(t *testing.T) {
	client, mr := newTestRedis(t)
	require.NoError(t, mr.Set("nlu:bad", "{not json"))

	var got cachedValue
	found, err := client.GetJSON(context.Background(), "nlu:bad", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisClient_Unreachable(t *testing.T) {
	client, mr := newTestRedis(t)
	mr.Close()

	assert.Error(t, client.Ping(context.Background()))

	var got cachedValue
	_, err := client.GetJSON(context.Background(), "nlu:k", &got)
	assert.Error(t, err)
}

// ==========================
// Postgres
// ==========================

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	client := &PostgresClient{DB: db}

	mock.ExpectPing()
	assert.NoError(t, client.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres ping failed")

	mock.ExpectClose()
	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
