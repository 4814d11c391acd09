package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentry-taiga/internal/common/config"
)

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	c := &PostgresClient{DB: db}
	mock.ExpectPing()
	assert.NoError(t, c.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_PingRecoversOnSamePool(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	c := &PostgresClient{DB: db}
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	assert.ErrorContains(t, c.Ping(context.Background()), "postgres ping failed")
	assert.NoError(t, c.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgres_OpensLazily(t *testing.T) {
	c, err := NewPostgres(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, Database: "sentry", User: "u", SSLMode: "disable",
		MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
