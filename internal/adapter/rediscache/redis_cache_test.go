package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"readum/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const resultKey = "readum:result:answer:0123456789abcdef0123456789abcdef"

func TestRedisCache_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db)
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet(resultKey).SetVal(`{"id":"x"}`)
		val, err := c.Get(ctx, resultKey)
		assert.NoError(t, err)
		assert.Equal(t, `{"id":"x"}`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet(resultKey).SetErr(redis.Nil)
		val, err := c.Get(ctx, resultKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(resultKey).SetErr(redisErr)
		_, err := c.Get(ctx, resultKey)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db)
	ctx := context.Background()
	ttl := 24 * time.Hour

	t.Run("success", func(t *testing.T) {
		mock.ExpectSet(resultKey, "payload", ttl).SetVal("OK")
		assert.NoError(t, c.Set(ctx, resultKey, "payload", ttl))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		redisErr := errors.New("OOM")
		mock.ExpectSet(resultKey, "payload", ttl).SetErr(redisErr)
		err := c.Set(ctx, resultKey, "payload", ttl)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCache_DeleteAndPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db)
	ctx := context.Background()

	mock.ExpectDel(resultKey).SetVal(0)
	assert.NoError(t, c.Delete(ctx, resultKey))

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, c.Ping(ctx))

	pingErr := errors.New("down")
	mock.ExpectPing().SetErr(pingErr)
	assert.ErrorIs(t, c.Ping(ctx), pingErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
