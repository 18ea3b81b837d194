package repomanager

import (
	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/repositories/refreshtokens"
	"github.com/redis/go-redis/v9"
)

// RedisSessionManager decorates a RepositoryManager so that refresh tokens
// live in Redis while every other repository stays on PostgreSQL.
type RedisSessionManager struct {
	RepositoryManager
	client *redis.Client
}

// WithRedisSessions wraps base so RefreshTokens vends the Redis-backed store.
func WithRedisSessions(base RepositoryManager, client *redis.Client) *RedisSessionManager {
	return &RedisSessionManager{RepositoryManager: base, client: client}
}

// RefreshTokens ignores the DBTX; Redis carries the session records.
func (m *RedisSessionManager) RefreshTokens(_ dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewRedisRepository(m.client)
}
