package refreshtokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix  = "session:user:"
	tokenKeyPrefix = "session:token:"
)

// RedisRepository implements Repository on Redis. Two keys are kept per
// session: user → token (the authoritative "current token" record) and
// token → user (the lookup index), both expiring with the token itself.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func userKey(userID string) string { return userKeyPrefix + userID }
func tokenKey(token string) string { return tokenKeyPrefix + token }

// maxTxRetries bounds optimistic-lock retries on contended user keys.
const maxTxRetries = 5

// Upsert replaces the user's refresh token. The user key is WATCHed so the
// read of the superseded token and its removal commit as one unit; if a
// concurrent login changes the key first, the transaction aborts and the
// whole read-replace is retried. Exactly one token per user survives.
func (r *RedisRepository) Upsert(ctx context.Context, userID string, token string, validity time.Duration) error {
	replace := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, userKey(userID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if old != "" && old != token {
				pipe.Del(ctx, tokenKey(old))
			}
			pipe.Set(ctx, userKey(userID), token, validity)
			pipe.Set(ctx, tokenKey(token), userID, validity)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, replace, userKey(userID))
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("redis error: %w", err)
	}
	return fmt.Errorf("redis error: %w", redis.TxFailedErr)
}

func (r *RedisRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	uid, err := r.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	ttl, err := r.client.TTL(ctx, tokenKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return &models.RefreshToken{
		UserID:  uid,
		Token:   token,
		Expires: time.Now().Add(ttl),
	}, nil
}

func (r *RedisRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	var removed int64

	del := func(tx *redis.Tx) error {
		uid, err := tx.Get(ctx, tokenKey(token)).Result()
		if errors.Is(err, redis.Nil) {
			removed = 0
			return nil
		}
		if err != nil {
			return err
		}

		// drop the user record only if it still points at this token
		current, err := tx.Get(ctx, userKey(uid)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		cmds, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKey(token))
			if current == token {
				pipe.Del(ctx, userKey(uid))
			}
			return nil
		})
		if err != nil {
			return err
		}
		removed = cmds[0].(*redis.IntCmd).Val()
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, del, tokenKey(token))
		if err == nil {
			return removed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return 0, fmt.Errorf("redis error: %w", redis.TxFailedErr)
}
