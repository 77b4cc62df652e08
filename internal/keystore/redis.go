package keystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis хранит ключ в одной строке Redis. Удобно, когда консоль
// запускается на нескольких машинах одного оператора.
type Redis struct {
	rdb redis.Cmdable
	key string
}

func NewRedis(rdb redis.Cmdable, key string) *Redis {
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Load(ctx context.Context) (string, bool, error) {
	val, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keystore: redis get %s: %w", r.key, err)
	}
	key, ok := normalize(val)
	return key, ok, nil
}

func (r *Redis) Save(ctx context.Context, key string) error {
	if err := r.rdb.Set(ctx, r.key, key, 0).Err(); err != nil {
		return fmt.Errorf("keystore: redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("keystore: redis del %s: %w", r.key, err)
	}
	return nil
}

// WaitForRedis проверяет соединение при старте с несколькими попытками:
// Redis в docker-compose часто поднимается позже консоли.
func WaitForRedis(ctx context.Context, rdb redis.Cmdable, attempts uint, logger *zap.Logger) error {
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
	)

	n := 0
	return r.Do(func() error {
		n++
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis not ready", zap.Int("attempt", n), zap.Error(err))
			return err
		}
		return nil
	})
}
