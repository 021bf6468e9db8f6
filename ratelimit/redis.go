package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Redis is a fixed window counter shared by every instance pointed at the same server.
type Redis struct {
	client  *redis.Client
	max     int
	window  time.Duration
	prefix  string
	nowTime func() time.Time
}

var _ Limiter = (*Redis)(nil)

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse REDIS_URL")
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{
		client:  client,
		max:     max,
		window:  window,
		prefix:  "ratelimit:",
		nowTime: time.Now,
	}
}

func (r *Redis) windowKey(key string) string {
	start := r.nowTime().UnixNano() / int64(r.window)
	return r.prefix + key + ":" + strconv.FormatInt(start, 10)
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.windowKey(key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "redis rate limit")
	}
	return incr.Val() <= int64(r.max), nil
}
