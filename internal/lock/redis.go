// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package lock

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/mattermost/tmsync/model"
)

const (
	defaultKeyPrefix    = "tmsync:lock:"
	defaultTTL          = 2 * time.Minute
	defaultRetryBackoff = 50 * time.Millisecond
	releaseTimeout      = 5 * time.Second
)

// releaseScript deletes the lock only when it still holds our token, so
// an expired lock taken over by another instance is left alone.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// RedisLocker is a Locker shared by every instance using the same Redis.
type RedisLocker struct {
	client       redis.Cmdable
	keyPrefix    string
	ttl          time.Duration
	retryBackoff time.Duration
	newToken     func() string
	logger       log.FieldLogger
}

// NewRedisLocker connects to the Redis server at url.
func NewRedisLocker(url string, logger log.FieldLogger) (*RedisLocker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis url")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	return NewRedisLockerFromClient(client, logger), nil
}

// NewRedisLockerFromClient creates a RedisLocker from an existing client.
func NewRedisLockerFromClient(client redis.Cmdable, logger log.FieldLogger) *RedisLocker {
	return &RedisLocker{
		client:       client,
		keyPrefix:    defaultKeyPrefix,
		ttl:          defaultTTL,
		retryBackoff: defaultRetryBackoff,
		newToken:     model.NewID,
		logger:       logger,
	}
}

// Lock polls until the key is acquired or ctx is done. The lock expires
// after the TTL if the holder never releases it.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.keyPrefix + key
	token := l.newToken()

	for {
		acquired, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to acquire lock %s", key)
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "gave up waiting for lock %s", key)
		case <-time.After(l.retryBackoff):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			err := l.client.Eval(releaseCtx, releaseScript, []string{fullKey}, token).Err()
			if err != nil {
				l.logger.WithError(err).WithField("lock", key).Warn("Failed to release lock; it will expire")
			}
		})
	}, nil
}
