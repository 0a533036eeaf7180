// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeedLockKey is the key holding the seeding lock.
const SeedLockKey = "orgchart:lock:seed"

// ErrLockLost is returned by unlock when the key expired or was taken over
// before release.
var ErrLockLost = errors.New("valkey lock lost before release")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-key mutex stored in Valkey. The key carries a TTL so
// a crashed holder cannot block others forever.
type Locker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	poll   time.Duration
}

// NewLocker returns a Locker on key. ttl bounds how long a holder may keep
// the lock without releasing it.
func NewLocker(client *redis.Client, key string, ttl time.Duration) *Locker {
	return &Locker{
		client: client,
		key:    key,
		ttl:    ttl,
		poll:   100 * time.Millisecond,
	}
}

// Lock blocks until the lock is acquired or ctx is done. The returned
// function releases it.
func (l *Locker) Lock(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("valkey lock %s: %w", l.key, err)
		}
		if ok {
			return func(ctx context.Context) error { return l.release(ctx, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("valkey lock %s: %w", l.key, ctx.Err())
		case <-time.After(l.poll):
		}
	}
}

func (l *Locker) release(ctx context.Context, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int()
	if err != nil {
		return fmt.Errorf("valkey unlock %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrLockLost
	}
	return nil
}
