package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseLockScript deletes the lock only if it still holds our token, so a
// lock that expired and was taken by someone else is left alone.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisSlotLockKeyPrefix = "timeslot:lock:"

	slotLockRetryInterval = 25 * time.Millisecond
)

// SlotLocker serialises book, cancel and delete requests that target the
// same time slot. The database guards stay authoritative: the lock only keeps
// competing requests from piling onto the same row.
type SlotLocker interface {
	Lock(ctx context.Context, slotID uint) (unlock func(), err error)
}

type SlotLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
	wait        time.Duration
}

func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger, ttl, wait time.Duration) *SlotLockService {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if wait < 0 {
		wait = 0
	}
	return &SlotLockService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		wait:        wait,
	}
}

// Lock acquires the per-slot lock, retrying until the wait period elapses.
// When Redis is unreachable or the wait expires the caller proceeds unlocked
// and the database decides. Only context cancellation is returned as an
// error. The returned unlock func is always safe to call.
func (s *SlotLockService) Lock(ctx context.Context, slotID uint) (func(), error) {
	key := fmt.Sprintf("%s%d", RedisSlotLockKeyPrefix, slotID)
	token := uuid.NewString()
	deadline := time.Now().Add(s.wait)
	for {
		acquired, err := s.redisClient.SetNX(ctx, key, token, s.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return func() {}, ctx.Err()
			}
			s.log.Warnf("Failed to acquire lock for time slot %d, continuing without it: %+v", slotID, err)
			return func() {}, nil
		}
		if acquired {
			return func() { s.release(key, token, slotID) }, nil
		}
		if time.Now().After(deadline) {
			s.log.Debugf("Lock wait for time slot %d expired, continuing without it", slotID)
			return func() {}, nil
		}

		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(slotLockRetryInterval):
		}
	}
}

func (s *SlotLockService) release(key, token string, slotID uint) {
	// The request context may already be cancelled; releasing must still happen.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, s.redisClient, []string{key}, token).Err(); err != nil {
		s.log.Warnf("Failed to release lock for time slot %d: %+v", slotID, err)
	}
}
