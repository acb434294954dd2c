package ratelimit

import (
	"context"
	"sync"
	"time"

	"revenue-server/internal/clients/redis"
	"revenue-server/internal/observability"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=mocks_test.go -package=ratelimit

// WindowStore is a shared sliding window counter
type WindowStore interface {
	IsEnabled() bool
	HitWindow(ctx context.Context, key, member string, now time.Time, window time.Duration) (redis.WindowCount, error)
	ForgetHit(ctx context.Context, key, member string) error
}

// Window is the length of the rate limit window
const Window = time.Minute

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Service limits requests per key. It counts in Redis when available and falls
// back to a per-process token bucket otherwise.
type Service struct {
	windows WindowStore
	limit   int
	logger  *observability.Logger
	now     func() time.Time

	mu        sync.Mutex
	local     map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// a bucket idle for a full window has refilled and is equal to a new one
const localIdleTTL = 2 * Window

// NewService creates a limiter allowing limit requests per Window and key. A
// limit of zero or less disables limiting.
func NewService(windows WindowStore, limit int, logger *observability.Logger) *Service {
	return &Service{
		windows: windows,
		limit:   limit,
		logger:  logger,
		now:     time.Now,
		local:   map[string]*localBucket{},
	}
}

// Enabled reports whether any limit applies
func (s *Service) Enabled() bool {
	return s.limit > 0
}

// Check records one request for key and reports whether it is within the limit
func (s *Service) Check(ctx context.Context, key string) Result {
	now := s.now()
	if !s.Enabled() {
		return Result{Allowed: true, ResetAt: now}
	}

	if s.windows != nil && s.windows.IsEnabled() {
		result, err := s.checkShared(ctx, key, now)
		if err == nil {
			return result
		}
		s.logger.WarnWithError(ctx, "redis rate limit check failed, falling back to local limiter", err)
	}
	return s.checkLocal(key, now)
}

func (s *Service) checkShared(ctx context.Context, key string, now time.Time) (Result, error) {
	redisKey := "rl:webhook:" + key
	member := now.Format(time.RFC3339Nano) + "-" + uuid.NewString()

	window, err := s.windows.HitWindow(ctx, redisKey, member, now, Window)
	if err != nil {
		return Result{}, err
	}

	resetAt := window.OldestAt.Add(Window)
	if window.Count > int64(s.limit) {
		// rejected requests do not hold a slot in the window
		if err := s.windows.ForgetHit(ctx, redisKey, member); err != nil {
			s.logger.WarnWithError(ctx, "failed to drop rejected hit", err)
		}
		retry := resetAt.Sub(now)
		if retry < 0 {
			retry = 0
		}
		return Result{Limit: s.limit, ResetAt: resetAt, RetryAfter: retry}, nil
	}

	return Result{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - int(window.Count),
		ResetAt:   resetAt,
	}, nil
}

func (s *Service) checkLocal(key string, now time.Time) Result {
	s.mu.Lock()
	s.sweepLocal(now)
	bucket, ok := s.local[key]
	if !ok {
		bucket = &localBucket{limiter: rate.NewLimiter(rate.Every(Window/time.Duration(s.limit)), s.limit)}
		s.local[key] = bucket
	}
	bucket.lastSeen = now
	limiter := bucket.limiter
	s.mu.Unlock()

	reservation := limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return Result{Limit: s.limit, ResetAt: now.Add(delay), RetryAfter: delay}
	}

	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Limit: s.limit, Remaining: remaining, ResetAt: now.Add(Window)}
}

// sweepLocal drops idle buckets at most once per window. Callers hold s.mu.
func (s *Service) sweepLocal(now time.Time) {
	if now.Sub(s.lastSweep) < Window {
		return
	}
	s.lastSweep = now
	for key, bucket := range s.local {
		if now.Sub(bucket.lastSeen) > localIdleTTL {
			delete(s.local, key)
		}
	}
}
