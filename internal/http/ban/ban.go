// Package ban temporarily blocks clients that keep tripping the rate limiter.
package ban

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/shelf-locator/internal/redissvc"
	"github.com/sirupsen/logrus"
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int64     `json:"strikes"`
	Time    time.Time `json:"time"`
}

// StrikeStore persists strike counters and active bans.
type StrikeStore interface {
	// AddStrike increments the target's counter, starting a new window on
	// the first strike, and returns the count within the window.
	AddStrike(ctx context.Context, target string, window time.Duration) (int64, error)
	Ban(ctx context.Context, target string, d time.Duration) error
	IsBanned(ctx context.Context, target string) (bool, error)
	LogBan(ctx context.Context, entry BanLogEntry) error
}

const (
	strikeKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix    = "ratelimit:ban:"
	DailyBanLogKey  = "ratelimit:banlog:daily"
)

type RedisStrikeStore struct {
	rdb *redis.Client
}

func NewRedisStrikeStore(rs *redissvc.RedisService) *RedisStrikeStore {
	return &RedisStrikeStore{rdb: rs.Rdb()}
}

func (s *RedisStrikeStore) AddStrike(ctx context.Context, target string, window time.Duration) (int64, error) {
	key := strikeKeyPrefix + target
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *RedisStrikeStore) Ban(ctx context.Context, target string, d time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, banKeyPrefix+target, 1, d)
	pipe.Del(ctx, strikeKeyPrefix+target)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStrikeStore) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := s.rdb.Exists(ctx, banKeyPrefix+target).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStrikeStore) LogBan(ctx context.Context, entry BanLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

// MemoryStrikeStore keeps strikes in process; used when no redis is configured.
type MemoryStrikeStore struct {
	mu      sync.Mutex
	now     func() time.Time
	strikes map[string]strikeWindow
	bans    map[string]time.Time
	Log     []BanLogEntry
}

type strikeWindow struct {
	count   int64
	expires time.Time
}

func NewMemoryStrikeStore() *MemoryStrikeStore {
	return &MemoryStrikeStore{
		now:     time.Now,
		strikes: make(map[string]strikeWindow),
		bans:    make(map[string]time.Time),
	}
}

func (s *MemoryStrikeStore) AddStrike(_ context.Context, target string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.strikes[target]
	if !ok || now.After(w.expires) {
		w = strikeWindow{expires: now.Add(window)}
	}
	w.count++
	s.strikes[target] = w
	return w.count, nil
}

func (s *MemoryStrikeStore) Ban(_ context.Context, target string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[target] = s.now().Add(d)
	delete(s.strikes, target)
	return nil
}

func (s *MemoryStrikeStore) IsBanned(_ context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStrikeStore) LogBan(_ context.Context, entry BanLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log = append(s.Log, entry)
	return nil
}

// Banner converts strikes into timed bans.
type Banner struct {
	store      StrikeStore
	maxStrikes int64
	window     time.Duration
	duration   time.Duration
	log        logrus.FieldLogger
	onBan      func()
}

func NewBanner(store StrikeStore, maxStrikes int, window, duration time.Duration, log logrus.FieldLogger) *Banner {
	return &Banner{
		store:      store,
		maxStrikes: int64(maxStrikes),
		window:     window,
		duration:   duration,
		log:        log.WithField("component", "ban"),
		onBan:      func() {},
	}
}

// OnBan registers a hook run each time a client gets banned.
func (b *Banner) OnBan(fn func()) {
	b.onBan = fn
}

// Strike records one offence for target and bans it once the limit is hit
// within the window. It reports whether the target is now banned.
func (b *Banner) Strike(ctx context.Context, target, route string) bool {
	n, err := b.store.AddStrike(ctx, target, b.window)
	if err != nil {
		b.log.WithError(err).Warn("failed to record strike")
		return false
	}
	if n < b.maxStrikes {
		return false
	}
	if err := b.store.Ban(ctx, target, b.duration); err != nil {
		b.log.WithError(err).Warn("failed to ban client")
		return false
	}
	entry := BanLogEntry{Target: target, Route: route, Strikes: n, Time: time.Now()}
	if err := b.store.LogBan(ctx, entry); err != nil {
		b.log.WithError(err).Warn("failed to log ban")
	}
	b.log.WithFields(logrus.Fields{"target": target, "route": route, "strikes": n}).Warn("client banned")
	b.onBan()
	return true
}

// Middleware rejects requests from banned clients with 403. Store errors
// fail open.
func (b *Banner) Middleware(clientID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			banned, err := b.store.IsBanned(r.Context(), clientID(r))
			if err != nil {
				b.log.WithError(err).Warn("ban check failed")
			}
			if banned {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"too many requests, temporarily banned"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
