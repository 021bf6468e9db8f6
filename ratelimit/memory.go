package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory is a per process token bucket per key. A key may burst up to max requests, after
// which it earns one request back every window/max.
type Memory struct {
	max      int
	window   time.Duration
	nowTime  func() time.Time
	lock     sync.Mutex
	visitors map[string]*visitor
}

var _ Limiter = (*Memory)(nil)

type MemoryOption func(*Memory)

func WithNowTime(nowTime func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.nowTime = nowTime
	}
}

func NewMemory(max int, window time.Duration, options ...MemoryOption) *Memory {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = DefaultWindow
	}
	m := &Memory{
		max:      max,
		window:   window,
		nowTime:  time.Now,
		visitors: make(map[string]*visitor),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.nowTime()

	m.lock.Lock()
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(m.window/time.Duration(m.max)), m.max)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	m.lock.Unlock()

	return v.limiter.AllowN(now, 1), nil
}

// Cleanup forgets keys idle for longer than the window, whose buckets are full again anyway.
func (m *Memory) Cleanup() int {
	now := m.nowTime()
	m.lock.Lock()
	defer m.lock.Unlock()

	removed := 0
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.window {
			delete(m.visitors, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}
