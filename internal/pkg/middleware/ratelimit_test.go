package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/pkg/cache"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/middleware"
)

// windowCache é um cache.Client em memória com TTL e relógio controlado,
// seguindo a semântica do Redis: chave expirada deixa de existir.
type windowCache struct {
	now     time.Time
	values  map[string]int64
	expires map[string]time.Time
	err     error
}

func newWindowCache() *windowCache {
	return &windowCache{
		now:     time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		values:  map[string]int64{},
		expires: map[string]time.Time{},
	}
}

func (m *windowCache) advance(d time.Duration) { m.now = m.now.Add(d) }

func (m *windowCache) evict(key string) {
	if exp, ok := m.expires[key]; ok && !m.now.Before(exp) {
		delete(m.values, key)
		delete(m.expires, key)
	}
}

func (m *windowCache) Get(_ context.Context, key string) (string, error) {
	m.evict(key)
	n, ok := m.values[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return strconv.FormatInt(n, 10), nil
}

func (m *windowCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = int64(value.(int))
	if ttl > 0 {
		m.expires[key] = m.now.Add(ttl)
	}
	return nil
}

func (m *windowCache) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.evict(key)
	m.values[key]++
	if _, ok := m.expires[key]; !ok {
		m.expires[key] = m.now.Add(window)
	}
	return m.values[key], nil
}

func (m *windowCache) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	delete(m.expires, key)
	return nil
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func hit(h http.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	c := newWindowCache()
	limited := middleware.RateLimiter(c, 3, time.Minute, logger.NewNop())(okHandler)

	codes := make([]int, 0, 4)
	remaining := make([]string, 0, 3)
	for i := 0; i < 4; i++ {
		rec := hit(limited, "10.0.0.1:5555")
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusOK {
			remaining = append(remaining, rec.Header().Get("X-RateLimit-Remaining"))
		}
	}

	assert.Equal(t, []int{200, 200, 200, 429}, codes)
	assert.Equal(t, []string{"2", "1", "0"}, remaining)

	// Outro IP tem o próprio contador.
	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.2:5555").Code)
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	c := newWindowCache()
	limited := middleware.RateLimiter(c, 2, time.Minute, logger.NewNop())(okHandler)
	const addr = "10.0.0.1:5555"

	assert.Equal(t, http.StatusOK, hit(limited, addr).Code)

	// A janela começa no primeiro incremento e sempre tem expiração.
	exp, ok := c.expires["rate-limit:10.0.0.1"]
	require.True(t, ok)
	assert.Equal(t, c.now.Add(time.Minute), exp)

	c.advance(30 * time.Second)
	assert.Equal(t, http.StatusOK, hit(limited, addr).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, addr).Code)

	// Bloqueios não estendem a janela.
	c.advance(31 * time.Second)
	assert.Equal(t, http.StatusOK, hit(limited, addr).Code)
	assert.Equal(t, http.StatusOK, hit(limited, addr).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, addr).Code)

	c.advance(24 * time.Hour)
	assert.Equal(t, http.StatusOK, hit(limited, addr).Code)
}

func TestRateLimiter_CacheFailure(t *testing.T) {
	c := newWindowCache()
	c.err = errors.New("redis fora do ar")
	limited := middleware.RateLimiter(c, 3, time.Minute, logger.NewNop())(okHandler)

	assert.Equal(t, http.StatusInternalServerError, hit(limited, "10.0.0.1:5555").Code)
}
