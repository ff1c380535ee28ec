package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"hospital/internal/pkg/logger"
)

// Client define o contrato do cache usado pelo rate limiter de login.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// IncrWindow incrementa o contador e garante que a chave expire em window,
	// contado a partir do primeiro incremento. Retorna o valor já incrementado.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = redis.Nil

// RedisClient é a implementação concreta da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient cria o cliente Redis. Uma falha no PING é apenas registrada:
// o cliente reconecta sozinho e o rate limiter responde 500 enquanto o Redis estiver fora.
func NewRedisClient(addr string, log logger.Logger) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis indisponível no startup.", map[string]interface{}{"addr": addr, "error": err.Error()})
	}

	return &RedisClient{rdb: rdb}
}

// Get recupera o valor associado a uma chave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set define um valor para uma chave com um tempo de expiração.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// incrWindowScript faz INCR e define o TTL numa única operação atômica.
// Uma chave sem TTL (PTTL < 0) recebe o TTL da janela, inclusive se sobrou de
// uma versão anterior sem expiração.
var incrWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// IncrWindow incrementa o contador da janela de forma atômica.
func (c *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrWindowScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64()
}

// Delete remove uma chave do cache.
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close encerra o pool de conexões do Redis.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
