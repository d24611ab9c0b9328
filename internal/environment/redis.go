package environment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rail-risk-go/pkg/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "railrisk:"

// RedisCache - межзапросный кеш окружений в Redis. Значения хранятся в JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisCache подключается к Redis и проверяет соединение
func NewRedisCache(addr, password string, db int, ttl time.Duration, logger *logrus.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl, logger: logger}, nil
}

// Close закрывает соединение с Redis
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(k string) string {
	return redisKeyPrefix + k
}

// Get возвращает окружение по ключу. Отсутствие ключа не является ошибкой.
func (c *RedisCache) Get(ctx context.Context, key string) (models.Environment, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debugf("cache miss: %s", key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var env models.Environment
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, fmt.Errorf("json unmarshal: %w", err)
	}
	c.logger.Debugf("cache hit: %s (%d bytes)", key, len(data))
	return env, true, nil
}

// Set сохраняет окружение с TTL кеша
func (c *RedisCache) Set(ctx context.Context, key string, env models.Environment) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping проверяет доступность Redis
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
