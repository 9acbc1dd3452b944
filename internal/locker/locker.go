// Package locker предоставляет блокировки на пару «филиал + продукция» на время продажи.
package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

// ErrNotObtained возвращается, если блокировку не удалось получить за отведённое время.
var ErrNotObtained = errors.New("stock lock not obtained")

// Locker захватывает блокировку на остатки продукции филиала.
type Locker interface {
	Lock(ctx context.Context, branch model.Branch, produceName string) (func(), error)
}

// Key возвращает ключ блокировки для филиала и продукции.
func Key(branch model.Branch, produceName string) string {
	return "kgl:stock:" + string(branch) + ":" + strings.ToLower(strings.TrimSpace(produceName))
}

// Noop не выполняет блокировку. Корректность обеспечивается условным списанием в хранилище.
type Noop struct{}

// Lock возвращает пустую функцию освобождения.
func (Noop) Lock(context.Context, model.Branch, string) (func(), error) {
	return func() {}, nil
}

// RedisLocker реализует Locker поверх Redis.
type RedisLocker struct {
	client *redis.Client
	locks  *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker подключается к Redis и проверяет соединение.
func NewRedisLocker(addr, password string, db int) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisLocker{
		client: client,
		locks:  redislock.New(client),
		ttl:    10 * time.Second,
		wait:   3 * time.Second,
	}, nil
}

// Lock ожидает блокировку не дольше wait и возвращает функцию её освобождения.
func (l *RedisLocker) Lock(ctx context.Context, branch model.Branch, produceName string) (func(), error) {
	obtainCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lock, err := l.locks.Obtain(obtainCtx, Key(branch, produceName), l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(50 * time.Millisecond),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrNotObtained
		}
		return nil, fmt.Errorf("obtain lock: %w", err)
	}

	return func() {
		_ = lock.Release(context.Background())
	}, nil
}

// Close закрывает соединение с Redis.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
