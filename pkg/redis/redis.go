package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/fictionhub-backend/config"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	pendingViewsKey  = "book:views:pending"
	flushingViewsKey = "book:views:flushing:%d"
	blacklistPrefix  = "blacklist:"

	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

var ErrNotConfigured = errors.New("redis client is not configured")

var client *redis.Client

// Init connects to the configured server and keeps the client only if PING succeeds
func Init(cfg *config.RedisConfig) error {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}

	client = c
	logger.Info("Redis connected", logger.Fields{"addr": addr, "db": cfg.DB})
	return nil
}

// SetClient swaps the package client; tests point it at miniredis
func SetClient(c *redis.Client) {
	client = c
}

func Enabled() bool {
	return client != nil
}

func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// tokens are stored by digest so raw JWTs never appear in the keyspace
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}

// BlacklistToken marks token as revoked until expiry elapses
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return ErrNotConfigured
	}
	if expiry <= 0 {
		return nil
	}
	return client.Set(ctx, blacklistKey(token), 1, expiry).Err()
}

// IsTokenBlacklisted reports false without error when Redis is not configured
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}
	n, err := client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementBookView buffers one view for the book
func IncrementBookView(ctx context.Context, bookID uint) error {
	if client == nil {
		return ErrNotConfigured
	}
	return client.HIncrBy(ctx, pendingViewsKey, strconv.FormatUint(uint64(bookID), 10), 1).Err()
}

// DrainBookViews atomically takes the buffered view counts.
// Views recorded while draining land in a fresh pending hash.
func DrainBookViews(ctx context.Context) (map[uint]int64, error) {
	deltas := map[uint]int64{}
	if client == nil {
		return deltas, ErrNotConfigured
	}

	flushKey := fmt.Sprintf(flushingViewsKey, time.Now().UnixNano())
	if err := client.Rename(ctx, pendingViewsKey, flushKey).Err(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return deltas, nil
		}
		return nil, err
	}

	raw, err := client.HGetAll(ctx, flushKey).Result()
	if err != nil {
		return nil, err
	}
	if err := client.Del(ctx, flushKey).Err(); err != nil {
		logger.Warn("Failed to remove drained view hash", map[string]interface{}{
			"key":   flushKey,
			"error": err.Error(),
		})
	}

	for field, value := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		deltas[uint(id)] = n
	}
	return deltas, nil
}

// RestoreBookViews puts drained counts back after a failed flush
func RestoreBookViews(ctx context.Context, deltas map[uint]int64) error {
	if client == nil {
		return ErrNotConfigured
	}
	if len(deltas) == 0 {
		return nil
	}
	pipe := client.TxPipeline()
	for id, n := range deltas {
		pipe.HIncrBy(ctx, pendingViewsKey, strconv.FormatUint(uint64(id), 10), n)
	}
	_, err := pipe.Exec(ctx)
	return err
}
