package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/tollcalc/pkg/config"
)

// Client holds the optional Redis connection backing the distance and rate caches.
// The zero value is a disabled client.
type Client struct {
	rdb     *redis.Client
	addr    string
	enabled bool
}

// Addr formats the host:port pair from cfg
func Addr(cfg config.RedisConfig) string {
	return net.JoinHostPort(cfg.Host, cfg.Port)
}

// New connects and pings Redis. A disabled config yields a no-op client.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	addr := Addr(cfg.Redis)
	if !cfg.Redis.Enabled {
		return &Client{addr: addr}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}

	return &Client{rdb: rdb, addr: addr, enabled: true}, nil
}

// Ping round-trips to the server and reports the latency.
// A disabled client returns zero and no error.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	if !c.Enabled() {
		return 0, nil
	}
	start := time.Now()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("redis %s: %w", c.addr, err)
	}
	return time.Since(start), nil
}

func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

func (c *Client) Enabled() bool {
	return c.enabled && c.rdb != nil
}

// Address is the configured host:port, set even when disabled
func (c *Client) Address() string {
	return c.addr
}

// Redis exposes the underlying client; nil when disabled.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
