package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/upb/spaces-control-plane/config"
)

// Cmdable is the subset of go-redis the repositories in this package need
type Cmdable = goredis.Cmdable

// Client wraps a go-redis client
type Client struct {
	RDB *goredis.Client
}

// NewClient creates a new Redis client configured from cfg
func NewClient(cfg config.RedisConfig) *Client {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &Client{RDB: rdb}
}

// Ping checks that the server is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.RDB.Ping(ctx).Err()
}

// Close releases the underlying Redis connection
func (c *Client) Close() error {
	return c.RDB.Close()
}
