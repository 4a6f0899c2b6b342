package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent; callers fall back to the database.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

const pricesKey = "prices:cylinder"

// Price cache

func (c *Client) GetPrices() (map[string]float64, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, pricesKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached prices: %w", err)
	}

	prices := map[string]float64{}
	if err := json.Unmarshal([]byte(val), &prices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached prices: %w", err)
	}

	return prices, nil
}

func (c *Client) SetPrices(prices map[string]float64, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("failed to marshal prices: %w", err)
	}

	return c.rdb.Set(ctx, pricesKey, jsonData, ttl).Err()
}

func (c *Client) InvalidatePrices() error {
	ctx := context.Background()
	return c.rdb.Del(ctx, pricesKey).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
