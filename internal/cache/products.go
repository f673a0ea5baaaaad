// Package cache is a best-effort read-through cache for product listings.
// Redis being down or unconfigured only means every read is a miss; the
// database remains the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const listingTTL = 60 * time.Second

type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(addr, password string, db int) (*ProductCache, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &ProductCache{rdb: rdb}, nil
}

func pageKey(offset, limit int, categoryID uint) string {
	return fmt.Sprintf("products:page:%d:%d:%d", offset, limit, categoryID)
}

func (c *ProductCache) GetPage(ctx context.Context, offset, limit int, categoryID uint) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, pageKey(offset, limit, categoryID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *ProductCache) SetPage(ctx context.Context, offset, limit int, categoryID uint, page any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, pageKey(offset, limit, categoryID), data, listingTTL)
}

// InvalidateListings drops every cached page after an admin product change.
func (c *ProductCache) InvalidateListings(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, "products:page:*", 100).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
