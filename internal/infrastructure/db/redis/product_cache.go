package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/order-service/internal/core/domain"
)

// defaultFillFence is how long fills are refused after an invalidation. A
// read that loaded the row before a write committed must finish its fill
// inside this window or be dropped.
const defaultFillFence = 5 * time.Second

// fillScript writes KEYS[1] unless the fence KEYS[2] is present.
var fillScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// ProductCache implements ports.ProductCache on top of Redis.
// Keys: product:<id> holds the JSON row, product:<id>:fence blocks fills
// for a short time after the row changed.
type ProductCache struct {
	client *redis.Client
	fence  time.Duration
}

// NewProductCache creates a ProductCache wrapping the given Redis client.
func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client, fence: defaultFillFence}
}

// Get returns the cached product. A miss is reported with ok=false and a nil error.
func (c *ProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("product cache get: %w", err)
	}

	p, err := decodeProduct(raw)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Set stores the product for ttl. The write is skipped while the product is
// fenced by a recent Invalidate, so a stale row read before an update cannot
// be cached after it.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("product cache set: ttl must be positive, got %s", ttl)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("product cache encode: %w", err)
	}
	keys := []string{productKey(p.ID), fenceKey(p.ID)}
	if err := fillScript.Run(ctx, c.client, keys, raw, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("product cache set: %w", err)
	}
	return nil
}

// Invalidate drops the given products and fences them against refills.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, productKey(id))
			pipe.Set(ctx, fenceKey(id), 1, c.fence)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("product cache invalidate: %w", err)
	}
	return nil
}

func decodeProduct(raw []byte) (*domain.Product, error) {
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("product cache decode: %w", err)
	}
	return &p, nil
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func fenceKey(id int64) string {
	return productKey(id) + ":fence"
}
