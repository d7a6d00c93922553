package drift

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nonibytes/searchfields/pkg/searchfields/partition"
)

// Cache memoizes drift results.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, res Result) error
}

// CacheKey identifies a scan by partition template, the partitions scanned
// and a fingerprint of the known paths, so a schema change misses the cache.
func CacheKey(tmpl partition.Template, indices []string, known map[string]struct{}) string {
	paths := make([]string, 0, len(known))
	for p := range known {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	sum := xxhash.Sum64String(strings.Join(paths, "\n"))

	return "searchfields:drift:" + string(tmpl) + ":" + strings.Join(indices, ",") + ":" +
		strconv.FormatUint(sum, 16)
}

// kv is the subset of *redis.Client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type RedisCache struct {
	client kv
	closer func() error
	TTL    time.Duration
}

const DefaultCacheTTL = 15 * time.Minute

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: rdb, closer: rdb.Close, TTL: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, false, err
	}
	return res, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.TTL).Err()
}

func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
