package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"example.com/logistics/services/odv/config"
	"example.com/logistics/services/odv/internal/model"
)

// CacheClient defines the interface for cache operations
type CacheClient interface {
	// Service record caching methods
	GetServicio(ctx context.Context, id uint) (*model.Servicio, error)
	SetServicio(ctx context.Context, servicio *model.Servicio) error
	DeleteServicio(ctx context.Context, id uint) error

	// Catalog caching methods
	GetItemCatalogo(ctx context.Context, catalogo model.Catalogo, codigo uint) (*model.ItemCatalogo, error)
	SetItemCatalogo(ctx context.Context, item *model.ItemCatalogo) error

	// Clear all cache
	FlushAll(ctx context.Context) error
}

// RedisClient implements CacheClient using Redis
type RedisClient struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig) (CacheClient, error) {
	if !cfg.Enabled {
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:  client,
		enabled: true,
		ttl:     time.Hour, // Default TTL
	}, nil
}

// Prefix keys to avoid collisions
func servicioKey(id uint) string {
	return fmt.Sprintf("servicio:%d", id)
}

func catalogoKey(catalogo model.Catalogo, codigo uint) string {
	return fmt.Sprintf("catalogo:%s:%d", catalogo, codigo)
}

// GetServicio retrieves a service record from cache
func (c *RedisClient) GetServicio(ctx context.Context, id uint) (*model.Servicio, error) {
	if !c.enabled {
		return nil, redis.Nil
	}

	data, err := c.client.Get(ctx, servicioKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var servicio model.Servicio
	if err := json.Unmarshal(data, &servicio); err != nil {
		return nil, err
	}

	return &servicio, nil
}

// SetServicio caches a service record
func (c *RedisClient) SetServicio(ctx context.Context, servicio *model.Servicio) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(servicio)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, servicioKey(servicio.ID), data, c.ttl).Err()
}

// DeleteServicio removes a service record from cache
func (c *RedisClient) DeleteServicio(ctx context.Context, id uint) error {
	if !c.enabled {
		return nil
	}

	return c.client.Del(ctx, servicioKey(id)).Err()
}

// GetItemCatalogo retrieves a catalog entry from cache
func (c *RedisClient) GetItemCatalogo(ctx context.Context, catalogo model.Catalogo, codigo uint) (*model.ItemCatalogo, error) {
	if !c.enabled {
		return nil, redis.Nil
	}

	data, err := c.client.Get(ctx, catalogoKey(catalogo, codigo)).Bytes()
	if err != nil {
		return nil, err
	}

	var item model.ItemCatalogo
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// SetItemCatalogo caches a catalog entry. Catalogs are static reference
// data, so entries are kept for a full day.
func (c *RedisClient) SetItemCatalogo(ctx context.Context, item *model.ItemCatalogo) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, catalogoKey(item.Catalogo, item.Codigo), data, 24*time.Hour).Err()
}

// FlushAll clears all cache
func (c *RedisClient) FlushAll(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	return c.client.FlushAll(ctx).Err()
}
