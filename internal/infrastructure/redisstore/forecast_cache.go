package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

var _ ports.ForecastService = (*CachedForecast)(nil)

const forecastPrefix = "inventario:prediccion:"

// KV almacenamiento clave/valor con expiración. *Cache lo implementa sobre Redis.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache KV sobre go-redis.
type Cache struct {
	rdb *redis.Client
}

// NewCache envuelve un cliente conectado.
func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Get devuelve (nil, false, nil) si la clave no existe.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedForecast decora un ForecastService guardando solo resultados disponibles.
// Redis es una optimización: si falla se consulta directamente al servicio.
type CachedForecast struct {
	inner ports.ForecastService
	kv    KV
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedForecast construye el decorador.
func NewCachedForecast(inner ports.ForecastService, kv KV, ttl time.Duration, log *logger.Logger) *CachedForecast {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedForecast{inner: inner, kv: kv, ttl: ttl, log: log}
}

func (c *CachedForecast) Predict(ctx context.Context, itemID string) dto.ForecastResult {
	key := forecastPrefix + "insumo:" + itemID
	var cached dto.ForecastResult
	if c.load(ctx, key, &cached) {
		return cached
	}
	res := c.inner.Predict(ctx, itemID)
	if res.Available {
		c.store(ctx, key, res)
	}
	return res
}

func (c *CachedForecast) Precision(ctx context.Context) dto.PrecisionResult {
	key := forecastPrefix + "precision"
	var cached dto.PrecisionResult
	if c.load(ctx, key, &cached) {
		return cached
	}
	res := c.inner.Precision(ctx)
	if res.Available {
		c.store(ctx, key, res)
	}
	return res
}

func (c *CachedForecast) load(ctx context.Context, key string, dest any) bool {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("clave", key).Msg("caché de predicción no disponible")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (c *CachedForecast) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("clave", key).Msg("no se pudo guardar en caché")
	}
}
