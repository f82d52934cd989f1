// Package cache keeps the most recent reading per station in Redis for
// cheap dashboard lookups. The cache is strictly best-effort: every
// failure is logged and swallowed, ingestion never depends on it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aquawatch/aquawatch/internal/config"
	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
)

const latestTTL = 24 * time.Hour

// LatestReadings caches the newest reading per station.
type LatestReadings struct {
	client *redis.Client
	logger *logger.Logger
}

// New creates a latest-reading cache. Returns nil when Redis is
// disabled; all methods are nil-safe.
func New(cfg config.RedisConfig, log *logger.Logger) *LatestReadings {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &LatestReadings{client: client, logger: log}
}

func key(stationID string) string {
	return "latest_reading:" + stationID
}

// Set stores r as the latest reading for its station.
func (c *LatestReadings) Set(ctx context.Context, r *reading.Reading) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(r)
	if err != nil {
		c.logger.ErrorWithErr(err, "Failed to marshal reading for cache")
		return
	}

	if err := c.client.Set(ctx, key(r.StationID), payload, latestTTL).Err(); err != nil {
		c.logger.With("station_id", r.StationID).WithError(err).Warn("Failed to cache latest reading")
	}
}

// Get returns the cached latest reading for a station, or nil on miss
// or any cache failure.
func (c *LatestReadings) Get(ctx context.Context, stationID string) *reading.Reading {
	if c == nil {
		return nil
	}

	payload, err := c.client.Get(ctx, key(stationID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.With("station_id", stationID).WithError(err).Warn("Failed to read latest reading from cache")
		}
		return nil
	}

	var r reading.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		c.logger.ErrorWithErr(err, "Failed to unmarshal cached reading")
		return nil
	}
	return &r
}

// Close releases the Redis connection
func (c *LatestReadings) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
