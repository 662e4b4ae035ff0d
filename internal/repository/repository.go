package repository

import (
	"errors"

	"github.com/navikt/roomboard/internal/config"
)

// Constructor hooks registered by factory.go. Indirection keeps this
// package importable by the backends without a cycle.
var (
	newRedisRepository  func(cfg config.RedisConfig) (Repository, error)
	newMemoryRepository func() Repository
)

// NewRepository selects a backend from configuration: Redis when enabled,
// otherwise the in-memory store.
func NewRepository(cfg config.RedisConfig) (Repository, error) {
	if cfg.Enabled {
		if newRedisRepository == nil {
			return nil, errors.New("redis repository not registered")
		}
		return newRedisRepository(cfg)
	}

	if newMemoryRepository == nil {
		return nil, errors.New("memory repository not registered")
	}
	return newMemoryRepository(), nil
}
