package io

import (
	"context"
	"os"
	"sync"

	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IONarrativeLoader loads narratives directly from the local filesystem with caching.
type IONarrativeLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIONarrativeLoader creates a new filesystem-based narrative loader.
func NewIONarrativeLoader() *IONarrativeLoader {
	return &IONarrativeLoader{
		cache: make(map[string][]byte),
	}
}

// GetText reads the file content from the filesystem. Results are cached.
func (l *IONarrativeLoader) GetText(ctx context.Context, src loader.Source) ([]byte, error) {
	key := loader.CacheKey(src)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := os.ReadFile(src.Location)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
