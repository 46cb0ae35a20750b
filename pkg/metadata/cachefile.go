package metadata

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// cacheFile is one envelope on disk, read lazily and rebuilt wholesale
// once stale
type cacheFile[T any] struct {
	path      string
	threshold int
	options   Options
	logger    zerolog.Logger
	build     func(ctx context.Context) (T, error)

	mutex       sync.Mutex
	loaded      *Envelope[T]
	read        bool
	lastAttempt time.Time
}

func newCacheFile[T any](path string, threshold int, options Options, logger zerolog.Logger, build func(ctx context.Context) (T, error)) *cacheFile[T] {
	return &cacheFile[T]{
		path:      path,
		threshold: threshold,
		options:   options,
		logger:    logger.With().Str("path", path).Logger(),
		build:     build,
	}
}

func (c *cacheFile[T]) isStale() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.readLocked()
	return IsStale(c.loaded, c.threshold, c.options.now())
}

func (c *cacheFile[T]) rebuild(ctx context.Context) (T, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.rebuildLocked(ctx)
}

func (c *cacheFile[T]) rebuildLocked(ctx context.Context) (T, error) {
	var empty T
	c.lastAttempt = c.options.now()

	data, err := c.build(ctx)
	if err != nil {
		return empty, err
	}

	envelope := NewEnvelope(data, c.options.now())
	if err := WriteEnvelope(c.path, envelope); err != nil {
		return empty, err
	}

	c.loaded = envelope
	c.read = true

	c.logger.Debug().Msg("Cache file rebuilt")

	return data, nil
}

func (c *cacheFile[T]) readLocked() {
	if c.read {
		return
	}
	c.read = true

	envelope, err := ReadEnvelope[T](c.path)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read cache file")
		return
	}
	c.loaded = envelope
}

// get returns the cached data, rebuilding it first when stale. A failed
// rebuild falls back to the last good copy if there is one.
func (c *cacheFile[T]) get(ctx context.Context) (T, bool) {
	var empty T

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.readLocked()

	now := c.options.now()
	if IsStale(c.loaded, c.threshold, now) && now.Sub(c.lastAttempt) >= rebuildBackoff {
		data, err := c.rebuildLocked(ctx)
		if err == nil {
			return data, true
		}

		if c.loaded != nil {
			c.logger.Warn().Err(err).Str("lastupdate", c.loaded.LastUpdate).Msg("Rebuild failed, using stale cache")
		} else {
			c.logger.Warn().Err(err).Msg("Rebuild failed and nothing is cached")
		}
	}

	if c.loaded == nil {
		return empty, false
	}
	return c.loaded.Data, true
}
