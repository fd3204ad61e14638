// Package cache keeps compiled models in the per-user application data
// directory, keyed by a digest of the source project.
package cache

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/eak1mov/go-libworld/flat"
	"github.com/eak1mov/go-libworld/flat/spec"
	"github.com/eak1mov/go-libworld/world"
	"github.com/quasilyte/gdata"
)

type Cache struct {
	manager *gdata.Manager
	logger  *slog.Logger
}

type cacheOptions struct {
	logger *slog.Logger
}

type Option func(*cacheOptions)

func WithLogger(logger *slog.Logger) Option {
	return func(o *cacheOptions) {
		o.logger = logger
	}
}

func Open(appName string, opts ...Option) (*Cache, error) {
	options := cacheOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&options)
	}

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("libworld: open cache: %w", err)
	}
	return &Cache{manager: manager, logger: options.logger}, nil
}

// Key identifies the model compiled from project with gridSize.
func Key(project []byte, gridSize int32) string {
	h := md5.New()
	h.Write([]byte{spec.HeaderVersion})
	binary.Write(h, binary.LittleEndian, gridSize)
	h.Write(project)
	return hex.EncodeToString(h.Sum(nil))
}

// Load returns the cached model. A missing entry is not an error.
func (c *Cache) Load(key string) (*world.LevelModel, bool, error) {
	data, err := c.manager.LoadItem(key)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		c.logger.Debug("libworld: cache miss", "key", key)
		return nil, false, nil
	}
	model, err := flat.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("libworld: cache entry %s: %w", key, err)
	}
	c.logger.Debug("libworld: cache hit", "key", key, "bytes", len(data))
	return model, true, nil
}

func (c *Cache) Save(key string, model *world.LevelModel) error {
	data, err := flat.Encode(model, spec.CodecMsgpack, spec.CompressionGzip)
	if err != nil {
		return err
	}
	return c.manager.SaveItem(key, data)
}

// Forget drops the entry. Forgetting a missing entry is fine.
func (c *Cache) Forget(key string) error {
	return c.manager.SaveItem(key, nil)
}
