package global

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/config"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/operators"
	"github.com/travigo/etastation/pkg/redis_client"
)

// Setup builds the shared fetch client and the operator registry from the
// settings file. The redis response cache is only connected when enabled.
func Setup(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*operators.Registry, error) {
	clientOptions := []fetch.Option{
		fetch.WithTimeout(cfg.HTTP.Timeout),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
		fetch.WithLogger(logger),
	}

	if cfg.Cache.Redis {
		redisClient, err := redis_client.Connect(ctx, cfg.Cache.Address, logger)
		if err != nil {
			return nil, err
		}

		clientOptions = append(clientOptions, fetch.WithCache(fetch.NewRedisCache(redisClient, cfg.Cache.TTL, logger)))
	}

	return operators.Setup(operators.Settings{
		DataDir:    cfg.DataDir,
		Client:     fetch.NewClient(clientOptions...),
		Logger:     logger,
		Location:   cfg.Location(),
		Thresholds: cfg.Metadata.Thresholds,
	})
}
