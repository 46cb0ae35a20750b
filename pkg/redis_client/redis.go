package redis_client

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/util"
)

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const connectTimeout = 15 * time.Second

// Connect builds a client from the ETASTATION_REDIS_* environment variables,
// falling back to address if the environment does not set one. The initial
// ping is retried with an exponential backoff.
func Connect(ctx context.Context, address string, logger zerolog.Logger) (*redis.Client, error) {
	password := defaultConnectionPassword
	database := defaultDatabase

	if address == "" {
		address = defaultConnectionAddress
	}

	env := util.GetEnvironmentVariables()

	if env["ETASTATION_REDIS_ADDRESS"] != "" {
		address = env["ETASTATION_REDIS_ADDRESS"]
	}

	if env["ETASTATION_REDIS_PASSWORD"] != "" {
		password = env["ETASTATION_REDIS_PASSWORD"]
	}

	if env["ETASTATION_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["ETASTATION_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return nil, err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = connectTimeout

	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(retryBackoff, ctx), func(err error, wait time.Duration) {
		logger.Warn().Err(err).Str("address", address).Str("retry", wait.String()).Msg("Redis not reachable yet")
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	logger.Info().Msgf("Redis client setup for %s", address)

	return client, nil
}
