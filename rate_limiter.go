package rest

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/cardline/portal-rest/helpers"
	"github.com/cardline/portal-rest/http_errors"
)

var ctx = context.Background()

func newRedisClient() *redis.Client {
	redisHost := helpers.GetEnv("REDIS_HOST", "localhost")
	redisPort := helpers.GetEnv("REDIS_PORT", "6379")
	redisPassword := helpers.GetEnv("REDIS_PASSWORD", "")

	return redis.NewClient(&redis.Options{
		Addr:     redisHost + ":" + redisPort,
		Password: redisPassword,
		DB:       1, // Use database 1 for rate limiting
	})
}

// checkRateLimit applies the endpoint's rate limit keyed by endpoint name and
// client IP. Counters live in redis so the limit holds across replicas.
func checkRateLimit(e *EndpointContext) error {
	redisClient := e.App.redisClient
	rateLimiter := e.Endpoint.RateLimiter

	if rateLimiter == nil || redisClient == nil {
		return nil
	}

	rateLimit := e.Endpoint.RateLimiter(e)

	ip := e.IpAddress
	name := e.Endpoint.Name

	key := name + "_" + ip
	if rateLimit.Key != "" {
		key = rateLimit.Key
	}

	pipe := redisClient.TxPipeline()
	incrCmd := pipe.Incr(ctx, key)
	expireCmd := pipe.ExpireNX(ctx, key, rateLimit.Window)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return err
	}

	count, err := incrCmd.Result()
	if err != nil {
		return err
	}

	_, err = expireCmd.Result()
	if err != nil {
		return err
	}

	if count > int64(rateLimit.Max) {
		log.Warnf("Rate limit exceeded for %s: %d requests", key, count)
		return http_errors.TooManyRequestsError("Too many requests, slow down")
	}

	return nil
}
