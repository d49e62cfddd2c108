package scheduler

import (
	"crypto/tls"
	"errors"

	"raf_pnp_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "default"

var errRedisNotConfigured = errors.New("REDIS_URL is not configured")

// redisConnOpt turns REDIS_URL into asynq connection options. rediss://
// URLs get TLS; REDIS_TLS_INSECURE skips certificate checks for managed
// Redis with self-signed certificates.
func redisConnOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	if cfg.GetRedisURL() == "" {
		return asynq.RedisClientOpt{}, errRedisNotConfigured
	}
	parsed, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	tlsConfig := parsed.TLSConfig
	if cfg.GetRedisTLSInsecure() {
		if tlsConfig == nil {
			tlsConfig = &tls.Config{}
		} else {
			tlsConfig = tlsConfig.Clone()
		}
		tlsConfig.InsecureSkipVerify = true
	}

	return asynq.RedisClientOpt{
		Addr:      parsed.Addr,
		Username:  parsed.Username,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: tlsConfig,
	}, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return defaultQueue
}
