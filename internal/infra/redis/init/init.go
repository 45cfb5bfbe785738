package infra_redis_init

import (
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/wannawatch/core/internal/config"
)

// MustEstablishConn returns nil when the queue cache is disabled.
func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	if !cfg.Enabled {
		log.Println("[redis] queue cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	if err := client.Ping().Err(); err != nil {
		log.Fatal("redis ping failed", err)
	}

	return client
}
