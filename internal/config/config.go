package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
	// RO rejects every non-GET request
	Mode string
}

type RedisCache struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Migrate creates missing tables on startup
	Migrate bool
}

type Voting struct {
	QueueCacheTTL time.Duration
	QueueCacheKey string
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	Voting   Voting
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Voting:   *newVoting(),
	}

	log.Printf("%s backend config : %+v\n", logtag, redacted(*cfg))
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
		Mode: getenv("HTTP_MODE", "RW"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Enabled:  getbool("REDIS_ENABLED", true),
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", "shared"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "wannawatch"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
		Migrate:  getbool("DB_MIGRATE", true),
	}
}

func newVoting() *Voting {
	return &Voting{
		QueueCacheTTL: getduration("QUEUE_CACHE_TTL", 10*time.Minute),
		QueueCacheKey: getenv("QUEUE_CACHE_KEY", "voted_set"),
	}
}

func redacted(cfg Config) Config {
	if cfg.Postgres.Password != "" {
		cfg.Postgres.Password = "***"
	}
	if cfg.Redis.Password != "" {
		cfg.Redis.Password = "***"
	}
	return cfg
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getbool(key string, defaultValue bool) bool {
	val, err := strconv.ParseBool(getenv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		fmt.Printf("%s %s is not a bool. Using default value %t\n", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	val, err := time.ParseDuration(getenv(key, defaultValue.String()))
	if err != nil || val <= 0 {
		fmt.Printf("%s %s is not a valid duration. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}
