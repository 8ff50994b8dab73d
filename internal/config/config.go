package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends for completion results.
const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendSQLite    = "sqlite"
	BackendCassandra = "cassandra"
)

// Config holds all configuration for the application
type Config struct {
	Host         string
	Port         string
	LogLevel     string
	StoreBackend string
	DefaultSeed  int64
	Redis        RedisConfig
	SQLitePath   string
	Cassandra    CassandraConfig
	Game         GameConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// CassandraConfig holds Cassandra-specific configuration
type CassandraConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	Consistency string
	Timeout     time.Duration
}

// GameConfig holds the timings handed to every mounted simulator.
type GameConfig struct {
	SwapDelay      time.Duration
	Memorize       time.Duration
	QueueCountdown time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	backend := strings.ToLower(getEnv("STORE_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendCassandra:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND value %q", backend)
	}

	defaultSeed, err := strconv.ParseInt(getEnv("DEFAULT_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SEED value: %w", err)
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	resultTTL, err := getInt("RESULT_TTL_SECONDS", 0)
	if err != nil {
		return nil, err
	}

	cassandraTimeout, err := getInt("CASSANDRA_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	swapDelay, err := getInt("SWAP_DELAY_MS", 400)
	if err != nil {
		return nil, err
	}
	memorize, err := getInt("MEMORIZE_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	countdown, err := getInt("QUEUE_COUNTDOWN_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if countdown <= 0 {
		return nil, fmt.Errorf("QUEUE_COUNTDOWN_SECONDS must be positive")
	}

	return &Config{
		Host:         getEnv("HOST", "0.0.0.0"),
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		StoreBackend: backend,
		DefaultSeed:  defaultSeed,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      time.Duration(resultTTL) * time.Second,
		},
		SQLitePath: getEnv("SQLITE_PATH", "algosim.db"),
		Cassandra: CassandraConfig{
			Hosts:       parseHosts(getEnv("CASSANDRA_HOSTS", "localhost:9042")),
			Keyspace:    getEnv("CASSANDRA_KEYSPACE", "algosim"),
			Username:    getEnv("CASSANDRA_USERNAME", ""),
			Password:    getEnv("CASSANDRA_PASSWORD", ""),
			Consistency: getEnv("CASSANDRA_CONSISTENCY", "QUORUM"),
			Timeout:     time.Duration(cassandraTimeout) * time.Second,
		},
		Game: GameConfig{
			// A negative delay turns swap animation off.
			SwapDelay:      time.Duration(swapDelay) * time.Millisecond,
			Memorize:       time.Duration(memorize) * time.Second,
			QueueCountdown: time.Duration(countdown) * time.Second,
		},
	}, nil
}

// Address returns the full address (host:port)
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// parseHosts parses a comma-separated list of hosts
func parseHosts(hostsStr string) []string {
	parts := strings.Split(hostsStr, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		host := strings.TrimSpace(part)
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	if len(hosts) == 0 {
		return []string{"localhost:9042"}
	}
	return hosts
}
