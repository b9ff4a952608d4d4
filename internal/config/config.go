package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	MutationPolicyQueue  = "queue"
	MutationPolicyReject = "reject"
)

type Config struct {
	AppEnv string

	APIBaseURL string
	APITimeout time.Duration
	RateLimit  float64
	RateBurst  int

	TokenStoreDSN        string
	TokenStorePassphrase string
	TokenProfile         string

	ExportDir      string
	MutationPolicy string

	DevServerAddr string
	JWTSecret     string
	DevSeed       bool
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:               envOrDefault("APP_ENV", "development"),
		APIBaseURL:           strings.TrimRight(envOrDefault("API_BASE_URL", "http://localhost:3001/api"), "/"),
		APITimeout:           envDuration("API_TIMEOUT_SECONDS", 15*time.Second),
		RateLimit:            envFloat("API_RATE_LIMIT", 10),
		RateBurst:            envInt("API_RATE_BURST", 20),
		TokenStoreDSN:        envOrDefault("TOKEN_STORE_DSN", "file:fitmrp.db"),
		TokenStorePassphrase: os.Getenv("TOKEN_STORE_PASSPHRASE"),
		TokenProfile:         envOrDefault("TOKEN_PROFILE", "default"),
		ExportDir:            envOrDefault("EXPORT_DIR", "."),
		MutationPolicy:       envOrDefault("CART_MUTATION_POLICY", MutationPolicyQueue),
		DevServerAddr:        envOrDefault("DEV_SERVER_ADDR", ":3001"),
		JWTSecret:            envOrDefault("JWT_SECRET", "dev-secret"),
		DevSeed:              envBool("DEV_SEED", true),
	}

	if cfg.MutationPolicy != MutationPolicyReject {
		cfg.MutationPolicy = MutationPolicyQueue
	}

	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && f > 0 {
			return f
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
