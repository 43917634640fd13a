package configs

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver    string
	DBSource    string
	Port        string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string

	AMQPURL       string
	MenuSeedFile  string
	SequenceStart *int64 // seed the order counter at this value when set
	TxMaxAttempts int

	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads .env when present, then the environment.
//
// Without JWT_SECRET a random secret is generated for sqlite development
// runs (tokens die with the process); postgres deployments refuse to start.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("cannot load .env file", "err", err)
	}

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBSource:      getEnv("DB_SOURCE", "justeat.db"),
		Port:          getEnv("PORT", "8000"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
		AMQPURL:       os.Getenv("AMQP_URL"),
		MenuSeedFile:  os.Getenv("MENU_SEED_FILE"),
		TxMaxAttempts: getInt("TX_MAX_ATTEMPTS", 5),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if v, ok := os.LookupEnv("ORDER_SEQUENCE_START"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			slog.Warn("ignoring invalid ORDER_SEQUENCE_START", "value", v)
		} else {
			cfg.SequenceStart = &n
		}
	}
	if cfg.JWTSecret == "" {
		if cfg.DBDriver == "postgres" {
			return nil, ErrJWTSecretMissing
		}
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = secret
		slog.Warn("JWT_SECRET is not set, using a random secret for this process")
	}
	return cfg, nil
}

var ErrJWTSecretMissing = errors.New("JWT_SECRET must be set when DB_DRIVER=postgres")

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
