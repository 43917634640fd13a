package configs

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"TX_MAX_ATTEMPTS", "JWT_TTL", "CORS_ORIGINS", "ORDER_SEQUENCE_START"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PORT", "8000")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBDriver != "sqlite" || cfg.Port != "8000" {
		t.Fatalf("cfg = %+v", cfg)
	}
	// blank values fall back instead of failing
	if cfg.TxMaxAttempts != 5 || cfg.JWTTTL != 24*time.Hour || len(cfg.CORSOrigins) != 0 {
		t.Fatalf("fallbacks = %+v", cfg)
	}
	if cfg.SequenceStart != nil {
		t.Fatalf("sequence start = %d, want unset", *cfg.SequenceStart)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TX_MAX_ATTEMPTS", "9")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ORDER_SEQUENCE_START", "41")
	t.Setenv("JWT_SECRET", "prod-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBDriver != "postgres" || cfg.TxMaxAttempts != 9 || cfg.JWTTTL != 90*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
	if cfg.SequenceStart == nil || *cfg.SequenceStart != 41 {
		t.Fatalf("sequence start = %v", cfg.SequenceStart)
	}

	t.Setenv("ORDER_SEQUENCE_START", "-3")
	if cfg, _ := LoadConfig(); cfg.SequenceStart != nil {
		t.Fatal("negative sequence start accepted")
	}
}

func TestLoadConfigJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "postgres")
	if _, err := LoadConfig(); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("postgres without secret err = %v", err)
	}

	t.Setenv("DB_DRIVER", "sqlite")
	a, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := LoadConfig()
	if len(a.JWTSecret) != 64 || a.JWTSecret == b.JWTSecret {
		t.Fatalf("generated secrets %q / %q", a.JWTSecret, b.JWTSecret)
	}
	if a.JWTSecret == "changeme" {
		t.Fatal("fell back to a well-known secret")
	}

	t.Setenv("JWT_SECRET", "  s3cret ")
	c, err := LoadConfig()
	if err != nil || c.JWTSecret != "s3cret" {
		t.Fatalf("secret = %q, %v", c.JWTSecret, err)
	}
}
