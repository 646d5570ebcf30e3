package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const insecureDefaultSecret = "secret"

// Config holds every knob the service reads from the environment.
// It is built once in main and handed to the components that need it;
// nothing below main reads os.Getenv.
type Config struct {
	Port              string
	DatabaseURL       string
	TokenSecret       string
	TokenExpire       time.Duration
	OwnershipEnforced bool
	PhotoDir          string
	BrevoAPIKey       string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		TokenSecret:       getEnv("SECRET", insecureDefaultSecret),
		TokenExpire:       8 * time.Hour,
		OwnershipEnforced: true,
		PhotoDir:          getEnv("PHOTO_DIR", "images"),
		BrevoAPIKey:       os.Getenv("BREVO_API_KEY"),
	}

	if v := os.Getenv("TOKEN_EXPIRE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Warn().Str("TOKEN_EXPIRE", v).Msg("invalid token expire duration, using 8h")
		} else {
			cfg.TokenExpire = d
		}
	}

	if v := os.Getenv("OWNERSHIP_ENFORCED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn().Str("OWNERSHIP_ENFORCED", v).Msg("invalid ownership flag, keeping enforcement on")
		} else {
			cfg.OwnershipEnforced = b
		}
	}

	if cfg.TokenSecret == insecureDefaultSecret {
		log.Warn().Msg("SECRET not set, using insecure default signing key")
	}

	return cfg
}

// Validate checks the settings the service cannot run without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.TokenExpire <= 0 {
		return errors.New("TOKEN_EXPIRE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
