package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time is used for duration-valued settings
)

// minProdSecretLen is the minimum JWT signing-secret length accepted when
// APP_ENV is "prod". Startup aborts below this; a short secret is a
// deployment mistake, not something to silently default around.
const minProdSecretLen = 32

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required values are enforced by must() and abort
// startup when missing; tunables carry defaults.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // control-plane database name
	JWTSecret       string        // secret used to sign access tokens
	AccessTTL       time.Duration // access token time-to-live (default 15m)
	RefreshTTL      time.Duration // refresh token time-to-live (default 168h)
	InviteTTL       time.Duration // invitation time-to-live (default 168h)
	BcryptCost      int           // bcrypt cost for password hashing
	MaxFailedLogins int           // consecutive failures before lockout (default 5)
	LockoutDuration time.Duration // how long a locked account stays locked (default 30m)
	AMQPURL         string        // RabbitMQ URL for domain events (optional)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must(); a production
// environment with a missing or short signing secret is rejected before the
// server starts serving traffic.
func Load() Config {
	cfg := Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTL:       envDur("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:      envDur("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		InviteTTL:       envDur("INVITATION_TTL", 7*24*time.Hour),
		BcryptCost:      envInt("BCRYPT_COST", 12),
		MaxFailedLogins: envInt("MAX_FAILED_LOGINS", 5),
		LockoutDuration: envDur("LOCKOUT_DURATION", 30*time.Minute),
		AMQPURL:         os.Getenv("AMQP_URL"), // empty disables event publishing
	}
	if cfg.Env == "prod" && len(cfg.JWTSecret) < minProdSecretLen {
		log.Fatalf("JWT_SECRET must be at least %d bytes in prod", minProdSecretLen)
	}
	if cfg.MaxFailedLogins < 1 {
		cfg.MaxFailedLogins = 1
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
		return dur
	}
	return d
}
