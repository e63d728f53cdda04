package config

import (
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string
	// Timezone is the IANA zone whose calendar days workDate refers to.
	Timezone       string
	DBPath         string
	JWTSecret      string
	AuthEnabled    bool
	DevLogin       bool
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function, applying defaults for
// unset keys.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	timeout, err := time.ParseDuration(get("REQUEST_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		log.Printf("[cfg] bad REQUEST_TIMEOUT %q, using 10s", getenv("REQUEST_TIMEOUT"))
		timeout = 10 * time.Second
	}
	return AppConfig{
		Port:           get("PORT", "8080"),
		Timezone:       get("TZ", "UTC"),
		DBPath:         get("DB_PATH", "farmwork.db"),
		JWTSecret:      get("JWT_SECRET", ""),
		AuthEnabled:    boolean(get("AUTH_ENABLED", "false")),
		DevLogin:       boolean(get("DEV_LOGIN", "false")),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
		RequestTimeout: timeout,
	}
}

// Location resolves Timezone. The embedded tzdata keeps this working on hosts
// without a zoneinfo database.
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func boolean(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	if c.JWTSecret != "" {
		c.JWTSecret = "***"
	}
	return c
}
