package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/poll-profile/internal/core/services"
)

type Config struct {
	Addr           string
	PollServiceURL string
	PublicOrigin   string
	JWTSecret      string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	LogLevel       string
	LogFormat      string
	Policy         services.ReconcilePolicy
}

// Load reads .env (when present), then the environment, then flags from
// args, each layer overriding the previous one.
func Load(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	resolve, err := Bind(fs)
	if err != nil {
		return Config{}, err
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return resolve()
}

// Bind registers the config flags on fs, with defaults taken from .env and
// the environment, so a binary can add its own flags to the same set. The
// returned func validates the values and must be called after fs.Parse.
func Bind(fs *flag.FlagSet) (func() (Config, error), error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := new(Config)
	var policy string

	fs.StringVar(&cfg.Addr, "addr", envOr("ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.PollServiceURL, "poll-service-url", os.Getenv("POLL_SERVICE_URL"), "Base URL of the poll service")
	fs.StringVar(&cfg.PublicOrigin, "public-origin", envOr("PUBLIC_ORIGIN", "http://localhost:8080"), "Origin used in shared links")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to verify access tokens (prefer env)")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", envOr("LOG_FORMAT", "text"), "Log format (text or json)")
	fs.StringVar(&policy, "reconcile-policy", os.Getenv("RECONCILE_POLICY"), "merge-or-reload or merge-only")

	timeout, err := durationEnv("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := durationEnv("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", timeout, "Timeout for poll service calls")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", ttl, "Idle time before a mounted page is dropped")

	return func() (Config, error) {
		if cfg.PollServiceURL == "" {
			return Config{}, errors.New("poll service URL required (use -poll-service-url or POLL_SERVICE_URL env)")
		}
		var err error
		if cfg.Policy, err = services.ParseReconcilePolicy(policy); err != nil {
			return Config{}, err
		}
		return *cfg, nil
	}, nil
}

// Logger builds the process logger from the configured level and format.
func (c Config) Logger() (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch c.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	return logger, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
