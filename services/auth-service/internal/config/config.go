package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// AuthServiceConfig holds the runtime configuration of the auth service.
type AuthServiceConfig struct {
	Port            int           `env:"PORT"             envDefault:"8081"`
	Environment     string        `env:"APP_ENV"          envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// TrustedProxies lists the addresses or CIDR ranges of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed. Requests
	// from any other peer are identified by their socket address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Mongo     MongoConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// MongoConfig describes the user store connection.
// An empty Database means the one named in URL.
type MongoConfig struct {
	URL      string        `env:"MONGO_URL"      envDefault:"mongodb://localhost/authAPI"`
	Database string        `env:"MONGO_DATABASE"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT"  envDefault:"5s"`
}

// RateLimitConfig controls the limits on the unauthenticated endpoints.
// Counters are kept in Redis when RedisAddr is set.
type RateLimitConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"            envDefault:"0"`
	Register      int           `env:"RATE_LIMIT_REGISTER" envDefault:"5"`
	Login         int           `env:"RATE_LIMIT_LOGIN"    envDefault:"12"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW"   envDefault:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads the configuration from the process environment.
func Load() (*AuthServiceConfig, error) {
	cfg, err := env.ParseAs[AuthServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}
	return finish(&cfg)
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environment map[string]string) (*AuthServiceConfig, error) {
	cfg, err := env.ParseAsWithOptions[AuthServiceConfig](env.Options{Environment: environment})
	if err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *AuthServiceConfig) (*AuthServiceConfig, error) {
	for i, origin := range cfg.CORS.AllowedOrigins {
		cfg.CORS.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	proxies := cfg.TrustedProxies[:0]
	for _, proxy := range cfg.TrustedProxies {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			proxies = append(proxies, proxy)
		}
	}
	cfg.TrustedProxies = proxies
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *AuthServiceConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is treated as
// a single-host range.
func (c *AuthServiceConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, proxy := range c.TrustedProxies {
		if strings.Contains(proxy, "/") {
			prefix, err := netip.ParsePrefix(proxy)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", proxy, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", proxy, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Validate checks that the configuration is usable.
func (c *AuthServiceConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.Mongo.URL == "" {
		return errors.New("missing MONGO_URL environment variable")
	}
	if c.Mongo.Timeout <= 0 {
		return errors.New("MONGO_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.RateLimit.Register < 0 || c.RateLimit.Login < 0 {
		return errors.New("rate limits must not be negative")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}
