// Package config is used to configure the application settings.
//
// Values are layered: built-in defaults, then a .env file and environment
// variables, then an optional config file (JSON or YAML), then command-line
// flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config - application configuration structure.
type Config struct {
	// Addr: address the HTTP server listens on (e.g., "localhost:8080").
	Addr string `env:"SERVER_ADDRESS" mapstructure:"server_address"`
	// UpstreamURL: base URL of the headless CMS/commerce API. Every proxy
	// endpoint refuses to run without it.
	UpstreamURL string `env:"UPSTREAM_API_URL" mapstructure:"upstream_api_url"`
	// UpstreamTimeout: bound on a single upstream call.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" mapstructure:"upstream_timeout"`
	// RequestTimeout: bound on handling one inbound request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" mapstructure:"request_timeout"`
	// CacheTTL: lifetime of a cached upstream response.
	CacheTTL time.Duration `env:"CACHE_TTL" mapstructure:"cache_ttl"`
	// CacheEnabled: whether read-mostly resources go through the response cache.
	CacheEnabled bool `env:"CACHE_ENABLED" mapstructure:"cache_enabled"`
	// LogLevel: zap level name (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" mapstructure:"log_level"`
	// OTLPEndpoint: OTLP/gRPC collector address; tracing export is off when empty.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" mapstructure:"otlp_endpoint"`
	// OTLPInsecure: dial the collector without TLS.
	OTLPInsecure bool `env:"OTEL_EXPORTER_OTLP_INSECURE" mapstructure:"otlp_insecure"`
	// ConfigPath: path to config file (json or yaml).
	ConfigPath string `env:"CONFIG" mapstructure:"-"`
}

var cfgDefault = Config{
	Addr:            "localhost:8080",
	UpstreamURL:     "",
	UpstreamTimeout: 10 * time.Second,
	RequestTimeout:  15 * time.Second,
	CacheTTL:        5 * time.Minute,
	CacheEnabled:    true,
	LogLevel:        "info",
}

// NewConfig returns a new Config populated with the defaults.
func NewConfig() *Config {
	c := cfgDefault
	return &c
}

// ErrReadConfig - error reading the config file.
var ErrReadConfig = errors.New("reading config file")

// ErrParseConfig - error parsing the config file or environment.
var ErrParseConfig = errors.New("parse config")

// Configured reports whether the upstream base URL is set.
func (c *Config) Configured() bool {
	return strings.TrimSpace(c.UpstreamURL) != ""
}

// Init fills c from .env, the environment, the config file and args, in that
// order of precedence (later wins).
func Init(c *Config, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: .env: %w", ErrParseConfig, err)
	}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	var flagCfg Config
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.StringVar(&flagCfg.Addr, "a", "", "HTTP-server startup address")
	fs.StringVar(&flagCfg.UpstreamURL, "u", "", "upstream CMS/commerce API base URL")
	fs.DurationVar(&flagCfg.UpstreamTimeout, "t", 0, "upstream call timeout")
	fs.DurationVar(&flagCfg.RequestTimeout, "request-timeout", 0, "inbound request timeout")
	fs.DurationVar(&flagCfg.CacheTTL, "cache-ttl", 0, "response cache TTL")
	fs.BoolVar(&flagCfg.CacheEnabled, "cache", true, "enable the response cache")
	fs.StringVar(&flagCfg.LogLevel, "l", "", "log level")
	fs.StringVar(&flagCfg.ConfigPath, "c", "", "path to config file (json or yaml)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}

	if flagCfg.ConfigPath != "" {
		c.ConfigPath = flagCfg.ConfigPath
	}
	if c.ConfigPath != "" {
		if err := readFile(c, c.ConfigPath); err != nil {
			return err
		}
	}

	// override
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			c.Addr = flagCfg.Addr
		case "u":
			c.UpstreamURL = flagCfg.UpstreamURL
		case "t":
			c.UpstreamTimeout = flagCfg.UpstreamTimeout
		case "request-timeout":
			c.RequestTimeout = flagCfg.RequestTimeout
		case "cache-ttl":
			c.CacheTTL = flagCfg.CacheTTL
		case "cache":
			c.CacheEnabled = flagCfg.CacheEnabled
		case "l":
			c.LogLevel = flagCfg.LogLevel
		}
	})

	c.UpstreamURL = strings.TrimRight(strings.TrimSpace(c.UpstreamURL), "/")
	if c.UpstreamURL != "" {
		u, err := url.Parse(c.UpstreamURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: upstream URL %q is not absolute", ErrParseConfig, c.UpstreamURL)
		}
	}
	return nil
}

func readFile(c *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}
	return nil
}
