package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/daniacca/rxtrig/internal/synth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	LogLevel    string   `toml:"log_level"`
	RateLimit   float64  `toml:"rate_limit"`
	RateBurst   int      `toml:"rate_burst"`
	CORSOrigins []string `toml:"cors_origins"`
	MaxMatching int      `toml:"max_matching"`

	Model synth.Params `toml:"model"`
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		LogLevel:    "info",
		RateLimit:   50,
		RateBurst:   100,
		CORSOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		MaxMatching: rxn.DefaultConfig().MaxMatchingRxns,
		Model:       synth.DefaultParams(),
	}
}

// Engine returns the trigger configuration. The table size always follows the model.
func (c ServerConfig) Engine() rxn.Config {
	return rxn.Config{HashSize: c.Model.HashSize, MaxMatchingRxns: c.MaxMatching}
}

// Validate checks every section of the configuration
func (c ServerConfig) Validate() error {
	err := &rxn.ValidationError{}
	if c.Addr == "" {
		err.Add("addr: must not be empty")
	}
	if _, perr := logrus.ParseLevel(c.LogLevel); perr != nil {
		err.Addf("log_level: %v", perr)
	}
	if c.RateLimit <= 0 {
		err.Addf("rate_limit: must be positive, got %g", c.RateLimit)
	}
	if c.RateBurst < 1 {
		err.Addf("rate_burst: must be at least 1, got %d", c.RateBurst)
	}
	if verr := c.Engine().Validate(); verr != nil {
		err.Add(verr.Error())
	}
	if verr := c.Model.Validate(); verr != nil {
		err.Add(verr.Error())
	}
	if err.HasIssues() {
		return err
	}
	return nil
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	description string
	setter      func(*ServerConfig, string) error
}

func intSetter(set func(*ServerConfig, int)) func(*ServerConfig, string) error {
	return func(c *ServerConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		set(c, n)
		return nil
	}
}

var resolvers = []configResolver{
	{
		flagName:    "addr",
		envVarName:  "RXTRIG_ADDR",
		description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
		setter:      func(c *ServerConfig, v string) error { c.Addr = v; return nil },
	},
	{
		flagName:    "log-level",
		envVarName:  "RXTRIG_LOG_LEVEL",
		description: "Log level: debug, info, warn, error",
		setter:      func(c *ServerConfig, v string) error { c.LogLevel = v; return nil },
	},
	{
		flagName:    "hash-size",
		envVarName:  "RXTRIG_HASH_SIZE",
		description: "Number of reaction table buckets (power of two)",
		setter:      intSetter(func(c *ServerConfig, n int) { c.Model.HashSize = n }),
	},
	{
		flagName:    "max-matching",
		envVarName:  "RXTRIG_MAX_MATCHING",
		description: "Maximum reactions returned by a bimolecular or trimolecular trigger",
		setter:      intSetter(func(c *ServerConfig, n int) { c.MaxMatching = n }),
	},
	{
		flagName:    "species",
		envVarName:  "RXTRIG_SPECIES",
		description: "Number of generated molecule species",
		setter:      intSetter(func(c *ServerConfig, n int) { c.Model.Species = n }),
	},
	{
		flagName:    "classes",
		envVarName:  "RXTRIG_CLASSES",
		description: "Number of generated surface classes",
		setter:      intSetter(func(c *ServerConfig, n int) { c.Model.SurfaceClasses = n }),
	},
	{
		flagName:    "reactions",
		envVarName:  "RXTRIG_REACTIONS",
		description: "Number of generated reactions",
		setter:      intSetter(func(c *ServerConfig, n int) { c.Model.Reactions = n }),
	},
	{
		flagName:    "seed",
		envVarName:  "RXTRIG_SEED",
		description: "Seed of the generated network",
		setter: func(c *ServerConfig, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return err
			}
			c.Model.Seed = n
			return nil
		},
	},
	{
		flagName:    "rate-limit",
		envVarName:  "RXTRIG_RATE_LIMIT",
		description: "Requests per second allowed per client IP",
		setter: func(c *ServerConfig, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			c.RateLimit = f
			return nil
		},
	},
	{
		flagName:    "rate-burst",
		envVarName:  "RXTRIG_RATE_BURST",
		description: "Burst size of the per-IP rate limiter",
		setter:      intSetter(func(c *ServerConfig, n int) { c.RateBurst = n }),
	},
	{
		flagName:    "cors-origins",
		envVarName:  "RXTRIG_CORS_ORIGINS",
		description: "Comma-separated list of allowed CORS origins",
		setter: func(c *ServerConfig, v string) error {
			var origins []string
			for _, o := range strings.Split(v, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			c.CORSOrigins = origins
			return nil
		},
	},
}

// loadServerConfig resolves the configuration from, in order of priority,
// command-line flags, RXTRIG_* environment variables, the optional TOML file
// named by --config (or RXTRIG_CONFIG) and the built-in defaults.
func loadServerConfig(args []string, getenv func(string) string) (ServerConfig, error) {
	fs := pflag.NewFlagSet("rxtrig-server", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional path to a TOML configuration file")
	flagVars := make(map[string]*string, len(resolvers))
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = fs.String(resolver.flagName, "", resolver.description)
	}
	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	cfg := defaultServerConfig()

	path := *configPath
	if path == "" {
		path = getenv("RXTRIG_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return ServerConfig{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	for _, resolver := range resolvers {
		var value string
		if fs.Changed(resolver.flagName) {
			value = *flagVars[resolver.flagName]
		} else if envValue := getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			continue
		}
		if err := resolver.setter(&cfg, value); err != nil {
			return ServerConfig{}, fmt.Errorf("invalid value %q for %s: %w", value, resolver.flagName, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
