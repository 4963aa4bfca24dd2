// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	HeliusAPIKey    string   `mapstructure:"helius_api_key"`
	HeliusBaseURL   string   `mapstructure:"helius_base_url"`
	PostgresURL     string   `mapstructure:"postgres_url"`
	StablecoinMints []string `mapstructure:"stablecoin_mints"`
	Workers         int      `mapstructure:"workers"`
	Retries         int      `mapstructure:"retries"`
	RequestDelay    int      `mapstructure:"request_delay"` // ms between Helius pages
	PageLimit       int      `mapstructure:"page_limit"`    // transactions per Helius page
	OutputDir       string   `mapstructure:"output_dir"`
	DebugLogging    bool     `mapstructure:"debug_logging"`
	LogFile         string   `mapstructure:"log_file"`
}

const (
	DefaultHeliusBaseURL = "https://api.helius.xyz"
	DefaultWorkers       = 5
	DefaultRetries       = 3
	DefaultRequestDelay  = 200
	DefaultPageLimit     = 100
	DefaultOutputDir     = "reports"
	DefaultLogFile       = "analyzer.log"
)

// DefaultStablecoinMints are the value-preservation assets assumed when the
// config does not override them: USDC and USDT.
var DefaultStablecoinMints = []string{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"helius_base_url":  DefaultHeliusBaseURL,
		"workers":          DefaultWorkers,
		"retries":          DefaultRetries,
		"request_delay":    DefaultRequestDelay,
		"page_limit":       DefaultPageLimit,
		"output_dir":       DefaultOutputDir,
		"log_file":         DefaultLogFile,
		"stablecoin_mints": DefaultStablecoinMints,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.HeliusAPIKey == "" {
		return errors.New("missing helius_api_key in configuration")
	}
	if err := validateURLWithCache(cfg.HeliusBaseURL, "http"); err != nil {
		return errors.New("invalid Helius base URL")
	}
	if cfg.PostgresURL != "" {
		if err := validateURLWithCache(cfg.PostgresURL, "postgres"); err != nil {
			return errors.New("invalid Postgres URL")
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.Workers < 0 {
		return errors.New("invalid workers count")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.RequestDelay < 0 {
		return errors.New("invalid request_delay")
	}
	if cfg.PageLimit <= 0 || cfg.PageLimit > 100 {
		return errors.New("page_limit must be between 1 and 100")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("WALLET_ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envAPIKey := v.GetString("HELIUS_API_KEY")
	if envAPIKey != "" {
		cfg.HeliusAPIKey = envAPIKey
	}

	envPostgres := v.GetString("POSTGRES_URL")
	if envPostgres != "" {
		cfg.PostgresURL = envPostgres
	}

	envStables := v.GetString("STABLECOIN_MINTS")
	if envStables != "" {
		mints := strings.Split(envStables, ",")
		var cleanMints []string
		for _, mint := range mints {
			clean := strings.TrimSpace(mint)
			if clean != "" {
				cleanMints = append(cleanMints, clean)
			}
		}
		if len(cleanMints) > 0 {
			cfg.StablecoinMints = cleanMints
		}
	}
	return nil
}
