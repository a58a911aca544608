package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Chain  ChainConfig  `mapstructure:"chain"`
	Vault  VaultConfig  `mapstructure:"vault"`
	API    APIConfig    `mapstructure:"api"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type ChainConfig struct {
	NodeURL            string        `mapstructure:"node_url"`
	PoolOwnerAddress   string        `mapstructure:"pool_owner_address"`
	PoolPrivateKey     string        `mapstructure:"pool_private_key"`
	PoolContract       string        `mapstructure:"pool_contract"`
	TokenContract      string        `mapstructure:"token_contract"`
	FeeLimit           int64         `mapstructure:"fee_limit"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	ConfirmInterval    time.Duration `mapstructure:"confirm_interval"`
	ConfirmMaxAttempts int           `mapstructure:"confirm_max_attempts"`
}

type VaultConfig struct {
	FilePath   string `mapstructure:"file_path"`
	Passphrase string `mapstructure:"passphrase"`
}

type APIConfig struct {
	Key string `mapstructure:"key"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: PRG_ (Payout Relay Gateway).
// Nested keys use underscore: PRG_CHAIN_NODE_URL, PRG_API_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("chain.node_url", "http://localhost:8090")
	v.SetDefault("chain.pool_owner_address", "")
	v.SetDefault("chain.pool_private_key", "")
	v.SetDefault("chain.pool_contract", "")
	v.SetDefault("chain.token_contract", "")
	v.SetDefault("chain.fee_limit", 100_000_000)
	v.SetDefault("chain.request_timeout", "10s")
	v.SetDefault("chain.confirm_interval", "1s")
	v.SetDefault("chain.confirm_max_attempts", 6)
	v.SetDefault("vault.file_path", "employees.json")
	v.SetDefault("vault.passphrase", "")
	v.SetDefault("api.key", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PRG_CHAIN_NODE_URL -> chain.node_url
	v.SetEnvPrefix("PRG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api.key must be set")
	}
	if c.Vault.Passphrase == "" {
		return fmt.Errorf("vault.passphrase must be set")
	}
	if c.Chain.PoolOwnerAddress == "" || c.Chain.PoolPrivateKey == "" {
		return fmt.Errorf("chain.pool_owner_address and chain.pool_private_key must be set")
	}
	if c.Chain.PoolContract == "" || c.Chain.TokenContract == "" {
		return fmt.Errorf("chain.pool_contract and chain.token_contract must be set")
	}
	return nil
}
