package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DBConfig struct {
	// DSN selects the durable postgres store. Empty keeps the in-memory store.
	DSN string `mapstructure:"dsn"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

func (c AnthropicConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

func (c StripeConfig) Enabled() bool {
	return strings.TrimSpace(c.SecretKey) != ""
}

type DetectorConfig struct {
	// FreePlanLimit caps AI statement analyses for free-tier users.
	// Zero or negative disables the cap.
	FreePlanLimit int `mapstructure:"free_plan_limit"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Config struct {
	Env          Env             `mapstructure:"env"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DBConfig        `mapstructure:"database"`
	Anthropic    AnthropicConfig `mapstructure:"anthropic"`
	Stripe       StripeConfig    `mapstructure:"stripe"`
	Detector     DetectorConfig  `mapstructure:"detector"`
	SeedDemoData bool            `mapstructure:"seed_demo_data"`
	MetricsAddr  string          `mapstructure:"metrics_addr"`
}

func New() (*Config, error) {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Missing credentials degrade the detector and payment
	// subsystems instead of failing startup.
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "")
	v.SetDefault("anthropic.model", "claude-3-sonnet-20240229")
	v.SetDefault("anthropic.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("detector.free_plan_limit", 5)
	v.SetDefault("seed_demo_data", true)
	v.SetDefault("metrics_addr", ":9090")

	if err := v.ReadInConfig(); err != nil {
		_ = err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
