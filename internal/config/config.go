// Package config loads the OMS configuration from a YAML file, a .env file,
// and OMS_* environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/engine"
	"github.com/rxtech-lab/argo-oms/internal/gateway/binance"
	"github.com/rxtech-lab/argo-oms/internal/gateway/paper"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/risk"
	"github.com/rxtech-lab/argo-oms/internal/store"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ContractsConfig points at the contract table.
type ContractsConfig struct {
	// Path is a YAML file, or a CSV or Parquet file read through DuckDB.
	Path string `yaml:"path" json:"path" validate:"required" jsonschema:"title=Contracts Path,default=contracts.yaml"`
	// Exchange filters rows of tabular contract files. Empty keeps all rows.
	Exchange string `yaml:"exchange" json:"exchange"`
}

type GatewaysConfig struct {
	Paper   paper.Config   `yaml:"paper" json:"paper"`
	Binance binance.Config `yaml:"binance" json:"binance"`
}

// Config is the complete OMS configuration.
type Config struct {
	Logging   logger.Options    `yaml:"logging" json:"logging"`
	Bus       bus.Config        `yaml:"bus" json:"bus"`
	Store     store.Config      `yaml:"store" json:"store"`
	Risk      risk.Config       `yaml:"risk" json:"risk"`
	Engine    engine.Config     `yaml:"engine" json:"engine"`
	Contracts ContractsConfig   `yaml:"contracts" json:"contracts"`
	Gateways  GatewaysConfig    `yaml:"gateways" json:"gateways"`
	Login     types.LoginParams `yaml:"login" json:"login"`
}

func Default() Config {
	return Config{
		Logging: logger.Options{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Bus: bus.Config{
			Type:   bus.TypeMemory,
			Buffer: 1024,
			Redis:  bus.RedisConfig{Addr: "127.0.0.1:6379"},
			Kafka:  bus.KafkaConfig{GroupID: "argo-oms"},
		},
		Store: store.Config{
			Type:   store.TypeMemory,
			Redis:  bus.RedisConfig{Addr: "127.0.0.1:6379"},
			Pebble: store.PebbleConfig{Path: "./data/snapshots", CacheMB: 64},
		},
		Risk:      risk.DefaultConfig(),
		Engine:    engine.DefaultConfig(),
		Contracts: ContractsConfig{Path: "contracts.yaml"},
		Gateways: GatewaysConfig{
			Paper:   paper.DefaultConfig(),
			Binance: binance.DefaultConfig(),
		},
		Login: types.LoginParams{Gateway: paper.Name},
	}
}

// Load builds the configuration. path may be empty to start from defaults.
// envFile names a .env file that must exist; when empty, ./.env is loaded if
// present. Variables already set in the environment are never overwritten.
func Load(path string, envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to load env file %s", envFile)
		}
	} else {
		_ = godotenv.Load()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := Decode(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Decode merges YAML into cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	return nil
}

type envOverride struct {
	key   string
	apply func(cfg *Config, value string) error
}

var envOverrides = []envOverride{
	{"OMS_LOG_LEVEL", func(cfg *Config, v string) error { cfg.Logging.Level = v; return nil }},
	{"OMS_LOG_FILE", func(cfg *Config, v string) error { cfg.Logging.File = v; return nil }},
	{"OMS_BUS_TYPE", func(cfg *Config, v string) error { cfg.Bus.Type = bus.Type(v); return nil }},
	{"OMS_STORE_TYPE", func(cfg *Config, v string) error { cfg.Store.Type = store.Type(v); return nil }},
	{"OMS_REDIS_ADDR", func(cfg *Config, v string) error {
		cfg.Bus.Redis.Addr = v
		cfg.Store.Redis.Addr = v

		return nil
	}},
	{"OMS_REDIS_PASSWORD", func(cfg *Config, v string) error {
		cfg.Bus.Redis.Password = v
		cfg.Store.Redis.Password = v

		return nil
	}},
	{"OMS_KAFKA_BROKERS", func(cfg *Config, v string) error { cfg.Bus.Kafka.Brokers = splitList(v); return nil }},
	{"OMS_PEBBLE_PATH", func(cfg *Config, v string) error { cfg.Store.Pebble.Path = v; return nil }},
	{"OMS_CONTRACTS", func(cfg *Config, v string) error { cfg.Contracts.Path = v; return nil }},
	{"OMS_MARK_TO_MARKET", func(cfg *Config, v string) error {
		enabled, err := strconv.ParseBool(v)
		cfg.Engine.MarkToMarket = enabled

		return err
	}},
	{"OMS_GATEWAY_TIMEOUT", func(cfg *Config, v string) error {
		d, err := time.ParseDuration(v)
		cfg.Engine.GatewayTimeout = d

		return err
	}},
	{"OMS_GATEWAY", func(cfg *Config, v string) error { cfg.Login.Gateway = v; return nil }},
	{"OMS_INVESTOR_ID", func(cfg *Config, v string) error { cfg.Login.InvestorID = v; return nil }},
	{"OMS_PASSWORD", func(cfg *Config, v string) error { cfg.Login.Password = v; return nil }},
	{"OMS_TICKERS", func(cfg *Config, v string) error { cfg.Login.Tickers = splitList(v); return nil }},
	{"BINANCE_API_KEY", func(cfg *Config, v string) error { cfg.Gateways.Binance.APIKey = v; return nil }},
	{"BINANCE_SECRET_KEY", func(cfg *Config, v string) error { cfg.Gateways.Binance.SecretKey = v; return nil }},
	{"BINANCE_TESTNET", func(cfg *Config, v string) error {
		enabled, err := strconv.ParseBool(v)
		cfg.Gateways.Binance.Testnet = enabled

		return err
	}},
}

// ApplyEnv overrides cfg from the environment. Every malformed value is
// reported.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs error

	for _, o := range envOverrides {
		value, ok := lookup(o.key)
		if !ok || value == "" {
			continue
		}

		if err := o.apply(cfg, value); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", o.key, err))
		}
	}

	if errs != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid environment override", errs)
	}

	return nil
}

// Validate checks struct tags and the constraints between sections.
func (c *Config) Validate() error {
	var errs error

	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
		}

		for _, fe := range validationErrors {
			errs = multierr.Append(errs, fmt.Errorf("%s failed on %q", fe.Namespace(), fe.Tag()))
		}
	}

	if c.Bus.Type == bus.TypeKafka && len(c.Bus.Kafka.Brokers) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("bus.kafka.brokers is required for the kafka bus"))
	}

	if c.Store.Type == store.TypePebble && c.Store.Pebble.Path == "" && !c.Store.Pebble.InMemory {
		errs = multierr.Append(errs, fmt.Errorf("store.pebble.path is required for the pebble store"))
	}

	if errs != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", errs)
	}

	return nil
}

// Schema returns the JSON schema of Config.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&Config{})

	return json.MarshalIndent(schema, "", "  ")
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}

	return list
}
