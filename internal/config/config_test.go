package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/gateway/binance"
	"github.com/rxtech-lab/argo-oms/internal/store"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]

		return v, ok
	}
}

func (s *ConfigTestSuite) TestDefaultIsValid() {
	cfg := Default()
	s.NoError(cfg.Validate())
	s.Equal("paper", cfg.Login.Gateway)
	s.True(cfg.Risk.NoSelfTrade)
}

func (s *ConfigTestSuite) TestLoadMergesYAMLOverDefaults() {
	path := s.writeFile("oms.yaml", `
bus:
  type: redis
  redis:
    addr: redis:6379
engine:
  mark_to_market: true
  gateway_timeout: 250ms
risk:
  max_pending_orders: 20
  throttle:
    enabled: true
    per_second: 5
    burst: 2
login:
  gateway: binance
  tickers: [BTCUSDT, ETHUSDT]
`)

	cfg, err := Load(path, s.writeFile("empty.env", ""))
	s.Require().NoError(err)

	s.Equal(bus.TypeRedis, cfg.Bus.Type)
	s.Equal("redis:6379", cfg.Bus.Redis.Addr)
	s.Equal(1024, cfg.Bus.Buffer)
	s.True(cfg.Engine.MarkToMarket)
	s.Equal(250*time.Millisecond, cfg.Engine.GatewayTimeout)
	s.Equal(time.Second, cfg.Engine.PublishTimeout)
	s.Equal(20, cfg.Risk.MaxPendingOrders)
	s.True(cfg.Risk.NoSelfTrade)
	s.Equal(binance.Name, cfg.Login.Gateway)
	s.Equal([]string{"BTCUSDT", "ETHUSDT"}, cfg.Login.Tickers)
	s.Equal("oms", cfg.Gateways.Binance.ClientOrderPrefix)
}

func (s *ConfigTestSuite) TestLoadRejectsUnknownKeys() {
	path := s.writeFile("oms.yaml", "bus:\n  kind: redis\n")

	_, err := Load(path, s.writeFile("empty.env", ""))
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *ConfigTestSuite) TestLoadFileErrors() {
	_, err := Load(filepath.Join(s.dir, "missing.yaml"), s.writeFile("empty.env", ""))
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = Load("", filepath.Join(s.dir, "missing.env"))
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *ConfigTestSuite) TestLoadReadsEnvFile() {
	s.T().Cleanup(func() {
		_ = os.Unsetenv("OMS_INVESTOR_ID")
		_ = os.Unsetenv("OMS_STORE_TYPE")
	})

	envFile := s.writeFile("oms.env", "OMS_INVESTOR_ID=trader-7\nOMS_STORE_TYPE=pebble\n")

	cfg, err := Load("", envFile)
	s.Require().NoError(err)
	s.Equal("trader-7", cfg.Login.InvestorID)
	s.Equal(store.TypePebble, cfg.Store.Type)
}

func (s *ConfigTestSuite) TestEnvTakesPrecedenceOverFile() {
	s.T().Setenv("OMS_BUS_TYPE", "memory")
	s.T().Setenv("BINANCE_API_KEY", "key-from-env")

	path := s.writeFile("oms.yaml", "bus:\n  type: redis\ngateways:\n  binance:\n    api_key: key-from-file\n")

	cfg, err := Load(path, s.writeFile("empty.env", ""))
	s.Require().NoError(err)
	s.Equal(bus.TypeMemory, cfg.Bus.Type)
	s.Equal("key-from-env", cfg.Gateways.Binance.APIKey)
}

func (s *ConfigTestSuite) TestApplyEnv() {
	cfg := Default()

	err := ApplyEnv(&cfg, envMap(map[string]string{
		"OMS_REDIS_ADDR":    "cache:6380",
		"OMS_KAFKA_BROKERS": "k1:9092, k2:9092,",
		"OMS_TICKERS":       "rb2501,cu2501",
		"OMS_CONTRACTS":     "/etc/oms/contracts.parquet",
		"OMS_LOG_LEVEL":     "",
	}))
	s.Require().NoError(err)

	s.Equal("cache:6380", cfg.Bus.Redis.Addr)
	s.Equal("cache:6380", cfg.Store.Redis.Addr)
	s.Equal([]string{"k1:9092", "k2:9092"}, cfg.Bus.Kafka.Brokers)
	s.Equal([]string{"rb2501", "cu2501"}, cfg.Login.Tickers)
	s.Equal("/etc/oms/contracts.parquet", cfg.Contracts.Path)
	s.Equal("info", cfg.Logging.Level)
}

func (s *ConfigTestSuite) TestApplyEnvReportsEveryMalformedValue() {
	cfg := Default()

	err := ApplyEnv(&cfg, envMap(map[string]string{
		"OMS_MARK_TO_MARKET":  "sometimes",
		"OMS_GATEWAY_TIMEOUT": "soon",
	}))
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	var coded *errors.Error
	s.Require().True(errors.As(err, &coded))
	s.Len(multierr.Errors(coded.Unwrap()), 2)
}

func (s *ConfigTestSuite) TestValidate() {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		errors int
	}{
		{"bad log level", func(cfg *Config) { cfg.Logging.Level = "verbose" }, 1},
		{"unknown bus", func(cfg *Config) { cfg.Bus.Type = "nats" }, 1},
		{"kafka without brokers", func(cfg *Config) { cfg.Bus.Type = bus.TypeKafka }, 1},
		{"pebble without path", func(cfg *Config) {
			cfg.Store.Type = store.TypePebble
			cfg.Store.Pebble.Path = ""
		}, 1},
		{"several problems", func(cfg *Config) {
			cfg.Login.Gateway = ""
			cfg.Contracts.Path = ""
			cfg.Gateways.Paper.MarginRate = 2
		}, 3},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			s.Require().True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

			var coded *errors.Error
			s.Require().True(errors.As(err, &coded))
			s.Len(multierr.Errors(coded.Unwrap()), tc.errors)
		})
	}
}

func (s *ConfigTestSuite) TestSchema() {
	data, err := Schema()
	s.Require().NoError(err)

	var schema map[string]any
	s.Require().NoError(json.Unmarshal(data, &schema))

	properties, ok := schema["properties"].(map[string]any)
	s.Require().True(ok)

	for _, key := range []string{"logging", "bus", "store", "risk", "engine", "contracts", "gateways", "login"} {
		s.Contains(properties, key)
	}
}
