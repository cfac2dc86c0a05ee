package paper

import "time"

// Name is the registry name of the paper gateway.
const Name = "paper"

// Config configures the paper venue.
type Config struct {
	// AccountID is reported by QueryAccount. A random id is used when empty.
	AccountID string `yaml:"account_id" json:"account_id"`
	// InitialBalance is the starting cash. Zero disables the buying power check.
	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance" validate:"gte=0" jsonschema:"default=1000000"`
	// MarginRate is the fraction of notional locked per open contract.
	MarginRate float64 `yaml:"margin_rate" json:"margin_rate" validate:"gte=0,lte=1" jsonschema:"default=0.1"`
	// QueryTimeout bounds synchronous queries.
	QueryTimeout time.Duration `yaml:"query_timeout" json:"query_timeout" jsonschema:"default=5s"`
	// QueueSize is the capacity of the venue event queue.
	QueueSize  int              `yaml:"queue_size" json:"queue_size" validate:"gte=0" jsonschema:"default=1024"`
	Commission CommissionConfig `yaml:"commission" json:"commission"`
	Simulator  SimulatorConfig  `yaml:"simulator" json:"simulator"`
}

// SimulatorConfig drives a synthetic market data feed for the logged in tickers.
type SimulatorConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=500ms"`
	// Volatility is the per tick standard deviation of returns.
	Volatility float64 `yaml:"volatility" json:"volatility" validate:"gte=0" jsonschema:"default=0.0005"`
	Seed       int64   `yaml:"seed" json:"seed"`
	// InitialPrices maps ticker to the first simulated last price.
	InitialPrices map[string]float64 `yaml:"initial_prices" json:"initial_prices"`
}

func DefaultConfig() Config {
	return Config{
		InitialBalance: 1_000_000,
		MarginRate:     0.1,
		QueryTimeout:   5 * time.Second,
		QueueSize:      1024,
		Commission:     CommissionConfig{Broker: BrokerZero},
		Simulator: SimulatorConfig{
			Interval:   500 * time.Millisecond,
			Volatility: 0.0005,
		},
	}
}
