package binance

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// Name is the registry name of the Binance gateway.
const Name = "binance"

// Config contains configuration for Binance spot trading. Credentials in the
// login params take precedence over the ones configured here.
type Config struct {
	APIKey    string `yaml:"api_key" json:"api_key" jsonschema:"title=API Key,description=Binance API key"`
	SecretKey string `yaml:"secret_key" json:"secret_key" jsonschema:"title=Secret Key,description=Binance API secret key"`
	// BaseURL overrides the REST endpoint and takes precedence over Testnet.
	BaseURL string `yaml:"base_url" json:"base_url"`
	Testnet bool   `yaml:"testnet" json:"testnet" jsonschema:"description=Use https://testnet.binance.vision"`
	// ClientOrderPrefix namespaces client order ids as <prefix>-<order id>.
	ClientOrderPrefix string        `yaml:"client_order_prefix" json:"client_order_prefix" validate:"required,alphanum,max=16" jsonschema:"default=oms"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval" json:"reconcile_interval" validate:"gte=0" jsonschema:"default=1s"`
	QueryTimeout      time.Duration `yaml:"query_timeout" json:"query_timeout" validate:"gte=0" jsonschema:"default=10s"`
	// QuoteAssets are summed into the account balance.
	QuoteAssets []string `yaml:"quote_assets" json:"quote_assets" validate:"dive,required" jsonschema:"default=USDT"`
	// LotSizes maps symbol to the base quantity of one volume unit. Symbols
	// not listed use the exchange LOT_SIZE step.
	LotSizes  map[string]float64 `yaml:"lot_sizes" json:"lot_sizes" validate:"dive,gt=0"`
	QueueSize int                `yaml:"queue_size" json:"queue_size" validate:"gte=0" jsonschema:"default=1024"`
}

func DefaultConfig() Config {
	return Config{
		ClientOrderPrefix: "oms",
		ReconcileInterval: time.Second,
		QueryTimeout:      10 * time.Second,
		QuoteAssets:       []string{"USDT"},
		QueueSize:         1024,
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance gateway config", err)
	}

	return nil
}
