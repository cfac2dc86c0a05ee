package types

// ProductType classifies a tradable instrument.
type ProductType string

const (
	ProductTypeFutures ProductType = "Futures"
	ProductTypeOptions ProductType = "Options"
	ProductTypeStock   ProductType = "Stock"
	ProductTypeCrypto  ProductType = "Crypto"
)

// Contract is static reference data for one instrument. It is owned by the
// contract table and never mutated by the engine.
type Contract struct {
	// Index is the local primary key used by commands, ticks and positions.
	Index       uint64      `yaml:"index" json:"index" validate:"required"`
	Ticker      string      `yaml:"ticker" json:"ticker" validate:"required"`
	Symbol      string      `yaml:"symbol" json:"symbol"`
	Exchange    string      `yaml:"exchange" json:"exchange"`
	Name        string      `yaml:"name" json:"name"`
	ProductType ProductType `yaml:"product_type" json:"product_type"`
	// Size is the contract multiplier applied to PnL.
	Size      int64   `yaml:"size" json:"size" validate:"gt=0"`
	PriceTick float64 `yaml:"price_tick" json:"price_tick" validate:"gte=0"`

	// Volume limits, zero means unlimited.
	MaxMarketOrderVolume int64 `yaml:"max_market_order_volume" json:"max_market_order_volume" validate:"gte=0"`
	MinMarketOrderVolume int64 `yaml:"min_market_order_volume" json:"min_market_order_volume" validate:"gte=0"`
	MaxLimitOrderVolume  int64 `yaml:"max_limit_order_volume" json:"max_limit_order_volume" validate:"gte=0"`
	MinLimitOrderVolume  int64 `yaml:"min_limit_order_volume" json:"min_limit_order_volume" validate:"gte=0"`

	DeliveryYear  int `yaml:"delivery_year" json:"delivery_year"`
	DeliveryMonth int `yaml:"delivery_month" json:"delivery_month"`
}
