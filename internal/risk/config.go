package risk

import "github.com/rxtech-lab/argo-oms/internal/logger"

type ThrottleConfig struct {
	Enabled   bool    `yaml:"enabled" json:"enabled"`
	PerSecond float64 `yaml:"per_second" json:"per_second" validate:"gte=0" jsonschema:"default=50"`
	Burst     int     `yaml:"burst" json:"burst" validate:"gte=0" jsonschema:"default=10"`
}

// Config selects the rules and their order: self trade, volume limit,
// throttle, max pending.
type Config struct {
	NoSelfTrade      bool           `yaml:"no_self_trade" json:"no_self_trade" jsonschema:"default=true"`
	VolumeLimit      bool           `yaml:"volume_limit" json:"volume_limit"`
	Throttle         ThrottleConfig `yaml:"throttle" json:"throttle"`
	MaxPendingOrders int            `yaml:"max_pending_orders" json:"max_pending_orders" validate:"gte=0" jsonschema:"description=Zero disables the limit"`
}

func DefaultConfig() Config {
	return Config{NoSelfTrade: true}
}

// NewChainFromConfig builds a chain with the rules enabled in cfg.
func NewChainFromConfig(cfg Config, log *logger.Logger) *Chain {
	chain := NewChain(log)

	if cfg.NoSelfTrade {
		chain.Add(NewNoSelfTradeRule())
	}

	if cfg.VolumeLimit {
		chain.Add(NewVolumeLimitRule())
	}

	if cfg.Throttle.Enabled {
		chain.Add(NewThrottleRule(cfg.Throttle.PerSecond, cfg.Throttle.Burst))
	}

	if cfg.MaxPendingOrders > 0 {
		chain.Add(NewMaxPendingOrdersRule(cfg.MaxPendingOrders))
	}

	return chain
}
