package engine

import (
	"time"

	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/internal/utils"
)

// Config configures the trading engine.
type Config struct {
	// MarkToMarket recomputes float PnL on every tick.
	MarkToMarket bool `yaml:"mark_to_market" json:"mark_to_market" jsonschema:"title=Mark To Market,description=Recompute float PnL on every tick,default=false"`
	// PublishTimeout bounds a single market data publish.
	PublishTimeout time.Duration `yaml:"publish_timeout" json:"publish_timeout" jsonschema:"title=Publish Timeout,description=Timeout for republishing one tick"`
	// GatewayTimeout bounds each gateway call made from the dispatch loop.
	GatewayTimeout time.Duration `yaml:"gateway_timeout" json:"gateway_timeout" jsonschema:"title=Gateway Timeout,description=Timeout for one gateway call"`
	// Resubscribe controls the backoff between command subscriptions.
	Resubscribe utils.RetryConfig `yaml:"resubscribe" json:"resubscribe"`
}

func DefaultConfig() Config {
	return Config{
		PublishTimeout: time.Second,
		GatewayTimeout: 5 * time.Second,
		Resubscribe:    utils.DefaultRetryConfig(),
	}
}

// OnOrderUpdateCallback is called after every change to an order, with a copy
// of the order.
type OnOrderUpdateCallback func(order types.Order)

// OnOrderCompletedCallback is called once when an order leaves the order table.
type OnOrderCompletedCallback func(order types.Order)

// Callbacks holds optional observers. nil means no callback will be invoked.
// They run with the engine lock held and must not call back into the engine.
type Callbacks struct {
	OnOrderUpdate    *OnOrderUpdateCallback
	OnOrderCompleted *OnOrderCompletedCallback
}
