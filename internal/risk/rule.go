// Package risk implements the pre-trade rule chain.
package risk

import (
	"github.com/rxtech-lab/argo-oms/internal/types"
)

// OrderView exposes the engine's resting orders to rules. The engine lock is
// held for the duration of a Check, so implementations must not lock again.
type OrderView interface {
	OrdersForTicker(tickerIndex uint64) []types.Order
}

// Rule is a pre-trade validator with optional exposure tracking.
type Rule interface {
	Name() string
	// Check returns a non-nil error to reject the request.
	Check(req types.OrderRequest, c types.Contract, book OrderView) error
	// OnOrderSent fires once the gateway accepted the submission.
	OnOrderSent(req types.OrderRequest)
	OnOrderTraded(orderID uint64, volume int64, price float64)
	// OnOrderCompleted fires exactly once per order, including orders whose
	// submission failed before OnOrderSent.
	OnOrderCompleted(orderID uint64)
}

// BaseRule gives no-op lifecycle hooks to stateless rules.
type BaseRule struct{}

func (BaseRule) OnOrderSent(types.OrderRequest) {}

func (BaseRule) OnOrderTraded(uint64, int64, float64) {}

func (BaseRule) OnOrderCompleted(uint64) {}
