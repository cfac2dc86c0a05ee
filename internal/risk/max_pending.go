package risk

import (
	"sync"

	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// MaxPendingOrdersRule caps the number of in-flight orders. It tracks them
// through the lifecycle hooks instead of reading the order table.
type MaxPendingOrdersRule struct {
	mu       sync.Mutex
	max      int
	inFlight map[uint64]struct{}
}

func NewMaxPendingOrdersRule(limit int) *MaxPendingOrdersRule {
	return &MaxPendingOrdersRule{max: limit, inFlight: make(map[uint64]struct{})}
}

func (r *MaxPendingOrdersRule) Name() string {
	return "max_pending_orders"
}

func (r *MaxPendingOrdersRule) Check(req types.OrderRequest, _ types.Contract, _ OrderView) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.inFlight) >= r.max {
		return errors.Newf(errors.ErrCodeTooManyOrders, "%d orders in flight, limit is %d", len(r.inFlight), r.max)
	}

	return nil
}

func (r *MaxPendingOrdersRule) OnOrderSent(req types.OrderRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inFlight[req.OrderID] = struct{}{}
}

func (r *MaxPendingOrdersRule) OnOrderTraded(uint64, int64, float64) {}

func (r *MaxPendingOrdersRule) OnOrderCompleted(orderID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inFlight, orderID)
}

// InFlight returns the number of tracked orders.
func (r *MaxPendingOrdersRule) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.inFlight)
}
