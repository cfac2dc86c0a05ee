package risk

import (
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

const selfTradeEpsilon = 1e-5

// NoSelfTradeRule rejects orders that could match one of our own resting
// orders on the opposite side of the same contract.
type NoSelfTradeRule struct {
	BaseRule
}

func NewNoSelfTradeRule() *NoSelfTradeRule {
	return &NoSelfTradeRule{}
}

func (r *NoSelfTradeRule) Name() string {
	return "no_self_trade"
}

func (r *NoSelfTradeRule) Check(req types.OrderRequest, c types.Contract, book OrderView) error {
	opposite := req.Direction.Opposite()

	for _, resting := range book.OrdersForTicker(c.Index) {
		if resting.Direction != opposite {
			continue
		}

		if resting.Type == types.OrderTypeMarket || crosses(req, resting) {
			return errors.Wrap(errors.ErrCodeRiskRejected, "self trade", errors.Newf(errors.ErrCodeSelfTrade,
				"%s %s@%g would trade against resting order %d %s %s@%g",
				req.Direction, req.Type, req.Price,
				resting.OrderID, resting.Direction, resting.Type, resting.Price,
			))
		}
	}

	return nil
}

func crosses(req types.OrderRequest, resting types.Order) bool {
	if req.Direction == types.DirectionBuy {
		return req.Price >= resting.Price-selfTradeEpsilon
	}

	return req.Price <= resting.Price+selfTradeEpsilon
}
