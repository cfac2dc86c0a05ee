package risk

import (
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

// Chain runs rules in registration order and stops at the first rejection.
// It is driven by the engine under the engine lock.
type Chain struct {
	rules []Rule
	log   *logger.Logger
}

func NewChain(log *logger.Logger, rules ...Rule) *Chain {
	return &Chain{rules: rules, log: log.Named("risk")}
}

func (c *Chain) Add(rule Rule) {
	c.rules = append(c.rules, rule)
}

func (c *Chain) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

func (c *Chain) Check(req types.OrderRequest, contract types.Contract, book OrderView) error {
	for _, rule := range c.rules {
		err := rule.Check(req, contract, book)
		if err == nil {
			continue
		}

		c.log.Warn("Order rejected by risk rule",
			zap.String("rule", rule.Name()),
			zap.Uint64("order_id", req.OrderID),
			zap.String("ticker", contract.Ticker),
			zap.String("direction", req.Direction.String()),
			zap.String("type", req.Type.String()),
			zap.Float64("price", req.Price),
			zap.Int64("volume", req.Volume),
			zap.Error(err),
		)

		if errors.HasCode(err, errors.ErrCodeRiskRejected) {
			return err
		}

		return errors.Wrapf(errors.ErrCodeRiskRejected, err, "rejected by %s", rule.Name())
	}

	return nil
}

func (c *Chain) OnOrderSent(req types.OrderRequest) {
	for _, rule := range c.rules {
		rule.OnOrderSent(req)
	}
}

func (c *Chain) OnOrderTraded(orderID uint64, volume int64, price float64) {
	for _, rule := range c.rules {
		rule.OnOrderTraded(orderID, volume, price)
	}
}

func (c *Chain) OnOrderCompleted(orderID uint64) {
	for _, rule := range c.rules {
		rule.OnOrderCompleted(orderID)
	}
}
