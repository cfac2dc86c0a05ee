package engine

import (
	"context"

	"github.com/rxtech-lab/argo-oms/internal/protocol"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"go.uber.org/zap"
)

// contractAdder is implemented by contract tables that accept venue reported
// contracts at runtime.
type contractAdder interface {
	Add(c types.Contract) error
}

func (e *TradingEngine) OnOrderAccepted(orderID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.orders[orderID]
	if !ok {
		e.log.Warn("Accepted callback for unknown order", zap.Uint64("order_id", orderID))

		return
	}

	if order.Status == types.OrderStatusSubmitting {
		order.Status = types.OrderStatusNoTraded
	}

	e.log.Info("Order accepted", zap.Uint64("order_id", orderID), zap.String("ticker", order.Contract.Ticker))
	e.notifyUpdate(order)
}

// OnOrderRejected terminates the order and releases its pending volume.
func (e *TradingEngine) OnOrderRejected(orderID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.orders[orderID]
	if !ok {
		e.log.Warn("Rejected callback for unknown order", zap.Uint64("order_id", orderID))

		return
	}

	e.positions.UpdatePending(order.Contract.Index, order.Direction, order.Offset, -order.Remaining())

	order.Status = types.OrderStatusRejected

	e.log.Warn("Order rejected by venue",
		zap.Uint64("order_id", orderID),
		zap.String("ticker", order.Contract.Ticker),
		zap.String("direction", order.Direction.String()),
		zap.String("type", order.Type.String()),
		zap.Float64("price", order.Price),
	)

	e.notifyUpdate(order)
	e.complete(order)
}

func (e *TradingEngine) OnOrderTraded(orderID uint64, tradedVolume int64, price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.orders[orderID]
	if !ok {
		e.log.Warn("Trade callback for unknown order", zap.Uint64("order_id", orderID))

		return
	}

	if tradedVolume <= 0 {
		e.log.Warn("Ignoring non-positive fill", zap.Uint64("order_id", orderID), zap.Int64("traded", tradedVolume))

		return
	}

	if remaining := order.Remaining(); tradedVolume > remaining {
		e.log.Warn("Fill exceeds remaining volume, clamping",
			zap.Uint64("order_id", orderID),
			zap.Int64("traded", tradedVolume),
			zap.Int64("remaining", remaining),
		)

		tradedVolume = remaining
	}

	order.TradedVolume += tradedVolume
	if order.TradedVolume == order.Volume {
		order.Status = types.OrderStatusAllTraded
	} else {
		order.Status = types.OrderStatusPartTraded
	}

	e.positions.UpdateTraded(order.Contract.Index, order.Direction, order.Offset, tradedVolume, price)
	e.risk.OnOrderTraded(orderID, tradedVolume, price)

	e.log.Info("Order traded",
		zap.Uint64("order_id", orderID),
		zap.String("ticker", order.Contract.Ticker),
		zap.String("direction", order.Direction.String()),
		zap.String("offset", order.Offset.String()),
		zap.Int64("traded", tradedVolume),
		zap.Float64("price", price),
		zap.Int64("total_traded", order.TradedVolume),
		zap.Int64("volume", order.Volume),
	)

	e.notifyUpdate(order)

	if order.IsCompleted() {
		e.complete(order)
	}
}

// OnOrderCanceled applies a confirmed cancel of canceledVolume units and
// releases their pending reservation.
func (e *TradingEngine) OnOrderCanceled(orderID uint64, canceledVolume int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.orders[orderID]
	if !ok {
		e.log.Warn("Cancel callback for unknown order", zap.Uint64("order_id", orderID))

		return
	}

	if remaining := order.Remaining(); canceledVolume > remaining || canceledVolume < 0 {
		e.log.Warn("Canceled volume out of range, clamping",
			zap.Uint64("order_id", orderID),
			zap.Int64("canceled", canceledVolume),
			zap.Int64("remaining", remaining),
		)

		canceledVolume = max(0, min(canceledVolume, remaining))
	}

	order.CanceledVolume += canceledVolume
	e.positions.UpdatePending(order.Contract.Index, order.Direction, order.Offset, -canceledVolume)

	e.log.Info("Order canceled",
		zap.Uint64("order_id", orderID),
		zap.String("ticker", order.Contract.Ticker),
		zap.Int64("canceled", canceledVolume),
		zap.Int64("traded", order.TradedVolume),
		zap.Int64("volume", order.Volume),
	)

	if order.IsCompleted() {
		order.Status = types.OrderStatusCanceled
		e.notifyUpdate(order)
		e.complete(order)

		return
	}

	e.notifyUpdate(order)
}

func (e *TradingEngine) OnOrderCancelRejected(orderID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.orders[orderID]; !ok {
		e.log.Warn("Cancel rejected for unknown order", zap.Uint64("order_id", orderID))

		return
	}

	e.log.Warn("Cancel rejected by venue", zap.Uint64("order_id", orderID))
}

// OnTick republishes the tick on the ticker's market data topic.
func (e *TradingEngine) OnTick(tick types.TickData) {
	c := e.contracts.Get(tick.TickerIndex)
	if c.IsNone() {
		e.log.Warn("Tick for unknown contract", zap.Uint64("ticker_index", tick.TickerIndex))

		return
	}

	if e.config.MarkToMarket {
		e.mu.Lock()
		e.positions.UpdateFloatPnL(tick.TickerIndex, tick.LastPrice)
		e.mu.Unlock()
	}

	data, err := protocol.EncodeTick(tick)
	if err != nil {
		e.log.Error("Failed to encode tick", zap.Uint64("ticker_index", tick.TickerIndex), zap.Error(err))

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.config.PublishTimeout)
	defer cancel()

	if err := e.bus.Publish(ctx, protocol.MarketDataTopic(c.Unwrap().Ticker), data); err != nil {
		e.log.Warn("Failed to publish tick", zap.String("ticker", c.Unwrap().Ticker), zap.Error(err))
	}
}

func (e *TradingEngine) OnQueryAccount(account types.Account) {
	e.mu.Lock()
	e.account = account
	e.mu.Unlock()

	e.log.Info("Account",
		zap.String("account_id", account.AccountID),
		zap.Float64("balance", account.Balance),
		zap.Float64("frozen", account.Frozen),
		zap.Float64("margin", account.Margin),
	)
}

// OnQueryPosition overwrites the ledger with a non-empty broker position.
func (e *TradingEngine) OnQueryPosition(pos types.Position) {
	e.log.Info("Position",
		zap.Uint64("ticker_index", pos.TickerIndex),
		zap.Int64("long", pos.Long.Volume),
		zap.Float64("long_cost", pos.Long.CostPrice),
		zap.Int64("short", pos.Short.Volume),
		zap.Float64("short_cost", pos.Short.CostPrice),
	)

	if pos.IsEmpty() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.positions.SetPosition(pos)
}

func (e *TradingEngine) OnQueryContract(c types.Contract) {
	e.log.Debug("Contract", zap.String("ticker", c.Ticker), zap.Uint64("index", c.Index))

	adder, ok := e.contracts.(contractAdder)
	if !ok {
		return
	}

	if err := adder.Add(c); err != nil {
		e.log.Warn("Ignoring invalid contract from gateway", zap.String("ticker", c.Ticker), zap.Error(err))
	}
}
