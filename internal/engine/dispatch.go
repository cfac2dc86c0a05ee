package engine

import (
	"context"

	"github.com/rxtech-lab/argo-oms/internal/protocol"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/internal/utils"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

// Run consumes trader commands until ctx is canceled. A broken subscription
// is reopened with exponential backoff. Bad commands are logged and dropped.
func (e *TradingEngine) Run(ctx context.Context) error {
	e.log.Info("Command loop started", zap.String("topic", protocol.CommandTopic))

	err := utils.Retry(ctx, e.config.Resubscribe, func(attempt int) error {
		if attempt > 0 {
			e.log.Info("Resubscribing to command topic", zap.Int("attempt", attempt))
		}

		for msg, err := range e.bus.Subscribe(ctx, protocol.CommandTopic) {
			if err != nil {
				e.log.Warn("Command subscription failed", zap.Error(err))

				return err
			}

			e.dispatch(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}

		return errors.New(errors.ErrCodeSubscribeFailed, "command subscription ended")
	})

	e.log.Info("Command loop stopped")

	if ctx.Err() != nil {
		return nil
	}

	return err
}

func (e *TradingEngine) dispatch(ctx context.Context, msg []byte) {
	cmd, err := protocol.DecodeCommand(msg)
	if err != nil {
		e.log.Warn("Dropping command", zap.Int("size", len(msg)), zap.Error(err))

		return
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.GatewayTimeout)
	defer cancel()

	switch cmd.Type {
	case protocol.CommandTypeNewOrder:
		req := types.OrderRequest{
			TickerIndex: cmd.NewOrder.TickerIndex,
			Direction:   cmd.NewOrder.Direction,
			Offset:      cmd.NewOrder.Offset,
			Volume:      cmd.NewOrder.Volume,
			Type:        cmd.NewOrder.Type,
			Price:       cmd.NewOrder.Price,
		}

		// failures are logged by SendOrder
		_, _ = e.SendOrder(callCtx, req)
	case protocol.CommandTypeCancelOrder:
		_ = e.CancelOrder(callCtx, cmd.OrderID)
	case protocol.CommandTypeCancelTicker:
		n := e.CancelAllForTicker(callCtx, cmd.TickerIndex)
		e.log.Info("Canceled ticker orders", zap.Uint64("ticker_index", cmd.TickerIndex), zap.Int("issued", n))
	case protocol.CommandTypeCancelAll:
		n := e.CancelAll(callCtx)
		e.log.Info("Canceled all orders", zap.Int("issued", n))
	}
}
