package engine

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/protocol"
	"github.com/rxtech-lab/argo-oms/internal/risk"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/internal/utils"
	"github.com/rxtech-lab/argo-oms/mocks"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/mock/gomock"
)

func (s *TradingEngineTestSuite) encode(cmd protocol.TraderCommand) []byte {
	data, err := protocol.EncodeCommand(cmd)
	s.Require().NoError(err)

	return data
}

func (s *TradingEngineTestSuite) TestDispatchRoutesCommands() {
	s.login()

	ctx := context.Background()

	var sent types.OrderRequest

	s.gateway.EXPECT().SendOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req types.OrderRequest) error {
		sent = req

		return nil
	})

	s.engine.dispatch(ctx, s.encode(protocol.NewOrderCommand(protocol.NewOrder{
		TickerIndex: rbIndex,
		Direction:   types.DirectionBuy,
		Offset:      types.OffsetOpen,
		Volume:      2,
		Type:        types.OrderTypeLimit,
		Price:       3650,
	})))

	s.Equal(rbIndex, sent.TickerIndex)
	s.Equal(int64(2), sent.Volume)
	s.Equal(3650.0, sent.Price)
	s.Len(s.engine.Orders(), 1)

	s.gateway.EXPECT().CancelOrder(gomock.Any(), sent.OrderID).Return(nil).Times(3)

	s.engine.dispatch(ctx, s.encode(protocol.CancelOrderCommand(sent.OrderID)))
	s.engine.dispatch(ctx, s.encode(protocol.CancelTickerCommand(rbIndex)))
	s.engine.dispatch(ctx, s.encode(protocol.CancelAllCommand()))
	s.engine.dispatch(ctx, s.encode(protocol.CancelTickerCommand(cuIndex)))
}

func (s *TradingEngineTestSuite) TestDispatchDropsMalformedCommands() {
	s.login()

	data := s.encode(protocol.CancelAllCommand())
	data[0] ^= 0xFF

	// no gateway call is expected for any of these
	s.engine.dispatch(context.Background(), data)
	s.engine.dispatch(context.Background(), data[:10])
	s.engine.dispatch(context.Background(), nil)

	s.Empty(s.engine.Orders())
}

func (s *TradingEngineTestSuite) TestRunResubscribesAndStopsOnCancel() {
	mockBus := mocks.NewMockBus(s.ctrl)

	cfg := DefaultConfig()
	cfg.Resubscribe.BaseDelay = time.Millisecond
	cfg.Resubscribe.MaxDelay = 5 * time.Millisecond

	s.engine = NewTradingEngine(cfg, Dependencies{
		Registry:  s.registry,
		Contracts: s.contracts,
		Positions: s.positions,
		Risk:      risk.NewChain(logger.NewNopLogger()),
		Bus:       mockBus,
		Logger:    logger.NewNopLogger(),
	})
	s.login()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	order := s.encode(protocol.NewOrderCommand(protocol.NewOrder{
		TickerIndex: cuIndex,
		Direction:   types.DirectionSell,
		Offset:      types.OffsetOpen,
		Volume:      1,
		Type:        types.OrderTypeLimit,
		Price:       71000,
	}))

	var subscriptions atomic.Int32

	broken := func(yield func([]byte, error) bool) {
		yield(nil, errors.New(errors.ErrCodeSubscribeFailed, "connection reset"))
	}

	healthy := func(runCtx context.Context) iter.Seq2[[]byte, error] {
		return func(yield func([]byte, error) bool) {
			if !yield(order, nil) {
				return
			}

			<-runCtx.Done()
		}
	}

	mockBus.EXPECT().Subscribe(gomock.Any(), protocol.CommandTopic).DoAndReturn(
		func(runCtx context.Context, _ ...string) iter.Seq2[[]byte, error] {
			if subscriptions.Add(1) == 1 {
				return broken
			}

			return healthy(runCtx)
		}).Times(2)

	s.gateway.EXPECT().SendOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, types.OrderRequest) error {
		cancel()

		return nil
	})

	done := make(chan error, 1)

	go func() {
		done <- s.engine.Run(ctx)
	}()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("Run did not stop after cancel")
	}

	s.Equal(int32(2), subscriptions.Load())
	s.Len(s.engine.Orders(), 1)
}

func (s *TradingEngineTestSuite) TestRunGivesUpAfterMaxAttempts() {
	mockBus := mocks.NewMockBus(s.ctrl)

	cfg := DefaultConfig()
	cfg.Resubscribe = utils.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

	s.engine = NewTradingEngine(cfg, Dependencies{
		Registry:  s.registry,
		Contracts: s.contracts,
		Positions: s.positions,
		Risk:      risk.NewChain(logger.NewNopLogger()),
		Bus:       mockBus,
		Logger:    logger.NewNopLogger(),
	})

	// a subscription that ends without error still counts as broken
	mockBus.EXPECT().Subscribe(gomock.Any(), protocol.CommandTopic).Return(
		iter.Seq2[[]byte, error](func(func([]byte, error) bool) {}),
	).Times(2)

	err := s.engine.Run(context.Background())
	s.True(errors.HasCode(err, errors.ErrCodeSubscribeFailed))
}
