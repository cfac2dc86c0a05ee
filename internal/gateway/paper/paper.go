// Package paper is an in-process venue. Orders are matched against the last
// tick fed to the gateway and every callback is emitted from the gateway's
// own event loop.
package paper

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/gateway"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type restingOrder struct {
	req       types.OrderRequest
	contract  types.Contract
	remaining int64
}

// contractLister is implemented by lookups that can enumerate every contract.
type contractLister interface {
	All() []types.Contract
}

// Gateway is a paper trading venue.
type Gateway struct {
	config     Config
	callbacks  gateway.EngineCallbacks
	contracts  contract.Lookup
	commission Commission
	log        *logger.Logger
	loop       *gateway.EventLoop

	// owned by the event loop
	accountID string
	balance   decimal.Decimal
	book      map[uint64]*restingOrder
	ticks     map[uint64]types.TickData
	holdings  map[uint64]*types.Position
}

var _ gateway.Gateway = (*Gateway)(nil)

func New(config Config, deps gateway.Dependencies) (*Gateway, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid paper gateway config", err)
	}

	if deps.Callbacks == nil || deps.Contracts == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "paper gateway needs callbacks and contracts")
	}

	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}

	if config.QueryTimeout <= 0 {
		config.QueryTimeout = DefaultConfig().QueryTimeout
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	accountID := config.AccountID
	if accountID == "" {
		accountID = "paper-" + uuid.NewString()[:8]
	}

	return &Gateway{
		config:     config,
		callbacks:  deps.Callbacks,
		contracts:  deps.Contracts,
		commission: NewCommission(config.Commission),
		log:        log.Named(Name),
		loop:       gateway.NewEventLoop(config.QueueSize),
		accountID:  accountID,
		balance:    decimal.NewFromFloat(config.InitialBalance),
		book:       make(map[uint64]*restingOrder),
		ticks:      make(map[uint64]types.TickData),
		holdings:   make(map[uint64]*types.Position),
	}, nil
}

// NewFactory returns a registry factory building paper gateways from config.
func NewFactory(config Config) gateway.Factory {
	return func(deps gateway.Dependencies) (gateway.Gateway, error) {
		return New(config, deps)
	}
}

// Login starts the event loop and, when enabled, the market simulator.
func (g *Gateway) Login(_ context.Context, params types.LoginParams) error {
	if !g.loop.Start() {
		return nil
	}

	if g.config.Simulator.Enabled {
		tickers := append([]string(nil), params.Tickers...)
		g.loop.Go(func(stop <-chan struct{}) { g.simulate(stop, tickers) })
	}

	g.log.Info("Paper session started",
		zap.String("account_id", g.accountID),
		zap.String("session_id", uuid.NewString()),
		zap.Strings("tickers", params.Tickers),
	)

	return nil
}

// Logout stops the event loop. Resting orders are kept for the next session.
func (g *Gateway) Logout(ctx context.Context) error {
	if err := g.loop.Stop(ctx); err != nil {
		return err
	}

	g.log.Info("Paper session stopped")

	return nil
}

func (g *Gateway) SendOrder(ctx context.Context, req types.OrderRequest) error {
	c := g.contracts.Get(req.TickerIndex)
	if c.IsNone() {
		return errors.Newf(errors.ErrCodeContractNotFound, "contract %d not found", req.TickerIndex)
	}

	return g.enqueue(ctx, func() { g.handleNewOrder(req, c.Unwrap()) })
}

func (g *Gateway) CancelOrder(ctx context.Context, orderID uint64) error {
	return g.enqueue(ctx, func() {
		order, ok := g.book[orderID]
		if !ok {
			g.log.Warn("Cancel for unknown order", zap.Uint64("order_id", orderID))
			g.callbacks.OnOrderCancelRejected(orderID)

			return
		}

		delete(g.book, orderID)
		g.callbacks.OnOrderCanceled(orderID, order.remaining)
	})
}

// FeedTick delivers market data to the venue. Resting orders on the tick's
// ticker are matched against it.
func (g *Gateway) FeedTick(ctx context.Context, tick types.TickData) error {
	return g.enqueue(ctx, func() { g.onTick(tick) })
}

func (g *Gateway) QueryAccount(ctx context.Context) error {
	return g.query(ctx, func() { g.callbacks.OnQueryAccount(g.account()) })
}

func (g *Gateway) QueryPositions(ctx context.Context) error {
	return g.query(ctx, func() {
		indexes := make([]uint64, 0, len(g.holdings))
		for index := range g.holdings {
			indexes = append(indexes, index)
		}

		sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

		for _, index := range indexes {
			if pos := g.holdings[index]; !pos.IsEmpty() {
				g.callbacks.OnQueryPosition(*pos)
			}
		}
	})
}

func (g *Gateway) QueryPosition(ctx context.Context, ticker string) error {
	c := g.contracts.GetByTicker(ticker)
	if c.IsNone() {
		return errors.Newf(errors.ErrCodeContractNotFound, "contract %s not found", ticker)
	}

	return g.query(ctx, func() { g.callbacks.OnQueryPosition(*g.holding(c.Unwrap().Index)) })
}

func (g *Gateway) QueryContract(ctx context.Context, ticker string) error {
	c := g.contracts.GetByTicker(ticker)
	if c.IsNone() {
		return errors.Newf(errors.ErrCodeContractNotFound, "contract %s not found", ticker)
	}

	return g.query(ctx, func() { g.callbacks.OnQueryContract(c.Unwrap()) })
}

func (g *Gateway) QueryContracts(ctx context.Context) error {
	lister, ok := g.contracts.(contractLister)
	if !ok {
		return errors.New(errors.ErrCodeNotSupported, "contract lookup cannot be enumerated")
	}

	return g.query(ctx, func() {
		for _, c := range lister.All() {
			g.callbacks.OnQueryContract(c)
		}
	})
}

func (g *Gateway) QueryMarginRate(context.Context, string) error {
	return errors.New(errors.ErrCodeNotSupported, "paper gateway has no margin rate table")
}

func (g *Gateway) QueryCommissionRate(context.Context, string) error {
	return errors.New(errors.ErrCodeNotSupported, "paper gateway has no commission rate table")
}

func (g *Gateway) enqueue(ctx context.Context, fn func()) error {
	return g.loop.Post(ctx, fn)
}

// query runs fn on the event loop and waits for it to finish.
func (g *Gateway) query(ctx context.Context, fn func()) error {
	return g.loop.Call(ctx, g.config.QueryTimeout, fn)
}
