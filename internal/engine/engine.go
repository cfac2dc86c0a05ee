// Package engine owns the order table and drives the order lifecycle between
// the command bus, the risk chain, the gateway, and the position ledger.
package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/gateway"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/position"
	"github.com/rxtech-lab/argo-oms/internal/risk"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

// Dependencies are the collaborators injected by process bootstrap.
type Dependencies struct {
	Registry  *gateway.Registry
	Contracts contract.Lookup
	Positions *position.Manager
	Risk      *risk.Chain
	Bus       bus.Bus
	Logger    *logger.Logger
	Callbacks Callbacks
}

// TradingEngine is the single authority over in-flight orders.
//
// One mutex guards the order table, the login state, and every position
// mutation. Gateway callbacks for a given order are therefore totally ordered.
type TradingEngine struct {
	mu       sync.Mutex
	orders   map[uint64]*types.Order
	gateway  gateway.Gateway
	loggedIn bool
	account  types.Account

	nextOrderID atomic.Uint64

	config    Config
	registry  *gateway.Registry
	contracts contract.Lookup
	positions *position.Manager
	risk      *risk.Chain
	bus       bus.Bus
	callbacks Callbacks
	log       *logger.Logger
}

var _ gateway.EngineCallbacks = (*TradingEngine)(nil)

func NewTradingEngine(config Config, deps Dependencies) *TradingEngine {
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = time.Second
	}

	if config.GatewayTimeout <= 0 {
		config.GatewayTimeout = 5 * time.Second
	}

	return &TradingEngine{
		orders:    make(map[uint64]*types.Order),
		config:    config,
		registry:  deps.Registry,
		contracts: deps.Contracts,
		positions: deps.Positions,
		risk:      deps.Risk,
		bus:       deps.Bus,
		callbacks: deps.Callbacks,
		log:       deps.Logger.Named("engine"),
	}
}

// Login creates the gateway named by params.Gateway, logs in, and loads the
// account and positions. Held volume the broker does not report is cleared.
// It is a no-op when already logged in.
func (e *TradingEngine) Login(ctx context.Context, params types.LoginParams) error {
	e.mu.Lock()
	if e.loggedIn {
		e.mu.Unlock()

		return nil
	}
	e.mu.Unlock()

	gw, err := e.registry.Create(params.Gateway, gateway.Dependencies{
		Callbacks: e,
		Contracts: e.contracts,
		Logger:    e.log,
	})
	if err != nil {
		e.log.Error("Failed to create gateway", zap.String("gateway", params.Gateway), zap.Error(err))

		return err
	}

	if err := gw.Login(ctx, params); err != nil {
		e.log.Error("Gateway login failed", zap.String("gateway", params.Gateway), zap.Error(err))

		return errors.Wrapf(errors.ErrCodeGatewayLoginFailed, err, "login to %s failed", params.Gateway)
	}

	if err := gw.QueryAccount(ctx); err != nil {
		e.log.Error("Failed to query account", zap.Error(err))
		e.logoutQuietly(ctx, gw)

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to query account", err)
	}

	e.mu.Lock()
	e.positions.ResetHoldings()
	e.mu.Unlock()

	if err := gw.QueryPositions(ctx); err != nil {
		e.log.Error("Failed to query positions", zap.Error(err))
		e.logoutQuietly(ctx, gw)

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to query positions", err)
	}

	e.mu.Lock()
	e.gateway = gw
	e.loggedIn = true
	e.mu.Unlock()

	e.log.Info("Logged in", zap.String("gateway", params.Gateway), zap.String("investor_id", params.InvestorID))

	return nil
}

func (e *TradingEngine) logoutQuietly(ctx context.Context, gw gateway.Gateway) {
	if err := gw.Logout(ctx); err != nil {
		e.log.Warn("Gateway logout failed", zap.Error(err))
	}
}

// Logout releases the gateway session. Resting orders stay in the table.
func (e *TradingEngine) Logout(ctx context.Context) error {
	e.mu.Lock()
	gw := e.gateway
	wasLoggedIn := e.loggedIn
	e.gateway = nil
	e.loggedIn = false
	e.mu.Unlock()

	if !wasLoggedIn {
		return nil
	}

	if err := gw.Logout(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "gateway logout failed", err)
	}

	e.log.Info("Logged out")

	return nil
}

func (e *TradingEngine) IsLoggedIn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loggedIn
}

// SendOrder validates, risk checks, and submits an order. It returns the
// engine assigned order id.
func (e *TradingEngine) SendOrder(ctx context.Context, req types.OrderRequest) (uint64, error) {
	if err := req.Validate(); err != nil {
		e.log.Warn("Invalid order request", zap.Uint64("ticker_index", req.TickerIndex), zap.Error(err))

		return 0, err
	}

	c := e.contracts.Get(req.TickerIndex)
	if c.IsNone() {
		e.log.Error("Contract not found", zap.Uint64("ticker_index", req.TickerIndex))

		return 0, errors.Newf(errors.ErrCodeContractNotFound, "contract %d not found", req.TickerIndex)
	}

	instrument := c.Unwrap()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loggedIn {
		e.log.Warn("Order dropped, not logged in", zap.String("ticker", instrument.Ticker))

		return 0, errors.New(errors.ErrCodeNotLoggedIn, "engine is not logged in")
	}

	req.OrderID = e.nextOrderID.Add(1)

	if err := e.risk.Check(req, instrument, orderView{e}); err != nil {
		return 0, err
	}

	// insert before the gateway call so a racing callback finds the order
	order := &types.Order{
		OrderID:   req.OrderID,
		Contract:  instrument,
		Direction: req.Direction,
		Offset:    req.Offset,
		Type:      req.Type,
		Price:     req.Price,
		Volume:    req.Volume,
		Status:    types.OrderStatusSubmitting,
	}
	e.orders[order.OrderID] = order

	if err := e.gateway.SendOrder(ctx, req); err != nil {
		delete(e.orders, order.OrderID)
		e.risk.OnOrderCompleted(order.OrderID)

		e.log.Error("Gateway rejected order submission",
			zap.Uint64("order_id", order.OrderID),
			zap.String("ticker", instrument.Ticker),
			zap.String("direction", req.Direction.String()),
			zap.String("offset", req.Offset.String()),
			zap.String("type", req.Type.String()),
			zap.Float64("price", req.Price),
			zap.Int64("volume", req.Volume),
			zap.Error(err),
		)

		return 0, errors.Wrapf(errors.ErrCodeGatewaySendFailed, err, "failed to send order %d", order.OrderID)
	}

	e.risk.OnOrderSent(req)
	e.positions.UpdatePending(req.TickerIndex, req.Direction, req.Offset, req.Volume)

	e.log.Info("Order sent",
		zap.Uint64("order_id", order.OrderID),
		zap.String("ticker", instrument.Ticker),
		zap.String("direction", req.Direction.String()),
		zap.String("offset", req.Offset.String()),
		zap.String("type", req.Type.String()),
		zap.Float64("price", req.Price),
		zap.Int64("volume", req.Volume),
	)

	e.notifyUpdate(order)

	return order.OrderID, nil
}

// CancelOrder asks the gateway to cancel. Local state only changes when the
// cancel is confirmed through OnOrderCanceled.
func (e *TradingEngine) CancelOrder(ctx context.Context, orderID uint64) error {
	e.mu.Lock()
	gw, loggedIn := e.gateway, e.loggedIn
	e.mu.Unlock()

	if !loggedIn {
		return errors.New(errors.ErrCodeNotLoggedIn, "engine is not logged in")
	}

	if err := gw.CancelOrder(ctx, orderID); err != nil {
		e.log.Warn("Cancel request failed", zap.Uint64("order_id", orderID), zap.Error(err))

		return errors.Wrapf(errors.ErrCodeCancelFailed, err, "failed to cancel order %d", orderID)
	}

	return nil
}

// CancelAllForTicker issues one cancel per resting order on the ticker and
// returns the number of cancels the gateway accepted.
func (e *TradingEngine) CancelAllForTicker(ctx context.Context, tickerIndex uint64) int {
	return e.cancelMatching(ctx, func(o *types.Order) bool { return o.Contract.Index == tickerIndex })
}

// CancelAll issues one cancel per resting order.
func (e *TradingEngine) CancelAll(ctx context.Context) int {
	return e.cancelMatching(ctx, func(*types.Order) bool { return true })
}

func (e *TradingEngine) cancelMatching(ctx context.Context, match func(*types.Order) bool) int {
	e.mu.Lock()
	gw, loggedIn := e.gateway, e.loggedIn

	ids := make([]uint64, 0, len(e.orders))
	for id, order := range e.orders {
		if match(order) {
			ids = append(ids, id)
		}
	}
	e.mu.Unlock()

	if !loggedIn {
		e.log.Warn("Cancel dropped, not logged in")

		return 0
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	issued := 0

	for _, id := range ids {
		if err := gw.CancelOrder(ctx, id); err != nil {
			e.log.Warn("Cancel request failed", zap.Uint64("order_id", id), zap.Error(err))

			continue
		}

		issued++
	}

	return issued
}

// Orders returns a copy of the order table ordered by id.
func (e *TradingEngine) Orders() []types.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshot(func(*types.Order) bool { return true })
}

func (e *TradingEngine) OrdersForTicker(tickerIndex uint64) []types.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshot(func(o *types.Order) bool { return o.Contract.Index == tickerIndex })
}

// Account returns the last account reported by the gateway.
func (e *TradingEngine) Account() types.Account {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.account
}

func (e *TradingEngine) snapshot(match func(*types.Order) bool) []types.Order {
	out := make([]types.Order, 0, len(e.orders))
	for _, order := range e.orders {
		if match(order) {
			out = append(out, *order)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })

	return out
}

// orderView reads the table without locking. Only valid while e.mu is held.
type orderView struct {
	e *TradingEngine
}

func (v orderView) OrdersForTicker(tickerIndex uint64) []types.Order {
	return v.e.snapshot(func(o *types.Order) bool { return o.Contract.Index == tickerIndex })
}

func (e *TradingEngine) notifyUpdate(order *types.Order) {
	if e.callbacks.OnOrderUpdate != nil {
		(*e.callbacks.OnOrderUpdate)(*order)
	}
}

// complete removes the order and notifies the risk chain. Callers hold e.mu
// and have checked the order is still in the table.
func (e *TradingEngine) complete(order *types.Order) {
	delete(e.orders, order.OrderID)
	e.risk.OnOrderCompleted(order.OrderID)

	e.log.Info("Order completed",
		zap.Uint64("order_id", order.OrderID),
		zap.String("ticker", order.Contract.Ticker),
		zap.String("status", order.Status.String()),
		zap.Int64("volume", order.Volume),
		zap.Int64("traded", order.TradedVolume),
		zap.Int64("canceled", order.CanceledVolume),
	)

	if e.callbacks.OnOrderCompleted != nil {
		(*e.callbacks.OnOrderCompleted)(*order)
	}
}
