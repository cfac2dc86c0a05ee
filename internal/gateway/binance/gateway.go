// Package binance routes orders to Binance spot through the REST API. Order
// state is reconciled by polling, so fills and cancels are reported with up to
// one reconcile interval of delay.
package binance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/gateway"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/internal/utils"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// quantityPrecision allows satoshi-level precision (0.00000001 BTC).
	quantityPrecision = 8
	volumeEpsilon     = 1e-9
)

type trackedOrder struct {
	req      types.OrderRequest
	symbol   string
	clientID string
	lot      float64

	// event loop only
	accepted bool
	traded   int64
	quote    decimal.Decimal
}

type symbolInfo struct {
	baseAsset string
	lot       float64
}

// contractLister is implemented by lookups that can enumerate every contract.
type contractLister interface {
	All() []types.Contract
}

// Gateway is a Binance spot gateway.
type Gateway struct {
	config    Config
	callbacks gateway.EngineCallbacks
	contracts contract.Lookup
	log       *logger.Logger
	loop      *gateway.EventLoop
	newClient func(apiKey, secretKey string) Client

	mu        sync.RWMutex
	client    Client
	accountID string
	orders    map[uint64]*trackedOrder
	symbols   map[string]symbolInfo
}

var _ gateway.Gateway = (*Gateway)(nil)

func New(config Config, deps gateway.Dependencies) (*Gateway, error) {
	return newGateway(config, deps, nil)
}

// NewWithClient builds a gateway around an existing client.
func NewWithClient(config Config, deps gateway.Dependencies, client Client) (*Gateway, error) {
	return newGateway(config, deps, client)
}

// NewFactory returns a registry factory building Binance gateways from config.
func NewFactory(config Config) gateway.Factory {
	return func(deps gateway.Dependencies) (gateway.Gateway, error) {
		return New(config, deps)
	}
}

func newGateway(config Config, deps gateway.Dependencies, client Client) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if deps.Callbacks == nil || deps.Contracts == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "binance gateway needs callbacks and contracts")
	}

	defaults := DefaultConfig()
	if config.ReconcileInterval <= 0 {
		config.ReconcileInterval = defaults.ReconcileInterval
	}

	if config.QueryTimeout <= 0 {
		config.QueryTimeout = defaults.QueryTimeout
	}

	if len(config.QuoteAssets) == 0 {
		config.QuoteAssets = defaults.QuoteAssets
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Gateway{
		config:    config,
		callbacks: deps.Callbacks,
		contracts: deps.Contracts,
		log:       log.Named(Name),
		loop:      gateway.NewEventLoop(config.QueueSize),
		newClient: func(apiKey, secretKey string) Client {
			return NewClient(apiKey, secretKey, config.BaseURL, config.Testnet)
		},
		client:  client,
		orders:  make(map[uint64]*trackedOrder),
		symbols: make(map[string]symbolInfo),
	}, nil
}

// Login builds the REST client, loads the trading rules of params.Tickers,
// and starts the reconcile loop.
func (g *Gateway) Login(ctx context.Context, params types.LoginParams) error {
	if g.loop.Running() {
		return nil
	}

	g.mu.Lock()
	if g.client == nil {
		apiKey := firstNonEmpty(params.APIKey, g.config.APIKey)
		secretKey := firstNonEmpty(params.SecretKey, g.config.SecretKey)

		if apiKey == "" || secretKey == "" {
			g.mu.Unlock()

			return errors.New(errors.ErrCodeMissingParameter, "binance api key and secret key are required")
		}

		g.client = g.newClient(apiKey, secretKey)
	}

	g.accountID = firstNonEmpty(params.InvestorID, Name)
	g.mu.Unlock()

	g.loop.Start()

	if len(params.Tickers) > 0 {
		if _, err := g.loadSymbols(ctx, g.symbolsFor(params.Tickers)); err != nil {
			_ = g.loop.Stop(ctx)

			return err
		}
	}

	g.loop.Go(g.reconcile)

	g.log.Info("Logged in to Binance",
		zap.String("account_id", g.accountID),
		zap.Strings("tickers", params.Tickers),
		zap.Duration("reconcile_interval", g.config.ReconcileInterval),
	)

	return nil
}

// Logout stops reconciliation. Tracked orders stay tracked for the next session.
func (g *Gateway) Logout(ctx context.Context) error {
	return g.loop.Stop(ctx)
}

func (g *Gateway) SendOrder(ctx context.Context, req types.OrderRequest) error {
	if !g.loop.Running() {
		return errors.New(errors.ErrCodeNotLoggedIn, "binance gateway is not logged in")
	}

	c := g.contracts.Get(req.TickerIndex)
	if c.IsNone() {
		return errors.Newf(errors.ErrCodeContractNotFound, "contract %d not found", req.TickerIndex)
	}

	instrument := c.Unwrap()

	side, orderType, tif, err := mapOrder(req)
	if err != nil {
		return err
	}

	symbol := symbolOf(instrument)
	lot := g.lotFor(symbol)
	order := &trackedOrder{
		req:      req,
		symbol:   symbol,
		clientID: g.clientOrderID(req.OrderID),
		lot:      lot,
		quote:    decimal.Zero,
	}

	service := g.currentClient().NewCreateOrderService().
		Symbol(symbol).
		Side(side).
		Type(orderType).
		Quantity(formatQuantity(req.Volume, lot)).
		NewClientOrderID(order.clientID).
		NewOrderRespType(binance.NewOrderRespTypeFULL)

	if orderType == binance.OrderTypeLimit {
		service = service.
			Price(formatPrice(req.Price, instrument.PriceTick)).
			TimeInForce(tif)
	}

	resp, err := service.Do(ctx)
	if err != nil {
		g.log.Error("Failed to place order on Binance",
			zap.Uint64("order_id", req.OrderID),
			zap.String("client_order_id", order.clientID),
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		return errors.Wrap(errors.ErrCodeGatewaySendFailed, "failed to place order on Binance", err)
	}

	g.mu.Lock()
	g.orders[req.OrderID] = order
	g.mu.Unlock()

	g.log.Debug("Order placed on Binance",
		zap.Uint64("order_id", req.OrderID),
		zap.Int64("exchange_order_id", resp.OrderID),
		zap.String("status", string(resp.Status)),
	)

	g.post(ctx, req.OrderID, resp.Status, resp.ExecutedQuantity, resp.CummulativeQuoteQuantity)

	return nil
}

// CancelOrder cancels by client order id. A cancel the exchange refuses is
// reported through OnOrderCancelRejected.
func (g *Gateway) CancelOrder(ctx context.Context, orderID uint64) error {
	if !g.loop.Running() {
		return errors.New(errors.ErrCodeNotLoggedIn, "binance gateway is not logged in")
	}

	g.mu.RLock()
	order, ok := g.orders[orderID]
	g.mu.RUnlock()

	if !ok {
		return g.loop.Post(ctx, func() { g.callbacks.OnOrderCancelRejected(orderID) })
	}

	resp, err := g.currentClient().NewCancelOrderService().
		Symbol(order.symbol).
		OrigClientOrderID(order.clientID).
		Do(ctx)
	if err != nil {
		if common.IsAPIError(err) {
			g.log.Warn("Binance refused cancel", zap.Uint64("order_id", orderID), zap.Error(err))

			return g.loop.Post(ctx, func() { g.callbacks.OnOrderCancelRejected(orderID) })
		}

		return errors.Wrap(errors.ErrCodeCancelFailed, "failed to cancel order on Binance", err)
	}

	g.post(ctx, orderID, resp.Status, resp.ExecutedQuantity, resp.CummulativeQuoteQuantity)

	return nil
}

func (g *Gateway) QueryAccount(ctx context.Context) error {
	account, err := g.account(ctx)
	if err != nil {
		return err
	}

	var balance, frozen float64

	for _, b := range account.Balances {
		if !g.isQuoteAsset(b.Asset) {
			continue
		}

		free, _ := strconv.ParseFloat(b.Free, 64)
		locked, _ := strconv.ParseFloat(b.Locked, 64)
		balance += free + locked
		frozen += locked
	}

	g.mu.RLock()
	result := types.Account{AccountID: g.accountID, Balance: balance, Frozen: frozen}
	g.mu.RUnlock()

	return g.loop.Call(ctx, g.config.QueryTimeout, func() { g.callbacks.OnQueryAccount(result) })
}

// QueryPositions reports the base asset balances of every known symbol as
// long positions. Spot holdings carry no cost price.
func (g *Gateway) QueryPositions(ctx context.Context) error {
	positions, err := g.positions(ctx, "")
	if err != nil {
		return err
	}

	return g.loop.Call(ctx, g.config.QueryTimeout, func() {
		for _, pos := range positions {
			if !pos.IsEmpty() {
				g.callbacks.OnQueryPosition(pos)
			}
		}
	})
}

func (g *Gateway) QueryPosition(ctx context.Context, ticker string) error {
	c := g.contracts.GetByTicker(ticker)
	if c.IsNone() {
		return errors.Newf(errors.ErrCodeContractNotFound, "contract %s not found", ticker)
	}

	symbol := symbolOf(c.Unwrap())
	if _, err := g.loadSymbols(ctx, []string{symbol}); err != nil {
		return err
	}

	positions, err := g.positions(ctx, symbol)
	if err != nil {
		return err
	}

	pos := types.Position{TickerIndex: c.Unwrap().Index}
	if len(positions) > 0 {
		pos = positions[0]
	}

	return g.loop.Call(ctx, g.config.QueryTimeout, func() { g.callbacks.OnQueryPosition(pos) })
}

func (g *Gateway) QueryContract(ctx context.Context, ticker string) error {
	c := g.contracts.GetByTicker(ticker)
	if c.IsNone() {
		return errors.Newf(errors.ErrCodeContractNotFound, "contract %s not found", ticker)
	}

	return g.queryContracts(ctx, []types.Contract{c.Unwrap()})
}

func (g *Gateway) QueryContracts(ctx context.Context) error {
	lister, ok := g.contracts.(contractLister)
	if !ok {
		return errors.New(errors.ErrCodeNotSupported, "contract lookup cannot be enumerated")
	}

	return g.queryContracts(ctx, lister.All())
}

func (g *Gateway) QueryMarginRate(context.Context, string) error {
	return errors.New(errors.ErrCodeNotSupported, "binance spot has no margin rate")
}

func (g *Gateway) QueryCommissionRate(context.Context, string) error {
	return errors.New(errors.ErrCodeNotSupported, "binance commission rates are not queried")
}

// queryContracts refreshes price tick and volume limits from exchange info.
func (g *Gateway) queryContracts(ctx context.Context, contracts []types.Contract) error {
	bySymbol := make(map[string]types.Contract, len(contracts))
	symbols := make([]string, 0, len(contracts))

	for _, c := range contracts {
		symbol := symbolOf(c)
		bySymbol[symbol] = c
		symbols = append(symbols, symbol)
	}

	infos, err := g.loadSymbols(ctx, symbols)
	if err != nil {
		return err
	}

	updated := make([]types.Contract, 0, len(infos))

	for i := range infos {
		info := &infos[i]

		c, ok := bySymbol[info.Symbol]
		if !ok {
			continue
		}

		lot := g.lotFor(info.Symbol)

		if filter := info.PriceFilter(); filter != nil {
			if tick, err := strconv.ParseFloat(filter.TickSize, 64); err == nil && tick > 0 {
				c.PriceTick = tick
			}
		}

		if filter := info.LotSizeFilter(); filter != nil {
			minQty, _ := strconv.ParseFloat(filter.MinQuantity, 64)
			maxQty, _ := strconv.ParseFloat(filter.MaxQuantity, 64)
			c.MinLimitOrderVolume = int64(math.Ceil(minQty/lot - volumeEpsilon))
			c.MaxLimitOrderVolume = toVolume(maxQty, lot)
		}

		updated = append(updated, c)
	}

	return g.loop.Call(ctx, g.config.QueryTimeout, func() {
		for _, c := range updated {
			g.callbacks.OnQueryContract(c)
		}
	})
}

// loadSymbols fetches exchange info and records base assets and lot sizes.
func (g *Gateway) loadSymbols(ctx context.Context, symbols []string) ([]binance.Symbol, error) {
	info, err := g.currentClient().NewExchangeInfoService().Symbols(symbols...).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get exchange info from Binance", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range info.Symbols {
		s := &info.Symbols[i]

		lot := 1.0
		if filter := s.LotSizeFilter(); filter != nil {
			if step, err := strconv.ParseFloat(filter.StepSize, 64); err == nil && step > 0 {
				lot = step
			}
		}

		if override, ok := g.config.LotSizes[s.Symbol]; ok {
			lot = override
		}

		g.symbols[s.Symbol] = symbolInfo{baseAsset: s.BaseAsset, lot: lot}
	}

	return info.Symbols, nil
}

func (g *Gateway) account(ctx context.Context) (*binance.Account, error) {
	if g.currentClient() == nil {
		return nil, errors.New(errors.ErrCodeNotLoggedIn, "binance gateway is not logged in")
	}

	account, err := g.currentClient().NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get account info from Binance", err)
	}

	return account, nil
}

// positions maps base asset balances to positions, for one symbol or for all
// known symbols when symbol is empty.
func (g *Gateway) positions(ctx context.Context, symbol string) ([]types.Position, error) {
	account, err := g.account(ctx)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]binance.Balance, len(account.Balances))
	for _, b := range account.Balances {
		balances[b.Asset] = b
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	positions := make([]types.Position, 0, len(g.symbols))

	for name, info := range g.symbols {
		if symbol != "" && name != symbol {
			continue
		}

		c := g.contractForSymbol(name)
		if c.IsNone() {
			continue
		}

		b, ok := balances[info.baseAsset]
		if !ok {
			continue
		}

		free, _ := strconv.ParseFloat(b.Free, 64)
		locked, _ := strconv.ParseFloat(b.Locked, 64)

		pos := types.Position{TickerIndex: c.Unwrap().Index}
		pos.Long.Volume = toVolume(free+locked, info.lot)
		pos.Long.Frozen = toVolume(locked, info.lot)
		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].TickerIndex < positions[j].TickerIndex })

	return positions, nil
}

func (g *Gateway) contractForSymbol(symbol string) optional.Option[types.Contract] {
	if c := g.contracts.GetByTicker(symbol); c.IsSome() {
		return c
	}

	if lister, ok := g.contracts.(contractLister); ok {
		for _, c := range lister.All() {
			if c.Symbol == symbol {
				return optional.Some(c)
			}
		}
	}

	return optional.None[types.Contract]()
}

// reconcile polls the status of every tracked order until stop is closed.
func (g *Gateway) reconcile(stop <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(g.config.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.reconcileOnce(ctx)
		}
	}
}

func (g *Gateway) reconcileOnce(ctx context.Context) {
	g.mu.RLock()
	tracked := make([]*trackedOrder, 0, len(g.orders))
	for _, order := range g.orders {
		tracked = append(tracked, order)
	}
	g.mu.RUnlock()

	if len(tracked) == 0 {
		return
	}

	open, err := g.currentClient().NewListOpenOrdersService().Do(ctx)
	if err != nil {
		g.log.Warn("Failed to list open orders", zap.Error(err))

		return
	}

	byClientID := make(map[string]*binance.Order, len(open))
	for _, o := range open {
		byClientID[o.ClientOrderID] = o
	}

	for _, order := range tracked {
		status, ok := byClientID[order.clientID]
		if !ok {
			// no longer open, fetch the final state
			status, err = g.currentClient().NewGetOrderService().
				Symbol(order.symbol).
				OrigClientOrderID(order.clientID).
				Do(ctx)
			if err != nil {
				g.log.Warn("Failed to get order status",
					zap.Uint64("order_id", order.req.OrderID),
					zap.String("client_order_id", order.clientID),
					zap.Error(err),
				)

				continue
			}
		}

		g.post(ctx, order.req.OrderID, status.Status, status.ExecutedQuantity, status.CummulativeQuoteQuantity)
	}
}

// post queues an order status update on the event loop.
func (g *Gateway) post(ctx context.Context, orderID uint64, status binance.OrderStatusType, executed, quote string) {
	err := g.loop.Post(ctx, func() { g.apply(orderID, status, executed, quote) })
	if err != nil {
		g.log.Warn("Order update not queued, reconcile will retry", zap.Uint64("order_id", orderID), zap.Error(err))
	}
}

// apply turns an exchange order snapshot into callbacks. It runs on the event
// loop, and fills are reported as deltas of the cumulative executed quantity.
func (g *Gateway) apply(orderID uint64, status binance.OrderStatusType, executedQty, cumQuote string) {
	g.mu.RLock()
	order, ok := g.orders[orderID]
	g.mu.RUnlock()

	if !ok {
		return
	}

	if status == binance.OrderStatusTypeRejected && !order.accepted {
		g.forget(orderID)
		g.callbacks.OnOrderRejected(orderID)

		return
	}

	if !order.accepted {
		order.accepted = true
		g.callbacks.OnOrderAccepted(orderID)
	}

	executed, _ := strconv.ParseFloat(executedQty, 64)
	traded := min(int64(math.Round(executed/order.lot)), order.req.Volume)

	if traded > order.traded {
		quote, err := decimal.NewFromString(cumQuote)
		if err != nil {
			quote = order.quote
		}

		delta := traded - order.traded
		price := order.req.Price

		deltaQuote := quote.Sub(order.quote)
		if deltaQuote.IsPositive() {
			price = deltaQuote.Div(decimal.NewFromFloat(float64(delta) * order.lot)).InexactFloat64()
		}

		order.traded = traded
		order.quote = quote
		g.callbacks.OnOrderTraded(orderID, delta, price)
	}

	switch status {
	case binance.OrderStatusTypeFilled,
		binance.OrderStatusTypeCanceled,
		binance.OrderStatusTypeExpired,
		binance.OrderStatusTypeRejected:
		g.forget(orderID)

		if remaining := order.req.Volume - order.traded; remaining > 0 {
			g.callbacks.OnOrderCanceled(orderID, remaining)
		}
	}
}

func (g *Gateway) forget(orderID uint64) {
	g.mu.Lock()
	delete(g.orders, orderID)
	g.mu.Unlock()
}

func (g *Gateway) currentClient() Client {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.client
}

func (g *Gateway) clientOrderID(orderID uint64) string {
	return fmt.Sprintf("%s-%d", g.config.ClientOrderPrefix, orderID)
}

func (g *Gateway) lotFor(symbol string) float64 {
	if lot, ok := g.config.LotSizes[symbol]; ok {
		return lot
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if info, ok := g.symbols[symbol]; ok {
		return info.lot
	}

	return 1
}

func (g *Gateway) symbolsFor(tickers []string) []string {
	symbols := make([]string, 0, len(tickers))

	for _, ticker := range tickers {
		if c := g.contracts.GetByTicker(ticker); c.IsSome() {
			symbols = append(symbols, symbolOf(c.Unwrap()))
		} else {
			symbols = append(symbols, ticker)
		}
	}

	return symbols
}

func (g *Gateway) isQuoteAsset(asset string) bool {
	for _, quote := range g.config.QuoteAssets {
		if quote == asset {
			return true
		}
	}

	return false
}

// mapOrder maps an order request to Binance side, type, and time in force.
func mapOrder(req types.OrderRequest) (binance.SideType, binance.OrderType, binance.TimeInForceType, error) {
	var side binance.SideType

	switch req.Direction {
	case types.DirectionBuy:
		side = binance.SideTypeBuy
	case types.DirectionSell:
		side = binance.SideTypeSell
	default:
		return "", "", "", errors.Newf(errors.ErrCodeInvalidOrderRequest, "unsupported direction: %s", req.Direction)
	}

	switch req.Type {
	case types.OrderTypeMarket, types.OrderTypeBest:
		return side, binance.OrderTypeMarket, "", nil
	case types.OrderTypeLimit:
		return side, binance.OrderTypeLimit, binance.TimeInForceTypeGTC, nil
	case types.OrderTypeFAK:
		return side, binance.OrderTypeLimit, binance.TimeInForceTypeIOC, nil
	case types.OrderTypeFOK:
		return side, binance.OrderTypeLimit, binance.TimeInForceTypeFOK, nil
	default:
		return "", "", "", errors.Newf(errors.ErrCodeInvalidOrderRequest, "unsupported order type: %s", req.Type)
	}
}

func symbolOf(c types.Contract) string {
	if c.Symbol != "" {
		return c.Symbol
	}

	return c.Ticker
}

func formatQuantity(volume int64, lot float64) string {
	return decimal.NewFromInt(volume).Mul(decimal.NewFromFloat(lot)).Round(quantityPrecision).String()
}

// toVolume converts a base asset quantity to whole volume units.
func toVolume(quantity, lot float64) int64 {
	return int64(math.Floor(quantity/lot + volumeEpsilon))
}

func formatPrice(price, tick float64) string {
	if tick <= 0 {
		return strconv.FormatFloat(price, 'f', -1, 64)
	}

	return utils.FormatPrice(price, tick)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
