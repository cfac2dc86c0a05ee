package binance

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/gateway"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// Fake implementations of the Binance services

type createCall struct {
	symbol    string
	side      binance.SideType
	orderType binance.OrderType
	tif       binance.TimeInForceType
	quantity  string
	price     string
	clientID  string
	respType  binance.NewOrderRespType
}

type fakeClient struct {
	mu sync.Mutex

	creates    []createCall
	createResp *binance.CreateOrderResponse
	createErr  error

	cancels    []string
	cancelResp *binance.CancelOrderResponse
	cancelErr  error

	open     []*binance.Order
	openErr  error
	finished map[string]*binance.Order

	account  *binance.Account
	exchange *binance.ExchangeInfo
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		finished: make(map[string]*binance.Order),
		exchange: &binance.ExchangeInfo{Symbols: []binance.Symbol{{
			Symbol:     "BTCUSDT",
			BaseAsset:  "BTC",
			QuoteAsset: "USDT",
			Filters: []map[string]interface{}{
				{"filterType": "LOT_SIZE", "minQty": "0.00001000", "maxQty": "9000.00000000", "stepSize": "0.00100000"},
				{"filterType": "PRICE_FILTER", "minPrice": "0.01000000", "maxPrice": "1000000.00000000", "tickSize": "0.01000000"},
			},
		}}},
	}
}

func (f *fakeClient) setOpen(orders ...*binance.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.open = orders
}

func (f *fakeClient) setFinished(order *binance.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finished[order.ClientOrderID] = order
}

func (f *fakeClient) NewCreateOrderService() CreateOrderService {
	return &fakeCreateOrderService{client: f}
}

func (f *fakeClient) NewCancelOrderService() CancelOrderService {
	return &fakeCancelOrderService{client: f}
}

func (f *fakeClient) NewGetOrderService() GetOrderService {
	return &fakeGetOrderService{client: f}
}

func (f *fakeClient) NewListOpenOrdersService() ListOpenOrdersService {
	return &fakeListOpenOrdersService{client: f}
}

func (f *fakeClient) NewGetAccountService() GetAccountService {
	return &fakeGetAccountService{client: f}
}

func (f *fakeClient) NewExchangeInfoService() ExchangeInfoService {
	return &fakeExchangeInfoService{client: f}
}

type fakeCreateOrderService struct {
	client *fakeClient
	call   createCall
}

func (s *fakeCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.call.symbol = symbol

	return s
}

func (s *fakeCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.call.side = side

	return s
}

func (s *fakeCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.call.orderType = orderType

	return s
}

func (s *fakeCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	s.call.tif = tif

	return s
}

func (s *fakeCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.call.quantity = quantity

	return s
}

func (s *fakeCreateOrderService) Price(price string) CreateOrderService {
	s.call.price = price

	return s
}

func (s *fakeCreateOrderService) NewClientOrderID(id string) CreateOrderService {
	s.call.clientID = id

	return s
}

func (s *fakeCreateOrderService) NewOrderRespType(respType binance.NewOrderRespType) CreateOrderService {
	s.call.respType = respType

	return s
}

func (s *fakeCreateOrderService) Do(context.Context) (*binance.CreateOrderResponse, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()

	s.client.creates = append(s.client.creates, s.call)

	return s.client.createResp, s.client.createErr
}

type fakeCancelOrderService struct {
	client   *fakeClient
	clientID string
}

func (s *fakeCancelOrderService) Symbol(string) CancelOrderService {
	return s
}

func (s *fakeCancelOrderService) OrigClientOrderID(id string) CancelOrderService {
	s.clientID = id

	return s
}

func (s *fakeCancelOrderService) Do(context.Context) (*binance.CancelOrderResponse, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()

	s.client.cancels = append(s.client.cancels, s.clientID)

	return s.client.cancelResp, s.client.cancelErr
}

type fakeGetOrderService struct {
	client   *fakeClient
	clientID string
}

func (s *fakeGetOrderService) Symbol(string) GetOrderService {
	return s
}

func (s *fakeGetOrderService) OrigClientOrderID(id string) GetOrderService {
	s.clientID = id

	return s
}

func (s *fakeGetOrderService) Do(context.Context) (*binance.Order, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()

	order, ok := s.client.finished[s.clientID]
	if !ok {
		return nil, &common.APIError{Code: -2013, Message: "Order does not exist."}
	}

	return order, nil
}

type fakeListOpenOrdersService struct {
	client *fakeClient
}

func (s *fakeListOpenOrdersService) Symbol(string) ListOpenOrdersService {
	return s
}

func (s *fakeListOpenOrdersService) Do(context.Context) ([]*binance.Order, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()

	return s.client.open, s.client.openErr
}

type fakeGetAccountService struct {
	client *fakeClient
}

func (s *fakeGetAccountService) Do(context.Context) (*binance.Account, error) {
	return s.client.account, nil
}

type fakeExchangeInfoService struct {
	client *fakeClient
}

func (s *fakeExchangeInfoService) Symbols(...string) ExchangeInfoService {
	return s
}

func (s *fakeExchangeInfoService) Do(context.Context) (*binance.ExchangeInfo, error) {
	return s.client.exchange, nil
}

type event struct {
	kind     string
	orderID  uint64
	volume   int64
	price    float64
	account  types.Account
	position types.Position
	contract types.Contract
}

type recorder struct {
	events chan event
}

func (r *recorder) OnOrderAccepted(id uint64) { r.events <- event{kind: "accepted", orderID: id} }

func (r *recorder) OnOrderRejected(id uint64) { r.events <- event{kind: "rejected", orderID: id} }

func (r *recorder) OnOrderTraded(id uint64, volume int64, price float64) {
	r.events <- event{kind: "traded", orderID: id, volume: volume, price: price}
}

func (r *recorder) OnOrderCanceled(id uint64, volume int64) {
	r.events <- event{kind: "canceled", orderID: id, volume: volume}
}

func (r *recorder) OnOrderCancelRejected(id uint64) {
	r.events <- event{kind: "cancel_rejected", orderID: id}
}

func (r *recorder) OnTick(types.TickData) {}

func (r *recorder) OnQueryAccount(account types.Account) {
	r.events <- event{kind: "account", account: account}
}

func (r *recorder) OnQueryPosition(pos types.Position) {
	r.events <- event{kind: "position", position: pos}
}

func (r *recorder) OnQueryContract(c types.Contract) {
	r.events <- event{kind: "contract", contract: c}
}

type BinanceGatewayTestSuite struct {
	suite.Suite
	ctx       context.Context
	client    *fakeClient
	contracts *contract.Table
	recorder  *recorder
	gateway   *Gateway
}

func TestBinanceGatewaySuite(t *testing.T) {
	suite.Run(t, new(BinanceGatewayTestSuite))
}

func (s *BinanceGatewayTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client = newFakeClient()
	s.contracts = contract.NewTable()
	s.Require().NoError(s.contracts.Add(types.Contract{Index: 1, Ticker: "BTCUSDT", Exchange: "binance", Size: 1, ProductType: types.ProductTypeCrypto}))
	s.recorder = &recorder{events: make(chan event, 64)}

	cfg := DefaultConfig()
	cfg.ReconcileInterval = 5 * time.Millisecond

	gw, err := NewWithClient(cfg, gateway.Dependencies{
		Callbacks: s.recorder,
		Contracts: s.contracts,
		Logger:    logger.NewNopLogger(),
	}, s.client)
	s.Require().NoError(err)

	s.gateway = gw
	s.Require().NoError(s.gateway.Login(s.ctx, types.LoginParams{Gateway: Name, Tickers: []string{"BTCUSDT"}}))
}

func (s *BinanceGatewayTestSuite) TearDownTest() {
	s.Require().NoError(s.gateway.Logout(s.ctx))
}

func (s *BinanceGatewayTestSuite) next() event {
	select {
	case ev := <-s.recorder.events:
		return ev
	case <-time.After(2 * time.Second):
		s.FailNow("no callback received")

		return event{}
	}
}

func (s *BinanceGatewayTestSuite) expect(kind string, orderID uint64) event {
	ev := s.next()
	s.Require().Equal(kind, ev.kind)
	s.Require().Equal(orderID, ev.orderID)

	return ev
}

func (s *BinanceGatewayTestSuite) tracked() int {
	s.gateway.mu.RLock()
	defer s.gateway.mu.RUnlock()

	return len(s.gateway.orders)
}

func (s *BinanceGatewayTestSuite) send(id uint64, typ types.OrderType, volume int64, price float64) error {
	return s.gateway.SendOrder(s.ctx, types.OrderRequest{
		OrderID:     id,
		TickerIndex: 1,
		Direction:   types.DirectionBuy,
		Offset:      types.OffsetOpen,
		Type:        typ,
		Volume:      volume,
		Price:       price,
	})
}

func newResponse(status binance.OrderStatusType, executed, quote string) *binance.CreateOrderResponse {
	return &binance.CreateOrderResponse{
		Symbol:                   "BTCUSDT",
		OrderID:                  1001,
		Status:                   status,
		ExecutedQuantity:         executed,
		CummulativeQuoteQuantity: quote,
	}
}

func (s *BinanceGatewayTestSuite) TestSendLimitOrder() {
	s.client.createResp = newResponse(binance.OrderStatusTypeNew, "0", "0")

	s.Require().NoError(s.send(5, types.OrderTypeLimit, 2, 50000.5))
	s.expect("accepted", 5)

	s.Require().Len(s.client.creates, 1)
	call := s.client.creates[0]
	s.Equal("BTCUSDT", call.symbol)
	s.Equal(binance.SideTypeBuy, call.side)
	s.Equal(binance.OrderTypeLimit, call.orderType)
	s.Equal(binance.TimeInForceTypeGTC, call.tif)
	s.Equal("0.002", call.quantity)
	s.Equal("50000.5", call.price)
	s.Equal("oms-5", call.clientID)
	s.Equal(binance.NewOrderRespTypeFULL, call.respType)
}

func (s *BinanceGatewayTestSuite) TestMarketOrderFilledInResponse() {
	s.client.createResp = newResponse(binance.OrderStatusTypeFilled, "0.00200000", "100.40000000")

	s.Require().NoError(s.send(6, types.OrderTypeMarket, 2, 0))
	s.expect("accepted", 6)

	fill := s.expect("traded", 6)
	s.Equal(int64(2), fill.volume)
	s.InDelta(50200.0, fill.price, 1e-9)

	s.Equal(binance.OrderTypeMarket, s.client.creates[0].orderType)
	s.Empty(s.client.creates[0].price)

	s.Eventually(func() bool { return s.tracked() == 0 }, time.Second, 5*time.Millisecond)
}

func (s *BinanceGatewayTestSuite) TestRejectedResponse() {
	s.client.createResp = newResponse(binance.OrderStatusTypeRejected, "0", "0")

	s.Require().NoError(s.send(8, types.OrderTypeLimit, 1, 100))
	s.expect("rejected", 8)
}

func (s *BinanceGatewayTestSuite) TestSendFailure() {
	s.client.createErr = &common.APIError{Code: -2010, Message: "Account has insufficient balance"}

	err := s.send(9, types.OrderTypeLimit, 1, 100)
	s.True(errors.HasCode(err, errors.ErrCodeGatewaySendFailed))

	s.Require().NoError(s.gateway.CancelOrder(s.ctx, 9))
	s.expect("cancel_rejected", 9)
}

func (s *BinanceGatewayTestSuite) TestReconcileReportsFillsAndCancel() {
	s.client.createResp = newResponse(binance.OrderStatusTypeNew, "0", "0")

	s.Require().NoError(s.send(7, types.OrderTypeLimit, 3, 50000))
	s.expect("accepted", 7)

	s.client.setOpen(&binance.Order{
		ClientOrderID:            "oms-7",
		Status:                   binance.OrderStatusTypePartiallyFilled,
		ExecutedQuantity:         "0.001",
		CummulativeQuoteQuantity: "49.99",
	})

	fill := s.expect("traded", 7)
	s.Equal(int64(1), fill.volume)
	s.InDelta(49990.0, fill.price, 1e-6)

	s.client.setFinished(&binance.Order{
		ClientOrderID:            "oms-7",
		Status:                   binance.OrderStatusTypeCanceled,
		ExecutedQuantity:         "0.002",
		CummulativeQuoteQuantity: "99.99",
	})
	s.client.setOpen()

	fill = s.expect("traded", 7)
	s.Equal(int64(1), fill.volume)
	s.InDelta(50000.0, fill.price, 1e-6)

	s.Equal(int64(1), s.expect("canceled", 7).volume)
	s.Eventually(func() bool { return s.tracked() == 0 }, time.Second, 5*time.Millisecond)

	// nothing else is reported for a finished order
	select {
	case ev := <-s.recorder.events:
		s.Failf("unexpected callback", "%+v", ev)
	case <-time.After(30 * time.Millisecond):
	}
}

func (s *BinanceGatewayTestSuite) TestCancelOrder() {
	s.client.createResp = newResponse(binance.OrderStatusTypeNew, "0", "0")
	s.Require().NoError(s.send(3, types.OrderTypeLimit, 2, 100))
	s.expect("accepted", 3)

	s.client.cancelErr = stderrors.New("connection reset")
	s.True(errors.HasCode(s.gateway.CancelOrder(s.ctx, 3), errors.ErrCodeCancelFailed))

	s.client.cancelErr = &common.APIError{Code: -2011, Message: "Unknown order sent."}
	s.Require().NoError(s.gateway.CancelOrder(s.ctx, 3))
	s.expect("cancel_rejected", 3)

	s.client.cancelErr = nil
	s.client.cancelResp = &binance.CancelOrderResponse{
		OrigClientOrderID: "oms-3",
		Status:            binance.OrderStatusTypeCanceled,
		ExecutedQuantity:  "0",
	}
	s.Require().NoError(s.gateway.CancelOrder(s.ctx, 3))
	s.Equal(int64(2), s.expect("canceled", 3).volume)
	s.Equal([]string{"oms-3", "oms-3", "oms-3"}, s.client.cancels)
}

func (s *BinanceGatewayTestSuite) TestQueryAccountAndPositions() {
	s.client.account = &binance.Account{Balances: []binance.Balance{
		{Asset: "USDT", Free: "1000.0", Locked: "200.0"},
		{Asset: "BTC", Free: "0.5", Locked: "0.1"},
		{Asset: "ETH", Free: "3", Locked: "0"},
	}}

	s.Require().NoError(s.gateway.QueryAccount(s.ctx))

	acct := s.next()
	s.Require().Equal("account", acct.kind)
	s.Equal(1200.0, acct.account.Balance)
	s.Equal(200.0, acct.account.Frozen)
	s.Equal(Name, acct.account.AccountID)

	s.Require().NoError(s.gateway.QueryPositions(s.ctx))

	pos := s.next()
	s.Require().Equal("position", pos.kind)
	s.Equal(uint64(1), pos.position.TickerIndex)
	s.Equal(int64(600), pos.position.Long.Volume)
	s.Equal(int64(100), pos.position.Long.Frozen)

	s.Require().NoError(s.gateway.QueryPosition(s.ctx, "BTCUSDT"))
	s.Equal(int64(600), s.next().position.Long.Volume)

	s.True(errors.HasCode(s.gateway.QueryPosition(s.ctx, "ETHUSDT"), errors.ErrCodeContractNotFound))
}

func (s *BinanceGatewayTestSuite) TestQueryContracts() {
	s.Require().NoError(s.gateway.QueryContracts(s.ctx))

	ev := s.next()
	s.Require().Equal("contract", ev.kind)
	s.Equal(uint64(1), ev.contract.Index)
	s.Equal(0.01, ev.contract.PriceTick)
	s.Equal(int64(1), ev.contract.MinLimitOrderVolume)
	s.Equal(int64(9_000_000), ev.contract.MaxLimitOrderVolume)

	s.True(errors.HasCode(s.gateway.QueryMarginRate(s.ctx, "BTCUSDT"), errors.ErrCodeNotSupported))
	s.True(errors.HasCode(s.gateway.QueryCommissionRate(s.ctx, "BTCUSDT"), errors.ErrCodeNotSupported))
}

func (s *BinanceGatewayTestSuite) TestLotSizeOverride() {
	s.Require().NoError(s.gateway.Logout(s.ctx))

	cfg := DefaultConfig()
	cfg.LotSizes = map[string]float64{"BTCUSDT": 0.1}

	gw, err := NewWithClient(cfg, gateway.Dependencies{Callbacks: s.recorder, Contracts: s.contracts}, s.client)
	s.Require().NoError(err)

	s.gateway = gw
	s.Require().NoError(s.gateway.Login(s.ctx, types.LoginParams{Tickers: []string{"BTCUSDT"}}))

	s.client.createResp = newResponse(binance.OrderStatusTypeNew, "0", "0")
	s.Require().NoError(s.send(1, types.OrderTypeLimit, 3, 100))
	s.expect("accepted", 1)
	s.Equal("0.3", s.client.creates[0].quantity)
}

func (s *BinanceGatewayTestSuite) TestRequiresLogin() {
	gw, err := New(DefaultConfig(), gateway.Dependencies{Callbacks: s.recorder, Contracts: s.contracts})
	s.Require().NoError(err)

	s.True(errors.HasCode(gw.SendOrder(s.ctx, types.OrderRequest{TickerIndex: 1}), errors.ErrCodeNotLoggedIn))
	s.True(errors.HasCode(gw.CancelOrder(s.ctx, 1), errors.ErrCodeNotLoggedIn))
	s.True(errors.HasCode(gw.Login(s.ctx, types.LoginParams{}), errors.ErrCodeMissingParameter))
}

func (s *BinanceGatewayTestSuite) TestConfigValidation() {
	cfg := DefaultConfig()
	cfg.ClientOrderPrefix = "not-alnum"

	_, err := New(cfg, gateway.Dependencies{Callbacks: s.recorder, Contracts: s.contracts})
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = New(DefaultConfig(), gateway.Dependencies{})
	s.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	registry := gateway.NewRegistry()
	s.Require().NoError(registry.Register(Name, NewFactory(DefaultConfig())))

	gw, err := registry.Create(Name, gateway.Dependencies{Callbacks: s.recorder, Contracts: s.contracts})
	s.Require().NoError(err)
	s.IsType(&Gateway{}, gw)
}

func (s *BinanceGatewayTestSuite) TestMapOrder() {
	tests := []struct {
		name      string
		typ       types.OrderType
		orderType binance.OrderType
		tif       binance.TimeInForceType
	}{
		{"limit", types.OrderTypeLimit, binance.OrderTypeLimit, binance.TimeInForceTypeGTC},
		{"market", types.OrderTypeMarket, binance.OrderTypeMarket, ""},
		{"best", types.OrderTypeBest, binance.OrderTypeMarket, ""},
		{"fak", types.OrderTypeFAK, binance.OrderTypeLimit, binance.TimeInForceTypeIOC},
		{"fok", types.OrderTypeFOK, binance.OrderTypeLimit, binance.TimeInForceTypeFOK},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			side, orderType, tif, err := mapOrder(types.OrderRequest{Direction: types.DirectionSell, Type: tc.typ})
			s.Require().NoError(err)
			s.Equal(binance.SideTypeSell, side)
			s.Equal(tc.orderType, orderType)
			s.Equal(tc.tif, tif)
		})
	}

	_, _, _, err := mapOrder(types.OrderRequest{Direction: types.DirectionBuy, Type: types.OrderType(99)})
	s.True(errors.HasCode(err, errors.ErrCodeInvalidOrderRequest))
}
