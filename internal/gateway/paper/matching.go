package paper

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// handleNewOrder runs on the event loop.
//
// Market and BEST orders fill in full at the touch, or are rejected when no
// tick has been seen. Limit orders fill against the touch when they cross and
// rest otherwise. FAK cancels whatever did not fill immediately; FOK fills
// only when the touch can take the whole volume.
func (g *Gateway) handleNewOrder(req types.OrderRequest, c types.Contract) {
	order := &restingOrder{req: req, contract: c, remaining: req.Volume}

	if reason := g.checkOrder(order); reason != "" {
		g.log.Warn("Order rejected",
			zap.Uint64("order_id", req.OrderID),
			zap.String("ticker", c.Ticker),
			zap.String("reason", reason),
		)
		g.callbacks.OnOrderRejected(req.OrderID)

		return
	}

	tick, hasTick := g.ticks[c.Index]

	switch req.Type {
	case types.OrderTypeMarket, types.OrderTypeBest:
		price, _ := touch(req.Direction, tick)
		if !hasTick || price <= 0 {
			g.log.Warn("Market order rejected, no market price", zap.Uint64("order_id", req.OrderID), zap.String("ticker", c.Ticker))
			g.callbacks.OnOrderRejected(req.OrderID)

			return
		}

		g.callbacks.OnOrderAccepted(req.OrderID)
		g.fill(order, order.remaining, price)
	case types.OrderTypeFOK:
		g.callbacks.OnOrderAccepted(req.OrderID)

		price, depth := touch(req.Direction, tick)
		if !hasTick || !crosses(order, price) || (depth > 0 && depth < order.remaining) {
			g.callbacks.OnOrderCanceled(req.OrderID, order.remaining)

			return
		}

		g.fill(order, order.remaining, price)
	default:
		g.callbacks.OnOrderAccepted(req.OrderID)

		if hasTick {
			price, depth := touch(req.Direction, tick)
			g.match(order, price, &depth)
		}

		if order.remaining == 0 {
			return
		}

		if req.Type == types.OrderTypeFAK {
			g.callbacks.OnOrderCanceled(req.OrderID, order.remaining)

			return
		}

		g.book[req.OrderID] = order
	}
}

// checkOrder returns a rejection reason, or "" when the order may enter the venue.
func (g *Gateway) checkOrder(order *restingOrder) string {
	req := order.req

	if _, exists := g.book[req.OrderID]; exists {
		return "duplicate order id"
	}

	if req.Offset.IsClose() {
		held := g.holding(order.contract.Index).Side(req.Direction.Opposite()).Volume
		if req.Volume > held-g.reservedClose(order.contract.Index, req.Direction) {
			return "insufficient position to close"
		}

		return ""
	}

	if g.config.InitialBalance <= 0 {
		return ""
	}

	price := req.Price
	if req.Type == types.OrderTypeMarket || req.Type == types.OrderTypeBest || price <= 0 {
		price, _ = touch(req.Direction, g.ticks[order.contract.Index])
	}

	required := g.margin(price, req.Volume, order.contract.Size)
	if required.GreaterThan(g.available()) {
		return "insufficient buying power"
	}

	return ""
}

func (g *Gateway) onTick(tick types.TickData) {
	g.ticks[tick.TickerIndex] = tick
	g.callbacks.OnTick(tick)

	ids := make([]uint64, 0, len(g.book))
	for id, order := range g.book {
		if order.contract.Index == tick.TickerIndex {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	askPrice, askDepth := touch(types.DirectionBuy, tick)
	bidPrice, bidDepth := touch(types.DirectionSell, tick)

	for _, id := range ids {
		order := g.book[id]

		if order.req.Direction == types.DirectionBuy {
			g.match(order, askPrice, &askDepth)
		} else {
			g.match(order, bidPrice, &bidDepth)
		}

		if order.remaining == 0 {
			delete(g.book, id)
		}
	}
}

// match fills order against the touch. depth is the volume left at the touch,
// zero meaning unknown and unlimited; it is consumed by the fill.
func (g *Gateway) match(order *restingOrder, price float64, depth *int64) {
	if price <= 0 || !crosses(order, price) {
		return
	}

	volume := order.remaining
	if *depth > 0 {
		volume = min(volume, *depth)
		*depth -= volume

		if *depth == 0 {
			// the touch is exhausted for this tick
			*depth = -1
		}
	} else if *depth < 0 {
		return
	}

	g.fill(order, volume, price)
}

func (g *Gateway) fill(order *restingOrder, volume int64, price float64) {
	order.remaining -= volume

	c := order.contract
	notional := price * float64(volume) * float64(c.Size)
	fee := g.commission.Calculate(volume, notional)
	realized := g.applyFill(order.req, c, volume, price)

	g.balance = g.balance.Add(realized).Sub(decimal.NewFromFloat(fee))

	g.log.Debug("Paper fill",
		zap.String("trade_id", uuid.NewString()),
		zap.Uint64("order_id", order.req.OrderID),
		zap.String("ticker", c.Ticker),
		zap.String("direction", order.req.Direction.String()),
		zap.String("offset", order.req.Offset.String()),
		zap.Int64("volume", volume),
		zap.Float64("price", price),
		zap.Float64("fee", fee),
	)

	g.callbacks.OnOrderTraded(order.req.OrderID, volume, price)
}

// applyFill updates the venue's own holdings and returns the realized PnL.
func (g *Gateway) applyFill(req types.OrderRequest, c types.Contract, volume int64, price float64) decimal.Decimal {
	side := req.Direction
	if req.Offset.IsClose() {
		side = side.Opposite()
	}

	detail := g.holding(c.Index).Side(side)
	qty := decimal.NewFromInt(volume)
	px := decimal.NewFromFloat(price)
	cost := decimal.NewFromFloat(detail.CostPrice)

	if !req.Offset.IsClose() {
		held := decimal.NewFromInt(detail.Volume)
		detail.Volume += volume
		detail.CostPrice = held.Mul(cost).Add(qty.Mul(px)).Div(decimal.NewFromInt(detail.Volume)).InexactFloat64()

		return decimal.Zero
	}

	volume = min(volume, detail.Volume)
	detail.Volume -= volume

	pnl := decimal.NewFromInt(c.Size).Mul(decimal.NewFromInt(volume)).Mul(px.Sub(cost))
	if side == types.DirectionSell {
		pnl = pnl.Neg()
	}

	if detail.Volume == 0 {
		detail.CostPrice = 0
	}

	return pnl
}

func (g *Gateway) holding(tickerIndex uint64) *types.Position {
	pos, ok := g.holdings[tickerIndex]
	if !ok {
		pos = &types.Position{TickerIndex: tickerIndex}
		g.holdings[tickerIndex] = pos
	}

	return pos
}

// reservedClose is the volume already working in resting close orders of the
// given direction.
func (g *Gateway) reservedClose(tickerIndex uint64, direction types.Direction) int64 {
	var reserved int64

	for _, order := range g.book {
		if order.contract.Index == tickerIndex && order.req.Direction == direction && order.req.Offset.IsClose() {
			reserved += order.remaining
		}
	}

	return reserved
}

func (g *Gateway) margin(price float64, volume int64, size int64) decimal.Decimal {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(volume)).
		Mul(decimal.NewFromInt(size)).
		Mul(decimal.NewFromFloat(g.config.MarginRate))
}

// usedMargin is the margin locked by holdings.
func (g *Gateway) usedMargin() decimal.Decimal {
	total := decimal.Zero

	for index, pos := range g.holdings {
		size := int64(1)
		if c := g.contracts.Get(index); c.IsSome() {
			size = c.Unwrap().Size
		}

		total = total.Add(g.margin(pos.Long.CostPrice, pos.Long.Volume, size))
		total = total.Add(g.margin(pos.Short.CostPrice, pos.Short.Volume, size))
	}

	return total
}

// frozen is the margin reserved by resting opening orders.
func (g *Gateway) frozen() decimal.Decimal {
	total := decimal.Zero

	for _, order := range g.book {
		if !order.req.Offset.IsClose() {
			total = total.Add(g.margin(order.req.Price, order.remaining, order.contract.Size))
		}
	}

	return total
}

func (g *Gateway) available() decimal.Decimal {
	return g.balance.Sub(g.usedMargin()).Sub(g.frozen())
}

func (g *Gateway) account() types.Account {
	return types.Account{
		AccountID: g.accountID,
		Balance:   g.balance.InexactFloat64(),
		Frozen:    g.frozen().InexactFloat64(),
		Margin:    g.usedMargin().InexactFloat64(),
	}
}

// touch returns the price and volume an order of the given direction trades
// against: the best ask for buys and the best bid for sells, falling back to
// the last price with unknown depth.
func touch(direction types.Direction, tick types.TickData) (float64, int64) {
	if direction == types.DirectionBuy {
		if tick.Ask[0] > 0 {
			return tick.Ask[0], int64(tick.AskVolume[0])
		}
	} else if tick.Bid[0] > 0 {
		return tick.Bid[0], int64(tick.BidVolume[0])
	}

	return tick.LastPrice, 0
}

func crosses(order *restingOrder, price float64) bool {
	if order.req.Type == types.OrderTypeMarket || order.req.Type == types.OrderTypeBest {
		return true
	}

	if order.req.Direction == types.DirectionBuy {
		return order.req.Price >= price
	}

	return order.req.Price <= price
}
