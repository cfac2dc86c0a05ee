package paper

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/internal/utils"
	"go.uber.org/zap"
)

type simulatedInstrument struct {
	contract types.Contract
	last     float64
	open     float64
	high     float64
	low      float64
	volume   uint64
	turnover uint64
}

// simulate feeds a geometric Brownian motion tick stream for every ticker
// with a configured initial price until stop is closed.
func (g *Gateway) simulate(stop <-chan struct{}, tickers []string) {
	cfg := g.config.Simulator
	rng := rand.New(rand.NewSource(cfg.Seed))

	instruments := make([]*simulatedInstrument, 0, len(tickers))

	for _, ticker := range tickers {
		c := g.contracts.GetByTicker(ticker)
		price := cfg.InitialPrices[ticker]

		if c.IsNone() || price <= 0 {
			g.log.Warn("Ticker not simulated, missing contract or initial price", zap.String("ticker", ticker))

			continue
		}

		instruments = append(instruments, &simulatedInstrument{contract: c.Unwrap(), last: price, open: price, high: price, low: price})
	}

	if len(instruments) == 0 {
		return
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultConfig().Simulator.Interval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			for _, inst := range instruments {
				tick := inst.next(rng, cfg.Volatility, now)

				if err := g.enqueue(context.Background(), func() { g.onTick(tick) }); err != nil {
					return
				}
			}
		}
	}
}

func (s *simulatedInstrument) next(rng *rand.Rand, volatility float64, now time.Time) types.TickData {
	tickSize := s.contract.PriceTick
	if tickSize <= 0 {
		tickSize = 0.01
	}

	// Box-Muller transform for normal distribution
	u1 := rng.Float64()
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	if next := s.last * (1 + volatility*z); next > tickSize {
		s.last = next
	}

	price := utils.RoundToPriceTick(s.last, tickSize)
	s.high = math.Max(s.high, price)
	s.low = math.Min(s.low, price)

	traded := uint64(1 + rng.Intn(20))
	s.volume += traded
	s.turnover += uint64(float64(traded) * price * float64(s.contract.Size))

	tick := types.TickData{
		TickerIndex:   s.contract.Index,
		Date:          uint64(now.Year()*10000 + int(now.Month())*100 + now.Day()),
		TimeSec:       uint64(now.Hour()*3600 + now.Minute()*60 + now.Second()),
		TimeMs:        uint64(now.Nanosecond() / int(time.Millisecond)),
		LastPrice:     price,
		OpenPrice:     utils.RoundToPriceTick(s.open, tickSize),
		HighestPrice:  s.high,
		LowestPrice:   s.low,
		PreClosePrice: utils.RoundToPriceTick(s.open, tickSize),
		Volume:        s.volume,
		Turnover:      s.turnover,
		Level:         1,
	}

	tick.Ask[0] = price + tickSize
	tick.Bid[0] = price - tickSize
	tick.AskVolume[0] = uint64(1 + rng.Intn(50))
	tick.BidVolume[0] = uint64(1 + rng.Intn(50))

	return tick
}
