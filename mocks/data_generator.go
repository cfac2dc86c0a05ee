package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/types"
)

// TickGenerator generates realistic level-2 ticks for testing.
type TickGenerator struct {
	rng *rand.Rand
}

// NewTickGenerator creates a new TickGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewTickGenerator(seed int64) *TickGenerator {
	return &TickGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how ticks are generated.
type GeneratorConfig struct {
	// TickerIndex is stamped on every tick
	TickerIndex uint64
	// StartTime is the time of the first tick
	StartTime time.Time
	// Interval is the duration between ticks
	Interval time.Duration
	// Count is the number of ticks to generate
	Count int
	// InitialPrice is the starting last price
	InitialPrice float64
	// PriceTick is the minimum price increment of the book levels
	PriceTick float64
	// Volatility controls price movement per tick (0.001 = 0.1%)
	Volatility float64
	// VolumeBase is the average quantity per book level
	VolumeBase float64
	// Levels is the number of populated book levels, at most types.MarketLevel
	Levels int
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		TickerIndex:  1,
		StartTime:    time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		Interval:     500 * time.Millisecond,
		Count:        1000,
		InitialPrice: 3700,
		PriceTick:    1,
		Volatility:   0.0005,
		VolumeBase:   50,
		Levels:       5,
	}
}

// Generate creates a slice of ticks following a geometric Brownian motion for
// the last price, with a book laid out on the price tick grid around it.
func (g *TickGenerator) Generate(config GeneratorConfig) []types.TickData {
	levels := min(max(config.Levels, 1), types.MarketLevel)
	tick := config.PriceTick
	if tick <= 0 {
		tick = 0.01
	}

	data := make([]types.TickData, config.Count)
	last := config.InitialPrice
	open := roundToTick(last, tick)
	high, low := open, open
	current := config.StartTime

	var cumVolume, turnover uint64

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		next := last * (1 + config.Volatility*z)
		if next <= tick {
			next = last
		}

		last = next
		price := roundToTick(last, tick)
		high = math.Max(high, price)
		low = math.Min(low, price)

		traded := uint64(config.VolumeBase * (0.5 + g.rng.Float64()))
		cumVolume += traded
		turnover += uint64(float64(traded) * price)

		t := types.TickData{
			TickerIndex:   config.TickerIndex,
			Date:          uint64(current.Year()*10000 + int(current.Month())*100 + current.Day()),
			TimeSec:       uint64(current.Hour()*3600 + current.Minute()*60 + current.Second()),
			TimeMs:        uint64(current.Nanosecond() / int(time.Millisecond)),
			LastPrice:     price,
			OpenPrice:     open,
			HighestPrice:  high,
			LowestPrice:   low,
			PreClosePrice: roundToTick(config.InitialPrice, tick),
			Volume:        cumVolume,
			Turnover:      turnover,
			OpenInterest:  uint64(100000 + g.rng.Intn(1000)),
			Level:         int32(levels),
		}

		t.UpperLimitPrice = roundToTick(t.PreClosePrice*1.1, tick)
		t.LowerLimitPrice = roundToTick(t.PreClosePrice*0.9, tick)

		for lvl := 0; lvl < levels; lvl++ {
			t.Ask[lvl] = price + float64(lvl+1)*tick
			t.Bid[lvl] = price - float64(lvl+1)*tick
			t.AskVolume[lvl] = uint64(config.VolumeBase*(0.5+g.rng.Float64())) + 1
			t.BidVolume[lvl] = uint64(config.VolumeBase*(0.5+g.rng.Float64())) + 1
		}

		data[i] = t
		current = current.Add(config.Interval)
	}

	return data
}

// roundToTick rounds a price to the nearest multiple of tick.
func roundToTick(val float64, tick float64) float64 {
	return math.Round(val/tick) * tick
}
