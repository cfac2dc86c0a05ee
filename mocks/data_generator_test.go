package mocks

import (
	"math"
	"testing"
)

func TestTickGenerator_Generate(t *testing.T) {
	gen := NewTickGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)

	if len(data) != 100 {
		t.Fatalf("expected 100 ticks, got %d", len(data))
	}

	for i, d := range data {
		if d.TickerIndex != config.TickerIndex {
			t.Errorf("expected ticker %d at index %d, got %d", config.TickerIndex, i, d.TickerIndex)
		}

		if d.LastPrice <= 0 {
			t.Errorf("non-positive last price at index %d: %f", i, d.LastPrice)
		}

		if d.HighestPrice < d.LowestPrice {
			t.Errorf("high < low at index %d: H=%f L=%f", i, d.HighestPrice, d.LowestPrice)
		}

		if d.Bid[0] >= d.Ask[0] {
			t.Errorf("crossed book at index %d: bid=%f ask=%f", i, d.Bid[0], d.Ask[0])
		}

		if r := math.Mod(d.LastPrice, config.PriceTick); r > 1e-9 && config.PriceTick-r > 1e-9 {
			t.Errorf("last price off tick grid at index %d: %f", i, d.LastPrice)
		}

		if int(d.Level) != config.Levels {
			t.Errorf("expected %d levels, got %d", config.Levels, d.Level)
		}
	}

	// cumulative volume never decreases
	for i := 1; i < len(data); i++ {
		if data[i].Volume < data[i-1].Volume {
			t.Errorf("volume decreased at index %d", i)
		}
	}

	// time advances by the interval
	if data[1].TimeMs != 500 || data[0].TimeMs != 0 {
		t.Errorf("unexpected millisecond stamps: %d %d", data[0].TimeMs, data[1].TimeMs)
	}
}

func TestTickGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 50

	a := NewTickGenerator(7).Generate(config)
	b := NewTickGenerator(7).Generate(config)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d differs between runs with the same seed", i)
		}
	}

	c := NewTickGenerator(8).Generate(config)
	same := true

	for i := range a {
		if a[i].LastPrice != c[i].LastPrice {
			same = false

			break
		}
	}

	if same {
		t.Error("different seeds produced identical prices")
	}
}

func TestTickGenerator_LevelsClamped(t *testing.T) {
	config := DefaultConfig()
	config.Count = 1
	config.Levels = 50

	data := NewTickGenerator(1).Generate(config)
	if data[0].Level != 10 {
		t.Errorf("expected levels clamped to 10, got %d", data[0].Level)
	}
}
