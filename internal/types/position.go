package types

// PositionDetail is one side (long or short) of a per-ticker position.
type PositionDetail struct {
	Volume       int64   `yaml:"volume" json:"volume"`
	Frozen       int64   `yaml:"frozen" json:"frozen"`
	OpenPending  int64   `yaml:"open_pending" json:"open_pending"`
	ClosePending int64   `yaml:"close_pending" json:"close_pending"`
	CostPrice    float64 `yaml:"cost_price" json:"cost_price"`
	FloatPnL     float64 `yaml:"float_pnl" json:"float_pnl"`
}

// Position holds both sides for a single ticker.
type Position struct {
	TickerIndex uint64         `yaml:"ticker_index" json:"ticker_index"`
	Long        PositionDetail `yaml:"long" json:"long"`
	Short       PositionDetail `yaml:"short" json:"short"`
}

// Side returns the long detail for BUY and the short detail for SELL.
func (p *Position) Side(d Direction) *PositionDetail {
	if d == DirectionBuy {
		return &p.Long
	}

	return &p.Short
}

// IsEmpty reports whether neither side holds or freezes any volume.
func (p *Position) IsEmpty() bool {
	return p.Long.Volume == 0 && p.Long.Frozen == 0 && p.Short.Volume == 0 && p.Short.Frozen == 0
}
