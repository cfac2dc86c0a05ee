package types

// MarketLevel is the depth carried by a tick.
const MarketLevel = 10

// TickData is a level-2 market snapshot republished per ticker.
type TickData struct {
	TickerIndex uint64
	Date        uint64
	TimeSec     uint64
	TimeMs      uint64

	LastPrice       float64
	OpenPrice       float64
	HighestPrice    float64
	LowestPrice     float64
	PreClosePrice   float64
	UpperLimitPrice float64
	LowerLimitPrice float64
	Volume          uint64
	Turnover        uint64
	OpenInterest    uint64

	Level     int32
	Ask       [MarketLevel]float64
	Bid       [MarketLevel]float64
	AskVolume [MarketLevel]uint64
	BidVolume [MarketLevel]uint64
}
