package protocol

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

const (
	// CommandTopic carries TraderCommand records into the engine.
	CommandTopic = "trader_cmd"
	// RealizedPnLKey holds the aggregate realized PnL scalar.
	RealizedPnLKey = "realized_pnl"
	// VersionKey holds the version of the build that last wrote snapshots.
	VersionKey = "oms_version"

	marketDataPrefix = "md-"
	positionPrefix   = "pos-"
)

// MarketDataTopic returns the per-ticker tick topic.
func MarketDataTopic(ticker string) string {
	return marketDataPrefix + ticker
}

// PositionKey returns the per-ticker position snapshot key.
func PositionKey(ticker string) string {
	return positionPrefix + ticker
}

var (
	TickSize     = binary.Size(types.TickData{})
	PositionSize = binary.Size(types.Position{})
)

const RealizedPnLSize = 8

func EncodeTick(tick types.TickData) ([]byte, error) {
	return encodeFixed(&tick, TickSize)
}

func DecodeTick(data []byte) (types.TickData, error) {
	var tick types.TickData
	if err := decodeFixed(data, &tick, TickSize); err != nil {
		return types.TickData{}, err
	}

	return tick, nil
}

func EncodePosition(pos types.Position) ([]byte, error) {
	return encodeFixed(&pos, PositionSize)
}

func DecodePosition(data []byte) (types.Position, error) {
	var pos types.Position
	if err := decodeFixed(data, &pos, PositionSize); err != nil {
		return types.Position{}, err
	}

	return pos, nil
}

func EncodeRealizedPnL(pnl float64) []byte {
	buf := make([]byte, RealizedPnLSize)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(pnl))

	return buf
}

func DecodeRealizedPnL(data []byte) (float64, error) {
	if len(data) != RealizedPnLSize {
		return 0, errors.Newf(errors.ErrCodeMalformedMessage, "realized pnl must be %d bytes, got %d", RealizedPnLSize, len(data))
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
}

func encodeFixed(v any, size int) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedMessage, "failed to encode record", err)
	}

	return buf.Bytes(), nil
}

func decodeFixed(data []byte, v any, size int) error {
	if len(data) != size {
		return errors.Newf(errors.ErrCodeMalformedMessage, "record must be %d bytes, got %d", size, len(data))
	}

	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, v); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedMessage, "failed to decode record", err)
	}

	return nil
}
