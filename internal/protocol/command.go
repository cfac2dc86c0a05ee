// Package protocol defines the fixed-layout little-endian records exchanged
// over the bus and written to the snapshot store.
package protocol

import (
	"encoding/binary"
	"math"

	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// Magic guards against misframed command records.
const Magic uint32 = 0x1F2E3D4C

// CommandSize is the encoded size of every TraderCommand.
const CommandSize = 48

const (
	headerSize  = 8
	payloadSize = CommandSize - headerSize
)

type CommandType uint32

const (
	CommandTypeNewOrder     CommandType = 1
	CommandTypeCancelOrder  CommandType = 2
	CommandTypeCancelTicker CommandType = 3
	CommandTypeCancelAll    CommandType = 4
)

func (t CommandType) String() string {
	switch t {
	case CommandTypeNewOrder:
		return "NEW_ORDER"
	case CommandTypeCancelOrder:
		return "CANCEL_ORDER"
	case CommandTypeCancelTicker:
		return "CANCEL_TICKER"
	case CommandTypeCancelAll:
		return "CANCEL_ALL"
	default:
		return "UNKNOWN"
	}
}

// NewOrder is the NEW_ORDER payload.
type NewOrder struct {
	TickerIndex uint64
	Direction   types.Direction
	Offset      types.Offset
	Volume      int64
	Type        types.OrderType
	Price       float64
}

// TraderCommand is a tagged command. Only the field matching Type is meaningful.
type TraderCommand struct {
	Type        CommandType
	NewOrder    NewOrder
	OrderID     uint64
	TickerIndex uint64
}

func NewOrderCommand(order NewOrder) TraderCommand {
	return TraderCommand{Type: CommandTypeNewOrder, NewOrder: order}
}

func CancelOrderCommand(orderID uint64) TraderCommand {
	return TraderCommand{Type: CommandTypeCancelOrder, OrderID: orderID}
}

func CancelTickerCommand(tickerIndex uint64) TraderCommand {
	return TraderCommand{Type: CommandTypeCancelTicker, TickerIndex: tickerIndex}
}

func CancelAllCommand() TraderCommand {
	return TraderCommand{Type: CommandTypeCancelAll}
}

// EncodeCommand writes the 48 byte record. Unused payload bytes are zero.
func EncodeCommand(cmd TraderCommand) ([]byte, error) {
	buf := make([]byte, CommandSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:4], Magic)
	le.PutUint32(buf[4:8], uint32(cmd.Type))

	payload := buf[headerSize:]

	switch cmd.Type {
	case CommandTypeNewOrder:
		le.PutUint64(payload[0:8], cmd.NewOrder.TickerIndex)
		le.PutUint32(payload[8:12], uint32(cmd.NewOrder.Direction))
		le.PutUint32(payload[12:16], uint32(cmd.NewOrder.Offset))
		le.PutUint64(payload[16:24], uint64(cmd.NewOrder.Volume))
		le.PutUint32(payload[24:28], uint32(cmd.NewOrder.Type))
		// payload[28:32] is padding
		le.PutUint64(payload[32:40], math.Float64bits(cmd.NewOrder.Price))
	case CommandTypeCancelOrder:
		le.PutUint64(payload[0:8], cmd.OrderID)
	case CommandTypeCancelTicker:
		le.PutUint64(payload[0:8], cmd.TickerIndex)
	case CommandTypeCancelAll:
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownCommand, "unknown command type %d", cmd.Type)
	}

	return buf, nil
}

// DecodeCommand parses a record produced by EncodeCommand.
func DecodeCommand(data []byte) (TraderCommand, error) {
	if len(data) != CommandSize {
		return TraderCommand{}, errors.Newf(errors.ErrCodeMalformedMessage, "command must be %d bytes, got %d", CommandSize, len(data))
	}

	le := binary.LittleEndian

	magic := le.Uint32(data[0:4])
	if magic != Magic {
		return TraderCommand{}, errors.Newf(errors.ErrCodeBadMagic, "bad command magic 0x%08X", magic)
	}

	cmd := TraderCommand{Type: CommandType(le.Uint32(data[4:8]))}
	payload := data[headerSize:]

	switch cmd.Type {
	case CommandTypeNewOrder:
		cmd.NewOrder = NewOrder{
			TickerIndex: le.Uint64(payload[0:8]),
			Direction:   types.Direction(le.Uint32(payload[8:12])),
			Offset:      types.Offset(le.Uint32(payload[12:16])),
			Volume:      int64(le.Uint64(payload[16:24])),
			Type:        types.OrderType(le.Uint32(payload[24:28])),
			Price:       math.Float64frombits(le.Uint64(payload[32:40])),
		}
	case CommandTypeCancelOrder:
		cmd.OrderID = le.Uint64(payload[0:8])
	case CommandTypeCancelTicker:
		cmd.TickerIndex = le.Uint64(payload[0:8])
	case CommandTypeCancelAll:
	default:
		return TraderCommand{}, errors.Newf(errors.ErrCodeUnknownCommand, "unknown command type %d", cmd.Type)
	}

	return cmd, nil
}
