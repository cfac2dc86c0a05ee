package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

type Direction uint32

type Offset uint32

type OrderType uint32

type OrderStatus uint32

const (
	DirectionUnknown Direction = 0
	DirectionBuy     Direction = 1
	DirectionSell    Direction = 2
)

// Offset values are bit flags so that venue adapters can test IsClose with a mask.
const (
	OffsetUnknown        Offset = 0
	OffsetOpen           Offset = 1
	OffsetClose          Offset = 2
	OffsetCloseToday     Offset = 4
	OffsetCloseYesterday Offset = 8
)

const (
	OrderTypeUnknown OrderType = 0
	OrderTypeLimit   OrderType = 1
	OrderTypeMarket  OrderType = 2
	OrderTypeBest    OrderType = 3
	OrderTypeFAK     OrderType = 4
	OrderTypeFOK     OrderType = 5
)

const (
	OrderStatusUnknown    OrderStatus = 0
	OrderStatusSubmitting OrderStatus = 1
	OrderStatusRejected   OrderStatus = 2
	OrderStatusNoTraded   OrderStatus = 3
	OrderStatusPartTraded OrderStatus = 4
	OrderStatusAllTraded  OrderStatus = 5
	OrderStatusCanceled   OrderStatus = 6
)

func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "Buy"
	case DirectionSell:
		return "Sell"
	default:
		return "Unknown"
	}
}

// Opposite returns the other side of the book.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionBuy:
		return DirectionSell
	case DirectionSell:
		return DirectionBuy
	default:
		return DirectionUnknown
	}
}

func (o Offset) String() string {
	switch o {
	case OffsetOpen:
		return "Open"
	case OffsetClose:
		return "Close"
	case OffsetCloseToday:
		return "CloseToday"
	case OffsetCloseYesterday:
		return "CloseYesterday"
	default:
		return "Unknown"
	}
}

// IsClose reports whether the offset reduces an existing position.
func (o Offset) IsClose() bool {
	return o&(OffsetClose|OffsetCloseToday|OffsetCloseYesterday) != 0
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "Limit"
	case OrderTypeMarket:
		return "Market"
	case OrderTypeBest:
		return "Best"
	case OrderTypeFAK:
		return "FAK"
	case OrderTypeFOK:
		return "FOK"
	default:
		return "Unknown"
	}
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusSubmitting:
		return "Submitting"
	case OrderStatusRejected:
		return "Rejected"
	case OrderStatusNoTraded:
		return "NoTraded"
	case OrderStatusPartTraded:
		return "PartTraded"
	case OrderStatusAllTraded:
		return "AllTraded"
	case OrderStatusCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// OrderRequest is the transient value handed to the risk chain and the gateway
// for the duration of a single send.
type OrderRequest struct {
	OrderID     uint64    `yaml:"order_id" json:"order_id"`
	TickerIndex uint64    `yaml:"ticker_index" json:"ticker_index" validate:"required"`
	Direction   Direction `yaml:"direction" json:"direction" validate:"required,oneof=1 2"`
	Offset      Offset    `yaml:"offset" json:"offset" validate:"required,oneof=1 2 4 8"`
	Volume      int64     `yaml:"volume" json:"volume" validate:"gt=0"`
	Type        OrderType `yaml:"type" json:"type" validate:"required,oneof=1 2 3 4 5"`
	Price       float64   `yaml:"price" json:"price" validate:"gte=0"`
}

// Order is the engine-owned record of an in-flight order.
//
// TradedVolume + CanceledVolume never exceeds Volume. Equality marks completion
// and the engine removes the order from its table at that point.
type Order struct {
	OrderID        uint64      `yaml:"order_id" json:"order_id"`
	Contract       Contract    `yaml:"contract" json:"contract"`
	Direction      Direction   `yaml:"direction" json:"direction"`
	Offset         Offset      `yaml:"offset" json:"offset"`
	Type           OrderType   `yaml:"type" json:"type"`
	Price          float64     `yaml:"price" json:"price"`
	Volume         int64       `yaml:"volume" json:"volume"`
	TradedVolume   int64       `yaml:"traded_volume" json:"traded_volume"`
	CanceledVolume int64       `yaml:"canceled_volume" json:"canceled_volume"`
	Status         OrderStatus `yaml:"status" json:"status"`
}

// Remaining returns the volume that is neither traded nor canceled.
func (o *Order) Remaining() int64 {
	return o.Volume - o.TradedVolume - o.CanceledVolume
}

// IsCompleted reports whether every unit has been traded or canceled.
func (o *Order) IsCompleted() bool {
	return o.TradedVolume+o.CanceledVolume == o.Volume
}

var validate = validator.New()

// Validate validates the OrderRequest struct.
func (r *OrderRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrderRequest, "invalid order request", err)
	}

	return nil
}
