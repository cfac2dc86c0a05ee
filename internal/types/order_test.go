package types

import (
	"testing"

	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name        string
		req         OrderRequest
		shouldError bool
	}{
		{
			name:        "valid limit order",
			req:         OrderRequest{TickerIndex: 1, Direction: DirectionBuy, Offset: OffsetOpen, Volume: 1, Type: OrderTypeLimit, Price: 100},
			shouldError: false,
		},
		{
			name:        "market order with zero price",
			req:         OrderRequest{TickerIndex: 1, Direction: DirectionSell, Offset: OffsetClose, Volume: 3, Type: OrderTypeMarket},
			shouldError: false,
		},
		{
			name:        "zero volume",
			req:         OrderRequest{TickerIndex: 1, Direction: DirectionBuy, Offset: OffsetOpen, Volume: 0, Type: OrderTypeLimit, Price: 1},
			shouldError: true,
		},
		{
			name:        "unknown direction",
			req:         OrderRequest{TickerIndex: 1, Direction: 7, Offset: OffsetOpen, Volume: 1, Type: OrderTypeLimit, Price: 1},
			shouldError: true,
		},
		{
			name:        "missing ticker",
			req:         OrderRequest{Direction: DirectionBuy, Offset: OffsetOpen, Volume: 1, Type: OrderTypeLimit, Price: 1},
			shouldError: true,
		},
		{
			name:        "negative price",
			req:         OrderRequest{TickerIndex: 1, Direction: DirectionBuy, Offset: OffsetOpen, Volume: 1, Type: OrderTypeLimit, Price: -1},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.shouldError {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOrderRequest))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderCompletion(t *testing.T) {
	order := Order{Volume: 10}
	assert.Equal(t, int64(10), order.Remaining())
	assert.False(t, order.IsCompleted())

	order.TradedVolume = 6
	order.CanceledVolume = 4
	assert.Equal(t, int64(0), order.Remaining())
	assert.True(t, order.IsCompleted())
}

func TestDirectionAndOffset(t *testing.T) {
	assert.Equal(t, DirectionSell, DirectionBuy.Opposite())
	assert.Equal(t, DirectionBuy, DirectionSell.Opposite())
	assert.Equal(t, DirectionUnknown, DirectionUnknown.Opposite())

	assert.False(t, OffsetOpen.IsClose())
	assert.True(t, OffsetClose.IsClose())
	assert.True(t, OffsetCloseToday.IsClose())
	assert.True(t, OffsetCloseYesterday.IsClose())

	assert.Equal(t, "Buy", DirectionBuy.String())
	assert.Equal(t, "CloseToday", OffsetCloseToday.String())
	assert.Equal(t, "FAK", OrderTypeFAK.String())
	assert.Equal(t, "Submitting", OrderStatusSubmitting.String())
}

func TestPositionSide(t *testing.T) {
	pos := Position{TickerIndex: 3}
	pos.Side(DirectionBuy).Volume = 5
	pos.Side(DirectionSell).Volume = 2

	assert.Equal(t, int64(5), pos.Long.Volume)
	assert.Equal(t, int64(2), pos.Short.Volume)
	assert.False(t, pos.IsEmpty())
	assert.True(t, (&Position{}).IsEmpty())
}
