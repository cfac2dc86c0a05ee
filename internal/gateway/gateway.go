// Package gateway defines the contract between the engine and a venue adapter.
package gateway

import (
	"context"

	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
)

// Gateway routes orders to a venue.
//
// After a successful SendOrder the adapter must eventually report exactly one of
// OnOrderAccepted or OnOrderRejected and, independently, zero or more traded and
// canceled callbacks until traded plus canceled volume equals the order volume.
// Callbacks may arrive on any goroutine. Query results are reported through the
// matching On* callback; the returned error only covers issuing the query.
type Gateway interface {
	Login(ctx context.Context, params types.LoginParams) error
	Logout(ctx context.Context) error
	// SendOrder submits req. req.OrderID is assigned by the engine and must be
	// used in every callback for this order.
	SendOrder(ctx context.Context, req types.OrderRequest) error
	CancelOrder(ctx context.Context, orderID uint64) error
	QueryContract(ctx context.Context, ticker string) error
	QueryContracts(ctx context.Context) error
	QueryPosition(ctx context.Context, ticker string) error
	QueryPositions(ctx context.Context) error
	QueryAccount(ctx context.Context) error
	QueryMarginRate(ctx context.Context, ticker string) error
	QueryCommissionRate(ctx context.Context, ticker string) error
}

// EngineCallbacks receives venue events. Implementations must tolerate unknown
// order ids.
type EngineCallbacks interface {
	OnOrderAccepted(orderID uint64)
	OnOrderRejected(orderID uint64)
	OnOrderTraded(orderID uint64, tradedVolume int64, price float64)
	// OnOrderCanceled reports the volume removed from the book by this cancel.
	OnOrderCanceled(orderID uint64, canceledVolume int64)
	OnOrderCancelRejected(orderID uint64)
	OnTick(tick types.TickData)
	OnQueryAccount(account types.Account)
	OnQueryPosition(position types.Position)
	OnQueryContract(c types.Contract)
}

// Dependencies is what a Factory receives from the engine.
type Dependencies struct {
	Callbacks EngineCallbacks
	Contracts contract.Lookup
	Logger    *logger.Logger
}
