// Package position keeps the per-ticker position ledger and derives PnL.
package position

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/protocol"
	"github.com/rxtech-lab/argo-oms/internal/store"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/internal/version"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPersistTimeout = 2 * time.Second

// Manager is the single writer of Position records. Every successful update
// writes the position snapshot, and fills also write the realized PnL, before
// the call returns.
type Manager struct {
	mu             sync.RWMutex
	positions      map[uint64]*types.Position
	realized       decimal.Decimal
	contracts      contract.Lookup
	store          store.Store
	log            *logger.Logger
	persistTimeout time.Duration
}

func NewManager(contracts contract.Lookup, st store.Store, log *logger.Logger) *Manager {
	return &Manager{
		positions:      make(map[uint64]*types.Position),
		realized:       decimal.Zero,
		contracts:      contracts,
		store:          st,
		log:            log.Named("position"),
		persistTimeout: defaultPersistTimeout,
	}
}

// SetPosition overwrites the ledger entry with a broker reported snapshot.
func (m *Manager) SetPosition(pos types.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := pos
	m.positions[pos.TickerIndex] = &stored

	m.persistPosition(&stored)
}

// UpdatePending adjusts the pending counter for a working order. Closing
// orders reserve against the opposite side.
func (m *Manager) UpdatePending(tickerIndex uint64, direction types.Direction, offset types.Offset, delta int64) {
	if delta == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	isClose := offset.IsClose()
	if isClose {
		direction = direction.Opposite()
	}

	pos := m.findOrCreate(tickerIndex)
	detail := pos.Side(direction)

	if isClose {
		detail.ClosePending += delta
	} else {
		detail.OpenPending += delta
	}

	m.clampPending(tickerIndex, detail, "update_pending")
	m.persistPosition(pos)
}

// UpdateTraded applies a fill.
func (m *Manager) UpdateTraded(tickerIndex uint64, direction types.Direction, offset types.Offset, tradedVolume int64, tradedPrice float64) {
	if tradedVolume <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.contracts.Get(tickerIndex)
	if c.IsNone() {
		m.log.Error("Contract not found for fill", zap.Uint64("ticker_index", tickerIndex))

		return
	}

	size := decimal.NewFromInt(c.Unwrap().Size)

	isClose := offset.IsClose()
	if isClose {
		direction = direction.Opposite()
	}

	pos := m.findOrCreate(tickerIndex)
	detail := pos.Side(direction)
	qty := decimal.NewFromInt(tradedVolume)
	price := decimal.NewFromFloat(tradedPrice)

	if isClose {
		closed := tradedVolume
		if closed > detail.Volume {
			m.log.Warn("Close fill exceeds held volume, clamping",
				zap.Uint64("ticker_index", tickerIndex),
				zap.String("side", direction.String()),
				zap.Int64("volume", detail.Volume),
				zap.Int64("traded", tradedVolume),
			)

			closed = detail.Volume
		}

		sign := decimal.NewFromInt(1)
		if direction == types.DirectionSell {
			sign = sign.Neg()
		}

		pnl := size.Mul(decimal.NewFromInt(closed)).Mul(sign).Mul(price.Sub(decimal.NewFromFloat(detail.CostPrice)))
		m.realized = m.realized.Add(pnl)

		detail.ClosePending -= tradedVolume
		detail.Volume -= closed
	} else {
		oldVolume := decimal.NewFromInt(detail.Volume)
		oldCost := decimal.NewFromFloat(detail.CostPrice)

		detail.OpenPending -= tradedVolume
		detail.Volume += tradedVolume

		newVolume := decimal.NewFromInt(detail.Volume)
		detail.CostPrice = oldVolume.Mul(oldCost).Add(qty.Mul(price)).Div(newVolume).InexactFloat64()
	}

	m.clampPending(tickerIndex, detail, "update_traded")

	if detail.Volume == 0 {
		detail.CostPrice = 0
		detail.FloatPnL = 0
	}

	m.persistPosition(pos)
	m.persistRealized()
}

// UpdateFloatPnL marks every held side to lastPrice.
func (m *Manager) UpdateFloatPnL(tickerIndex uint64, lastPrice float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.positions[tickerIndex]
	if !ok {
		return
	}

	c := m.contracts.Get(tickerIndex)
	if c.IsNone() || c.Unwrap().Size <= 0 {
		return
	}

	size := decimal.NewFromInt(c.Unwrap().Size)
	last := decimal.NewFromFloat(lastPrice)

	if pos.Long.Volume > 0 {
		pos.Long.FloatPnL = decimal.NewFromInt(pos.Long.Volume).Mul(size).
			Mul(last.Sub(decimal.NewFromFloat(pos.Long.CostPrice))).InexactFloat64()
	}

	if pos.Short.Volume > 0 {
		pos.Short.FloatPnL = decimal.NewFromInt(pos.Short.Volume).Mul(size).
			Mul(decimal.NewFromFloat(pos.Short.CostPrice).Sub(last)).InexactFloat64()
	}

	if pos.Long.Volume > 0 || pos.Short.Volume > 0 {
		m.persistPosition(pos)
	}
}

func (m *Manager) GetPosition(tickerIndex uint64) optional.Option[types.Position] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.positions[tickerIndex]
	if !ok {
		return optional.None[types.Position]()
	}

	return optional.Some(*pos)
}

// Positions returns a copy of every position ordered by ticker index.
func (m *Manager) Positions() []types.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Position, 0, len(m.positions))
	for _, pos := range m.positions {
		out = append(out, *pos)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TickerIndex < out[j].TickerIndex })

	return out
}

func (m *Manager) RealizedPnL() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.realized.InexactFloat64()
}

// Restore reloads the realized PnL and the positions of the given contracts
// from the store. Missing keys are skipped. Pending and frozen counters are
// dropped since the orders that reserved them are gone. Snapshots written by
// an incompatible build are refused, and a successful restore stamps the store
// with the current build version.
func (m *Manager) Restore(ctx context.Context, contracts []types.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp, err := m.store.Get(ctx, protocol.VersionKey)
	if err != nil {
		return err
	}

	if stamp.IsSome() {
		if err := version.CheckSnapshotCompatibility(version.GetVersion(), string(stamp.Unwrap())); err != nil {
			m.log.Error("Refusing to restore snapshots", zap.String("snapshot_version", string(stamp.Unwrap())), zap.Error(err))

			return err
		}
	}

	raw, err := m.store.Get(ctx, protocol.RealizedPnLKey)
	if err != nil {
		return err
	}

	if raw.IsSome() {
		value, err := protocol.DecodeRealizedPnL(raw.Unwrap())
		if err != nil {
			return err
		}

		m.realized = decimal.NewFromFloat(value)
	}

	for _, c := range contracts {
		raw, err := m.store.Get(ctx, protocol.PositionKey(c.Ticker))
		if err != nil {
			return err
		}

		if raw.IsNone() {
			continue
		}

		pos, err := protocol.DecodePosition(raw.Unwrap())
		if err != nil {
			m.log.Warn("Skipping unreadable position snapshot", zap.String("ticker", c.Ticker), zap.Error(err))

			continue
		}

		pos.TickerIndex = c.Index
		releaseWorking(&pos.Long)
		releaseWorking(&pos.Short)
		m.positions[c.Index] = &pos
		m.persistPosition(&pos)
	}

	if err := m.store.Put(ctx, protocol.VersionKey, []byte(version.GetVersion())); err != nil {
		return err
	}

	m.log.Info("Restored positions", zap.Int("count", len(m.positions)), zap.String("realized_pnl", m.realized.String()))

	return nil
}

// ResetHoldings zeroes held volume, cost and float PnL on every position while
// keeping pending counters. It runs before the broker reports its positions,
// so sides the broker does not confirm end up flat.
func (m *Manager) ResetHoldings() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pos := range m.positions {
		if pos.IsEmpty() {
			continue
		}

		m.log.Info("Resetting holdings before broker reconciliation",
			zap.Uint64("ticker_index", pos.TickerIndex),
			zap.Int64("long", pos.Long.Volume),
			zap.Int64("short", pos.Short.Volume),
		)

		resetHolding(&pos.Long)
		resetHolding(&pos.Short)
		m.persistPosition(pos)
	}
}

func releaseWorking(detail *types.PositionDetail) {
	detail.OpenPending = 0
	detail.ClosePending = 0
	detail.Frozen = 0
}

func resetHolding(detail *types.PositionDetail) {
	detail.Volume = 0
	detail.Frozen = 0
	detail.CostPrice = 0
	detail.FloatPnL = 0
}

func (m *Manager) findOrCreate(tickerIndex uint64) *types.Position {
	pos, ok := m.positions[tickerIndex]
	if !ok {
		pos = &types.Position{TickerIndex: tickerIndex}
		m.positions[tickerIndex] = pos
	}

	return pos
}

func (m *Manager) clampPending(tickerIndex uint64, detail *types.PositionDetail, op string) {
	if detail.OpenPending < 0 {
		m.log.Warn("Correcting negative open pending",
			zap.String("op", op), zap.Uint64("ticker_index", tickerIndex), zap.Int64("open_pending", detail.OpenPending))

		detail.OpenPending = 0
	}

	if detail.ClosePending < 0 {
		m.log.Warn("Correcting negative close pending",
			zap.String("op", op), zap.Uint64("ticker_index", tickerIndex), zap.Int64("close_pending", detail.ClosePending))

		detail.ClosePending = 0
	}

	if detail.Volume < 0 {
		m.log.Warn("Correcting negative volume",
			zap.String("op", op), zap.Uint64("ticker_index", tickerIndex), zap.Int64("volume", detail.Volume))

		detail.Volume = 0
	}
}

func (m *Manager) persistPosition(pos *types.Position) {
	c := m.contracts.Get(pos.TickerIndex)
	if c.IsNone() {
		m.log.Warn("Position snapshot not persisted, unknown contract", zap.Uint64("ticker_index", pos.TickerIndex))

		return
	}

	data, err := protocol.EncodePosition(*pos)
	if err != nil {
		m.log.Error("Failed to encode position", zap.Uint64("ticker_index", pos.TickerIndex), zap.Error(err))

		return
	}

	m.put(protocol.PositionKey(c.Unwrap().Ticker), data)
}

func (m *Manager) persistRealized() {
	m.put(protocol.RealizedPnLKey, protocol.EncodeRealizedPnL(m.realized.InexactFloat64()))
}

func (m *Manager) put(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), m.persistTimeout)
	defer cancel()

	if err := m.store.Put(ctx, key, value); err != nil {
		m.log.Error("Failed to persist snapshot", zap.String("key", key), zap.Error(err))
	}
}
