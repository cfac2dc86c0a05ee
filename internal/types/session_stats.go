package types

import (
	"os"
	"time"

	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SessionStatus is the state of an OMS session.
type SessionStatus string

const (
	SessionStatusRunning SessionStatus = "running"
	SessionStatusStopped SessionStatus = "stopped"
)

// OrderStats counts orders by how they left the order table.
type OrderStats struct {
	Completed int `yaml:"completed" json:"completed"`
	// AllTraded, PartTraded and Canceled partition completed orders that were
	// accepted by the venue. PartTraded orders were canceled after a fill.
	AllTraded      int   `yaml:"all_traded" json:"all_traded"`
	PartTraded     int   `yaml:"part_traded" json:"part_traded"`
	Canceled       int   `yaml:"canceled" json:"canceled"`
	Rejected       int   `yaml:"rejected" json:"rejected"`
	TradedVolume   int64 `yaml:"traded_volume" json:"traded_volume"`
	CanceledVolume int64 `yaml:"canceled_volume" json:"canceled_volume"`
}

// SessionStats summarizes one engine session.
type SessionStats struct {
	ID           string        `yaml:"id" json:"id"`
	Gateway      string        `yaml:"gateway" json:"gateway"`
	AccountID    string        `yaml:"account_id" json:"account_id"`
	Status       SessionStatus `yaml:"status" json:"status"`
	SessionStart time.Time     `yaml:"session_start" json:"session_start"`
	LastUpdated  time.Time     `yaml:"last_updated" json:"last_updated"`
	Tickers      []string      `yaml:"tickers" json:"tickers"`
	Orders       OrderStats    `yaml:"orders" json:"orders"`
	// PerTicker breaks Orders down by ticker.
	PerTicker   map[string]OrderStats `yaml:"per_ticker" json:"per_ticker"`
	RealizedPnL float64               `yaml:"realized_pnl" json:"realized_pnl"`
	FloatPnL    float64               `yaml:"float_pnl" json:"float_pnl"`
	Positions   []Position            `yaml:"positions" json:"positions"`
}

func NewSessionStats(id string, gateway string, tickers []string) SessionStats {
	now := time.Now()

	return SessionStats{
		ID:           id,
		Gateway:      gateway,
		Status:       SessionStatusRunning,
		SessionStart: now,
		LastUpdated:  now,
		Tickers:      tickers,
		PerTicker:    make(map[string]OrderStats),
	}
}

// RecordCompleted folds a completed order into the counters.
func (s *SessionStats) RecordCompleted(order Order) {
	if s.PerTicker == nil {
		s.PerTicker = make(map[string]OrderStats)
	}

	s.Orders.record(order)

	perTicker := s.PerTicker[order.Contract.Ticker]
	perTicker.record(order)
	s.PerTicker[order.Contract.Ticker] = perTicker

	s.LastUpdated = time.Now()
}

func (o *OrderStats) record(order Order) {
	o.Completed++
	o.TradedVolume += order.TradedVolume
	o.CanceledVolume += order.CanceledVolume

	switch {
	case order.Status == OrderStatusRejected:
		o.Rejected++
	case order.TradedVolume == order.Volume:
		o.AllTraded++
	case order.TradedVolume > 0:
		o.PartTraded++
	default:
		o.Canceled++
	}
}

// Close marks the session stopped and records the final ledger.
func (s *SessionStats) Close(accountID string, realizedPnL float64, positions []Position) {
	s.Status = SessionStatusStopped
	s.AccountID = accountID
	s.RealizedPnL = realizedPnL
	s.Positions = positions
	s.FloatPnL = 0

	for _, pos := range positions {
		s.FloatPnL += pos.Long.FloatPnL + pos.Short.FloatPnL
	}

	s.LastUpdated = time.Now()
}

// WriteSessionStats writes session statistics to a YAML file.
func WriteSessionStats(path string, stats SessionStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to marshal session stats", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to write session stats to %s", path)
	}

	return nil
}

// ReadSessionStats reads session statistics from a YAML file.
func ReadSessionStats(path string) (SessionStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionStats{}, errors.Wrapf(errors.ErrCodeLoadFailed, err, "failed to read session stats from %s", path)
	}

	var stats SessionStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return SessionStats{}, errors.Wrap(errors.ErrCodeLoadFailed, "failed to unmarshal session stats", err)
	}

	return stats, nil
}
