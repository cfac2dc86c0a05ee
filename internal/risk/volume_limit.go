package risk

import (
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// VolumeLimitRule enforces the contract's per-order volume bounds. A zero
// bound is unlimited.
type VolumeLimitRule struct {
	BaseRule
}

func NewVolumeLimitRule() *VolumeLimitRule {
	return &VolumeLimitRule{}
}

func (r *VolumeLimitRule) Name() string {
	return "volume_limit"
}

func (r *VolumeLimitRule) Check(req types.OrderRequest, c types.Contract, _ OrderView) error {
	minVolume, maxVolume := c.MinLimitOrderVolume, c.MaxLimitOrderVolume
	if req.Type == types.OrderTypeMarket {
		minVolume, maxVolume = c.MinMarketOrderVolume, c.MaxMarketOrderVolume
	}

	if minVolume > 0 && req.Volume < minVolume {
		return errors.Newf(errors.ErrCodeVolumeLimit, "volume %d below minimum %d for %s %s", req.Volume, minVolume, c.Ticker, req.Type)
	}

	if maxVolume > 0 && req.Volume > maxVolume {
		return errors.Newf(errors.ErrCodeVolumeLimit, "volume %d above maximum %d for %s %s", req.Volume, maxVolume, c.Ticker, req.Type)
	}

	return nil
}
