package risk

import (
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"golang.org/x/time/rate"
)

// ThrottleRule caps the submission rate with a token bucket.
type ThrottleRule struct {
	BaseRule
	limiter *rate.Limiter
}

func NewThrottleRule(perSecond float64, burst int) *ThrottleRule {
	if burst <= 0 {
		burst = 1
	}

	return &ThrottleRule{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *ThrottleRule) Name() string {
	return "throttle"
}

func (r *ThrottleRule) Check(_ types.OrderRequest, c types.Contract, _ OrderView) error {
	if !r.limiter.Allow() {
		return errors.Newf(errors.ErrCodeThrottled, "order rate above %.2f/s, order on %s dropped", float64(r.limiter.Limit()), c.Ticker)
	}

	return nil
}
