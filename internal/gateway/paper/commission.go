package paper

// Commission computes the fee charged for one fill.
type Commission interface {
	Calculate(volume int64, notional float64) float64
}

type Broker string

const (
	BrokerZero        Broker = "zero_commission"
	BrokerPerContract Broker = "per_contract"
	BrokerNotional    Broker = "notional"
)

// CommissionConfig selects and parameterizes the fee model.
type CommissionConfig struct {
	Broker Broker `yaml:"broker" json:"broker" validate:"omitempty,oneof=zero_commission per_contract notional" jsonschema:"enum=zero_commission,enum=per_contract,enum=notional,default=zero_commission"`
	// Rate is the fee per contract for per_contract, or the fraction of notional for notional.
	Rate float64 `yaml:"rate" json:"rate" validate:"gte=0"`
	// Minimum is the smallest fee charged per fill.
	Minimum float64 `yaml:"minimum" json:"minimum" validate:"gte=0"`
}

func NewCommission(cfg CommissionConfig) Commission {
	switch cfg.Broker {
	case BrokerPerContract:
		return &perContractCommission{rate: cfg.Rate, minimum: cfg.Minimum}
	case BrokerNotional:
		return &notionalCommission{rate: cfg.Rate, minimum: cfg.Minimum}
	default:
		return zeroCommission{}
	}
}

type zeroCommission struct{}

func (zeroCommission) Calculate(int64, float64) float64 {
	return 0
}

type perContractCommission struct {
	rate    float64
	minimum float64
}

func (c *perContractCommission) Calculate(volume int64, _ float64) float64 {
	return max(c.rate*float64(volume), c.minimum)
}

type notionalCommission struct {
	rate    float64
	minimum float64
}

func (c *notionalCommission) Calculate(_ int64, notional float64) float64 {
	return max(c.rate*notional, c.minimum)
}
