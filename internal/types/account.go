package types

// Account is the broker-reported account summary.
type Account struct {
	AccountID string  `json:"account_id" yaml:"account_id"`
	Balance   float64 `json:"balance" yaml:"balance"`
	Frozen    float64 `json:"frozen" yaml:"frozen"`
	Margin    float64 `json:"margin" yaml:"margin"`
}

// LoginParams carries the credentials and endpoints for one gateway session.
type LoginParams struct {
	// Gateway selects the adapter from the gateway registry.
	Gateway    string `yaml:"gateway" json:"gateway" validate:"required"`
	InvestorID string `yaml:"investor_id" json:"investor_id"`
	Password   string `yaml:"password" json:"password"`
	BrokerID   string `yaml:"broker_id" json:"broker_id"`
	FrontAddr  string `yaml:"front_addr" json:"front_addr"`
	MdAddr     string `yaml:"md_addr" json:"md_addr"`
	AuthCode   string `yaml:"auth_code" json:"auth_code"`
	AppID      string `yaml:"app_id" json:"app_id"`
	APIKey     string `yaml:"api_key" json:"api_key"`
	SecretKey  string `yaml:"secret_key" json:"secret_key"`
	// Tickers lists the instruments whose market data should be subscribed.
	Tickers []string `yaml:"tickers" json:"tickers"`
}
