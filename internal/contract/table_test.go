package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ContractTableTestSuite struct {
	suite.Suite
	dir string
}

func TestContractTableSuite(t *testing.T) {
	suite.Run(t, new(ContractTableTestSuite))
}

func (s *ContractTableTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ContractTableTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

func (s *ContractTableTestSuite) TestAddAndLookup() {
	table := NewTable()
	s.Require().NoError(table.Add(types.Contract{Index: 2, Ticker: "rb2501", Size: 10}))
	s.Require().NoError(table.Add(types.Contract{Index: 1, Ticker: "IF2501", Size: 300}))

	c := table.Get(2)
	s.True(c.IsSome())
	s.Equal("rb2501", c.Unwrap().Ticker)

	byTicker := table.GetByTicker("IF2501")
	s.True(byTicker.IsSome())
	s.Equal(uint64(1), byTicker.Unwrap().Index)

	s.True(table.Get(99).IsNone())
	s.True(table.GetByTicker("missing").IsNone())

	all := table.All()
	s.Require().Len(all, 2)
	s.Equal(uint64(1), all[0].Index)
}

func (s *ContractTableTestSuite) TestAddReplacesTicker() {
	table := NewTable()
	s.Require().NoError(table.Add(types.Contract{Index: 1, Ticker: "old", Size: 1}))
	s.Require().NoError(table.Add(types.Contract{Index: 1, Ticker: "new", Size: 1}))

	s.True(table.GetByTicker("old").IsNone())
	s.True(table.GetByTicker("new").IsSome())
	s.Equal(1, table.Len())
}

func (s *ContractTableTestSuite) TestAddRejectsInvalid() {
	table := NewTable()
	err := table.Add(types.Contract{Index: 1, Ticker: "bad", Size: 0})
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	err = table.Add(types.Contract{Ticker: "noindex", Size: 1})
	s.Error(err)
}

func (s *ContractTableTestSuite) TestLoadYAML() {
	path := s.writeFile("contracts.yaml", `
contracts:
  - index: 1
    ticker: rb2501
    exchange: SHFE
    size: 10
    price_tick: 1
    max_limit_order_volume: 500
  - index: 2
    ticker: BTCUSDT
    exchange: BINANCE
    product_type: Crypto
    size: 1
    price_tick: 0.01
`)

	table, err := LoadYAML(path)
	s.Require().NoError(err)
	s.Equal(2, table.Len())

	c := table.Get(1).Unwrap()
	s.Equal(int64(10), c.Size)
	s.Equal(int64(500), c.MaxLimitOrderVolume)
	s.Equal(types.ProductTypeCrypto, table.Get(2).Unwrap().ProductType)
}

func (s *ContractTableTestSuite) TestLoadYAMLErrors() {
	_, err := LoadYAML(filepath.Join(s.dir, "missing.yaml"))
	s.True(errors.HasCode(err, errors.ErrCodeLoadFailed))

	path := s.writeFile("broken.yaml", "contracts: [")
	_, err = LoadYAML(path)
	s.True(errors.HasCode(err, errors.ErrCodeLoadFailed))
}

func (s *ContractTableTestSuite) TestLoadDuckDBCSV() {
	path := s.writeFile("contracts.csv", `ticker_index,ticker,symbol,exchange,name,product_type,size,price_tick,max_market_order_volume,min_market_order_volume,max_limit_order_volume,min_limit_order_volume,delivery_year,delivery_month
1,rb2501,rb,SHFE,rebar,Futures,10,1.0,30,1,500,1,2025,1
2,IF2501,IF,CFFEX,csi300,Futures,300,0.2,10,1,20,1,2025,1
3,cu2502,cu,SHFE,copper,Futures,5,10.0,0,0,0,0,2025,2
`)

	table, err := LoadDuckDB(path, "", logger.NewNopLogger())
	s.Require().NoError(err)
	s.Equal(3, table.Len())

	c := table.GetByTicker("IF2501").Unwrap()
	s.Equal(uint64(2), c.Index)
	s.Equal(int64(300), c.Size)
	s.InDelta(0.2, c.PriceTick, 1e-9)
	s.Equal("CFFEX", c.Exchange)

	shfe, err := LoadDuckDB(path, "SHFE", logger.NewNopLogger())
	s.Require().NoError(err)
	s.Equal(2, shfe.Len())
	s.True(shfe.Get(2).IsNone())
}

func (s *ContractTableTestSuite) TestLoadDispatch() {
	_, err := Load(filepath.Join(s.dir, "contracts.json"), "", logger.NewNopLogger())
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
