package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestRoundToDecimalPrecision() {
	tests := []struct {
		name      string
		quantity  float64
		precision int
		expected  float64
	}{
		{name: "truncates", quantity: 1.23456, precision: 2, expected: 1.23},
		{name: "integer precision", quantity: 9.99, precision: 0, expected: 9},
		{name: "already on grid", quantity: 0.5, precision: 3, expected: 0.5},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.InDelta(tt.expected, RoundToDecimalPrecision(tt.quantity, tt.precision), 1e-12)
		})
	}
}

func (suite *UtilsTestSuite) TestRoundToPriceTick() {
	suite.InDelta(100.5, RoundToPriceTick(100.4999, 0.5), 1e-12)
	suite.InDelta(3712.0, RoundToPriceTick(3711.6, 1), 1e-12)
	suite.InDelta(0.12, RoundToPriceTick(0.1234, 0.01), 1e-12)
	suite.Equal(1.2345, RoundToPriceTick(1.2345, 0))
}

func (suite *UtilsTestSuite) TestFormatPrice() {
	suite.Equal(0, TickPrecision(1))
	suite.Equal(2, TickPrecision(0.01))
	suite.Equal(1, TickPrecision(0.2))
	suite.Equal(8, TickPrecision(0.00000001))

	suite.Equal("64123.46", FormatPrice(64123.456, 0.01))
	suite.Equal("3712", FormatPrice(3711.6, 1))
	suite.Equal("0.00001234", FormatPrice(0.000012341, 0.00000001))
}
