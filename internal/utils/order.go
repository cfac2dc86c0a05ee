package utils

import (
	"math"
	"strconv"
)

// RoundToDecimalPrecision truncates the quantity to the specified decimal precision.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// RoundToPriceTick rounds price to the nearest multiple of tick. A non-positive
// tick returns price unchanged.
func RoundToPriceTick(price float64, tick float64) float64 {
	if tick <= 0 {
		return price
	}

	return math.Round(price/tick) * tick
}

// TickPrecision returns the number of decimals needed to print prices on tick.
func TickPrecision(tick float64) int {
	if tick <= 0 || tick >= 1 {
		return 0
	}

	return int(math.Ceil(-math.Log10(tick) - 1e-9))
}

// FormatPrice renders price on the tick grid without exponent notation.
func FormatPrice(price float64, tick float64) string {
	return strconv.FormatFloat(RoundToPriceTick(price, tick), 'f', TickPrecision(tick), 64)
}
