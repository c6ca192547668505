// Package money does exact arithmetic on prices with shopspring/decimal.
//
// Prices are persisted as float64; every sum, product, and average goes
// through decimal so totals do not accumulate binary rounding error, and
// results are rounded to cents before being converted back.
package money

import "github.com/shopspring/decimal"

// Cents is the number of decimal places kept in stored amounts.
const Cents = 2

// FromFloat converts a stored amount to decimal.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// WholeCents reports whether f has no more than Cents decimal places.
func WholeCents(f float64) bool {
	return FromFloat(f).Exponent() >= -Cents
}

// LineTotal returns price x quantity.
func LineTotal(price float64, quantity int) decimal.Decimal {
	return FromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// Float rounds d to cents and returns it as float64.
func Float(d decimal.Decimal) float64 {
	return d.Round(Cents).InexactFloat64()
}

// Average returns total / n rounded to cents, or 0 when n is 0.
func Average(total decimal.Decimal, n int) float64 {
	if n <= 0 {
		return 0
	}
	return Float(total.Div(decimal.NewFromInt(int64(n))))
}
