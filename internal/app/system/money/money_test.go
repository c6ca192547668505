package money_test

import (
	"testing"

	"github.com/dalemusser/menuhub/internal/app/system/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal_NoFloatDrift(t *testing.T) {
	total := decimal.Zero
	for i := 0; i < 10; i++ {
		total = total.Add(money.LineTotal(0.1, 1))
	}
	assert.Equal(t, 1.0, money.Float(total))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 29.97, money.Float(money.LineTotal(9.99, 3)))
	assert.Equal(t, 0.0, money.Float(money.LineTotal(0, 5)))
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, money.Average(decimal.NewFromInt(10), 0))
	assert.Equal(t, 3.33, money.Average(decimal.NewFromInt(10), 3))
	assert.Equal(t, 12.5, money.Average(money.FromFloat(25), 2))
}

func TestWholeCents(t *testing.T) {
	for _, f := range []float64{0, 4.10, 9.99, 100, 12.5} {
		assert.True(t, money.WholeCents(f), "%v", f)
	}
	for _, f := range []float64{0.005, 1.234, 9.999} {
		assert.False(t, money.WholeCents(f), "%v", f)
	}
}
