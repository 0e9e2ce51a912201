package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundLYD(t *testing.T) {
	assert.True(t, RoundLYD(decimal.RequireFromString("45000.4")).Equal(decimal.NewFromInt(45000)))
	assert.True(t, RoundLYD(decimal.RequireFromString("45000.5")).Equal(decimal.NewFromInt(45001)))
	assert.True(t, RoundLYD(decimal.RequireFromString("-12.6")).Equal(decimal.NewFromInt(-13)))
}

func TestFormatLYD(t *testing.T) {
	assert.Equal(t, "45,000 د.ل", FormatLYD(decimal.NewFromInt(45000)))
	assert.Equal(t, "800 د.ل", FormatLYD(decimal.NewFromInt(800)))
	assert.Equal(t, "0 د.ل", FormatLYD(decimal.Zero))
	assert.Equal(t, "-15,000 د.ل", FormatLYD(decimal.NewFromInt(-15000)))
	assert.Equal(t, "1,234,568 د.ل", FormatLYD(decimal.RequireFromString("1234567.89")))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$6,000.00", FormatUSD(decimal.NewFromInt(6000)))
	assert.Equal(t, "$15.50", FormatUSD(decimal.RequireFromString("15.5")))
	assert.Equal(t, "$0.00", FormatUSD(decimal.Zero))
	assert.Equal(t, "-$1,200.25", FormatUSD(decimal.RequireFromString("-1200.25")))
}

func TestLineTotal(t *testing.T) {
	total := LineTotal(decimal.RequireFromString("150.25"), 3)
	assert.True(t, total.Equal(decimal.RequireFromString("450.75")))

	assert.True(t, LineTotal(decimal.NewFromInt(100), 0).IsZero())
}
