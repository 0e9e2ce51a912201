// Package money holds display formatting for the two currencies the ledger
// carries. Amounts are stored at full decimal precision everywhere; rounding
// happens only here, at render time.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundLYD rounds an LYD amount to the nearest whole dinar for display
func RoundLYD(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// FormatLYD renders an LYD amount as a grouped integer with the currency
// suffix, e.g. "45,000 د.ل"
func FormatLYD(amount decimal.Decimal) string {
	return group(RoundLYD(amount).IntPart()) + " د.ل"
}

// FormatUSD renders a USD amount with a dollar sign and two decimals,
// e.g. "$6,000.00"
func FormatUSD(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	whole, _ := strconv.ParseInt(parts[0], 10, 64)
	out := "$" + group(whole) + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// LineTotal returns unit price multiplied by quantity at full precision
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// group inserts thousands separators into a non-negative or negative integer
func group(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		s = "-" + s
	}
	return s
}
