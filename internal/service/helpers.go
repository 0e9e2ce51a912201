package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmountField parses an optional monetary request field. Empty means
// zero; negative amounts are rejected.
func parseAmountField(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return amount, nil
}

// parseSignedAmountField parses an optional monetary field that may legally
// be negative, such as a customer's ledger balance.
func parseSignedAmountField(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	return amount, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
