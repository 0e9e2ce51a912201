package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Document number prefixes, preserved for compatibility with the printed
// archive: INV-#### sales, PAY-###### debt receipts, JOB-#### workshop jobs,
// SUP-<timestamp> supply intakes.
const (
	prefixSale        = "INV"
	prefixDebtPayment = "PAY"
	prefixJob         = "JOB"
	prefixSupply      = "SUP"
)

const docNoAttempts = 10

// generateDocNo draws a random number of the given digit width under the
// prefix and retries until the exists check clears. The unique column on the
// document table backs this up, so a lost race still cannot mint duplicates.
func generateDocNo(ctx context.Context, prefix string, digits int, exists func(context.Context, string) (bool, error)) (string, error) {
	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}

	for attempt := 0; attempt < docNoAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%d", prefix, low+rand.Intn(low*9))
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a %s document number after %d attempts", prefix, docNoAttempts)
}

// generateSupplyNo uses a millisecond timestamp the way the supply archive
// numbering always has, widening to nanoseconds on the rare collision.
func generateSupplyNo(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := fmt.Sprintf("%s-%d", prefixSupply, time.Now().UnixMilli())
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}
	return fmt.Sprintf("%s-%d", prefixSupply, time.Now().UnixNano()), nil
}
