package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDocNoFormat(t *testing.T) {
	never := func(context.Context, string) (bool, error) { return false, nil }

	invoiceNo, err := generateDocNo(context.Background(), prefixSale, 4, never)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{4}$`), invoiceNo)

	receiptNo, err := generateDocNo(context.Background(), prefixDebtPayment, 6, never)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PAY-\d{6}$`), receiptNo)
}

func TestGenerateDocNoRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	jobNo, err := generateDocNo(context.Background(), prefixJob, 4, exists)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^JOB-\d{4}$`), jobNo)
	assert.Equal(t, 3, calls)
}

func TestGenerateDocNoGivesUpEventually(t *testing.T) {
	always := func(context.Context, string) (bool, error) { return true, nil }

	_, err := generateDocNo(context.Background(), prefixSale, 4, always)
	assert.Error(t, err)
}

func TestGenerateDocNoPropagatesLookupError(t *testing.T) {
	boom := errors.New("connection lost")
	failing := func(context.Context, string) (bool, error) { return false, boom }

	_, err := generateDocNo(context.Background(), prefixSale, 4, failing)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateSupplyNoFormat(t *testing.T) {
	never := func(context.Context, string) (bool, error) { return false, nil }

	supplyNo, err := generateSupplyNo(context.Background(), never)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SUP-\d+$`), supplyNo)
}
