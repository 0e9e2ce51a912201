package service

import (
	"testing"

	"marine-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lyd(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestReduceDailySplitsByPaymentMethod(t *testing.T) {
	sales := []model.Sale{
		{InvoiceNo: "INV-1001", Total: lyd(45000), PaymentMethod: model.PaymentCash, InvoiceType: model.InvoiceTypeSale},
		{InvoiceNo: "INV-1002", Total: lyd(800), PaymentMethod: model.PaymentCredit, InvoiceType: model.InvoiceTypeMaintenance},
		{InvoiceNo: "INV-1003", Total: lyd(1200), PaymentMethod: model.PaymentCheck, InvoiceType: model.InvoiceTypeSale},
		{InvoiceNo: "INV-1004", Total: lyd(300), PaymentMethod: model.PaymentTransfer, InvoiceType: model.InvoiceTypeSale},
	}

	report := ReduceDaily(sales)

	assert.Equal(t, 4, report.InvoiceCount)
	assert.True(t, report.TotalSales.Equal(lyd(47300)))
	assert.True(t, report.CashTotal.Equal(lyd(45000)))
	assert.True(t, report.CreditTotal.Equal(lyd(800)))
	assert.True(t, report.CheckTotal.Equal(lyd(1200)))
	assert.True(t, report.TransferTotal.Equal(lyd(300)))
	assert.Equal(t, 1, report.MaintenanceRows)
	assert.True(t, report.DebtPayments.IsZero())
}

func TestReduceDailyPoolsDebtPaymentsIntoTotals(t *testing.T) {
	sales := []model.Sale{
		{InvoiceNo: "INV-1001", Total: lyd(1000), PaymentMethod: model.PaymentCash, InvoiceType: model.InvoiceTypeSale},
		{
			InvoiceNo:     "PAY-482913",
			Total:         lyd(5000),
			PaymentMethod: model.PaymentCash,
			InvoiceType:   model.InvoiceTypeSale,
			Items: []model.SaleItem{
				{ProductCode: model.DebtPaymentCode, Quantity: 1, Price: lyd(5000)},
			},
		},
	}

	report := ReduceDaily(sales)

	// Receipts are ledger rows like any other: they pool into the totals and
	// buckets, and DebtPayments tracks the collected slice on top
	assert.Equal(t, 2, report.InvoiceCount)
	assert.True(t, report.TotalSales.Equal(lyd(6000)))
	assert.True(t, report.CashTotal.Equal(lyd(6000)))
	assert.True(t, report.DebtPayments.Equal(lyd(5000)))
}

func TestReduceDailyEmpty(t *testing.T) {
	report := ReduceDaily(nil)
	assert.Zero(t, report.InvoiceCount)
	assert.True(t, report.TotalSales.IsZero())
	assert.True(t, report.DebtPayments.IsZero())
}

func TestReduceInventory(t *testing.T) {
	products := []model.Product{
		{Code: "P001", Category: model.CategoryEngine, Stock: 5, MinStock: 2, Price: lyd(45000), CostUSD: decimal.NewFromInt(6000)},
		{Code: "P002", Category: model.CategoryFluid, Stock: 2, MinStock: 3, Price: lyd(120), CostUSD: decimal.NewFromInt(15)},
		{Code: "P003", Category: model.CategoryEquipment, Stock: 0, MinStock: 1, Price: lyd(80), CostUSD: decimal.NewFromInt(10)},
	}

	report := ReduceInventory(products)

	assert.Equal(t, 3, report.ProductCount)
	assert.Equal(t, 7, report.TotalUnits)
	assert.True(t, report.StockValueLYD.Equal(lyd(225240)), "got %s", report.StockValueLYD)
	assert.True(t, report.StockCostUSD.Equal(decimal.NewFromInt(30030)))

	assert.True(t, report.ValueByCategory[model.CategoryEngine].Equal(lyd(225000)))
	assert.True(t, report.ValueByCategory[model.CategoryFluid].Equal(lyd(240)))
	assert.True(t, report.ValueByCategory[model.CategoryEquipment].IsZero())

	require.Len(t, report.LowStock, 1)
	assert.Equal(t, "P002", report.LowStock[0].Code)
	require.Len(t, report.OutOfStock, 1)
	assert.Equal(t, "P003", report.OutOfStock[0].Code)
}

func TestReduceMaintenance(t *testing.T) {
	jobs := []model.MaintenanceRecord{
		{JobNo: "JOB-2001", Status: model.StatusEntered, RemainingAmount: lyd(500)},
		{JobNo: "JOB-2002", Status: model.StatusInProgress, RemainingAmount: decimal.Zero},
		{JobNo: "JOB-2003", Status: model.StatusFinished, RemainingAmount: lyd(1200)},
		{JobNo: "JOB-2004", Status: model.StatusDelivered, RemainingAmount: lyd(-300)},
	}

	report := ReduceMaintenance(jobs)

	assert.Equal(t, 4, report.JobCount)
	assert.Equal(t, 2, report.OpenJobs)
	assert.Equal(t, 2, report.FinishedJobs)
	assert.Equal(t, 2, report.UnpaidJobs)
	assert.True(t, report.TotalOutstanding.Equal(lyd(1700)))
}

func TestReduceMaintenanceEmpty(t *testing.T) {
	report := ReduceMaintenance(nil)
	assert.Zero(t, report.JobCount)
	assert.True(t, report.TotalOutstanding.IsZero())
}

func TestReduceDebts(t *testing.T) {
	customers := []model.Customer{
		{Code: "C001", Name: "أحمد", Balance: decimal.Zero},
		{Code: "C002", Name: "مصنع الأسماك", Balance: lyd(-15000)},
		{Code: "C003", Name: "سالم", Balance: lyd(2500)},
		{Code: "C004", Name: "شركة الميناء", Balance: lyd(-3200)},
	}

	report := ReduceDebts(customers)

	require.Len(t, report.Rows, 2)
	assert.True(t, report.TotalOwed.Equal(lyd(18200)))
	for _, row := range report.Rows {
		assert.True(t, row.Owed.IsPositive())
		assert.True(t, row.Balance.IsNegative())
	}
}
