package service

import (
	"context"
	"testing"
	"time"

	"marine-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerFixture struct {
	service         CustomerService
	customerRepo    *fakeCustomerRepo
	saleRepo        *fakeSaleRepo
	maintenanceRepo *fakeMaintenanceRepo
	customer        *model.Customer
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()

	customer := &model.Customer{
		Code:    "C001",
		Name:    "شركة البحر الأحمر",
		Type:    model.CustomerPermanent,
		Balance: decimal.NewFromInt(-5000),
	}

	customerRepo := newFakeCustomerRepo(customer)
	saleRepo := newFakeSaleRepo()
	maintenanceRepo := newFakeMaintenanceRepo()

	svc := NewCustomerService(customerRepo, saleRepo, maintenanceRepo, &fakeAuditRepo{}, fakeTxManager{})
	return &customerFixture{
		service:         svc,
		customerRepo:    customerRepo,
		saleRepo:        saleRepo,
		maintenanceRepo: maintenanceRepo,
		customer:        customer,
	}
}

func TestDeleteCustomerRejectsOutstandingDebt(t *testing.T) {
	f := newCustomerFixture(t)

	err := f.service.DeleteCustomer(context.Background(), "", f.customer.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outstanding debt")
	assert.Len(t, f.customerRepo.customers, 1)
}

func TestDeleteCustomerWithoutDebt(t *testing.T) {
	f := newCustomerFixture(t)
	f.customer.Balance = decimal.Zero

	require.NoError(t, f.service.DeleteCustomer(context.Background(), "", f.customer.ID.String()))
	assert.Empty(t, f.customerRepo.customers)
}

func TestUpdateCustomerManualBalanceEdit(t *testing.T) {
	f := newCustomerFixture(t)

	balance := "-12500.50"
	updated, err := f.service.UpdateCustomer(context.Background(), "", f.customer.ID.String(), UpdateCustomerRequest{
		Balance: &balance,
	})
	require.NoError(t, err)
	assert.Equal(t, "-12500.5000", updated.Balance)
	assert.True(t, updated.OwesCompany)
}

func TestGetStatementCollectsLedgerAndWorkshop(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	cid := f.customer.ID
	require.NoError(t, f.saleRepo.Create(ctx, &model.Sale{
		InvoiceNo:  "INV-1001",
		Date:       time.Now(),
		CustomerID: &cid,
		Total:      decimal.NewFromInt(45000),
	}))
	require.NoError(t, f.saleRepo.Create(ctx, &model.Sale{
		InvoiceNo: "INV-1002",
		Date:      time.Now(),
		Total:     decimal.NewFromInt(999),
	}))
	require.NoError(t, f.maintenanceRepo.Create(ctx, &model.MaintenanceRecord{
		JobNo:           "JOB-2001",
		CustomerID:      cid,
		Status:          model.StatusFinished,
		RemainingAmount: decimal.NewFromInt(800),
	}))
	require.NoError(t, f.maintenanceRepo.Create(ctx, &model.MaintenanceRecord{
		JobNo:           "JOB-2002",
		CustomerID:      cid,
		Status:          model.StatusDelivered,
		RemainingAmount: decimal.Zero,
	}))

	statement, err := f.service.GetStatement(ctx, cid.String())
	require.NoError(t, err)

	// Only the customer's own rows appear
	require.Len(t, statement.Invoices, 1)
	assert.Equal(t, "INV-1001", statement.Invoices[0].InvoiceNo)
	assert.Equal(t, "45000.0000", statement.TotalInvoiced)

	assert.Len(t, statement.Jobs, 2)
	assert.Equal(t, "800.0000", statement.TotalJobsOwed)
}

func TestGetStatementUnknownCustomer(t *testing.T) {
	f := newCustomerFixture(t)

	_, err := f.service.GetStatement(context.Background(), "00000000-0000-0000-0000-000000000001")
	assert.Error(t, err)
}
