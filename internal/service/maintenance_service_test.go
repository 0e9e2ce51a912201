package service

import (
	"context"
	"strings"
	"testing"

	"marine-backend/internal/model"
	ws "marine-backend/internal/websocket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type maintenanceFixture struct {
	service      MaintenanceService
	repo         *fakeMaintenanceRepo
	customerRepo *fakeCustomerRepo
	productRepo  *fakeProductRepo
	audit        *fakeAuditRepo
	customer     *model.Customer
	product      *model.Product
}

func newMaintenanceFixture(t *testing.T) *maintenanceFixture {
	t.Helper()

	customer := &model.Customer{Code: "C001", Name: "شركة البحر", Type: model.CustomerPermanent}
	product := &model.Product{
		Code:     "P001",
		Name:     "فلتر زيت",
		Category: model.CategorySparePart,
		Stock:    10,
		Price:    decimal.NewFromInt(150),
	}

	repo := newFakeMaintenanceRepo()
	customerRepo := newFakeCustomerRepo(customer)
	productRepo := newFakeProductRepo(product)
	audit := &fakeAuditRepo{}

	hub := ws.NewHub()
	go hub.Run()

	svc := NewMaintenanceService(repo, customerRepo, productRepo, audit, fakeTxManager{}, hub)
	return &maintenanceFixture{
		service:      svc,
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		audit:        audit,
		customer:     customer,
		product:      product,
	}
}

func (f *maintenanceFixture) createJob(t *testing.T) JobResponse {
	t.Helper()
	job, err := f.service.CreateJob(context.Background(), "", CreateJobRequest{
		CustomerID: f.customer.ID.String(),
		Technician: "محمد",
		DeviceInfo: "Yamaha 85HP",
		LaborCost:  "500",
		PaidAmount: "300",
		Parts: []JobPartRequest{
			{ProductID: f.product.ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)
	return job
}

func TestCreateJobComputesFinancials(t *testing.T) {
	f := newMaintenanceFixture(t)

	job := f.createJob(t)

	assert.True(t, strings.HasPrefix(job.JobNo, "JOB-"))
	assert.Equal(t, model.StatusEntered, job.Status)
	assert.Equal(t, "500.0000", job.LaborCost)
	assert.Equal(t, "800.0000", job.TotalCost)
	assert.Equal(t, "300.0000", job.PaidAmount)
	assert.Equal(t, "500.0000", job.RemainingAmount)
	assert.Nil(t, job.CompletionDate)

	require.Len(t, job.Parts, 1)
	assert.Equal(t, "P001", job.Parts[0].ProductCode)
	assert.Equal(t, 2, job.Parts[0].Quantity)
	assert.Equal(t, "150.0000", job.Parts[0].Price)

	// Adding parts to a job never touches catalog stock
	assert.Equal(t, 10, f.product.Stock)
}

func TestCreateJobUnknownCustomer(t *testing.T) {
	f := newMaintenanceFixture(t)

	_, err := f.service.CreateJob(context.Background(), "", CreateJobRequest{
		CustomerID: "b5f1c8e0-0000-0000-0000-000000000001",
		Technician: "محمد",
		DeviceInfo: "Yamaha 85HP",
	})
	assert.EqualError(t, err, "customer not found")
}

func TestChangeStatusDrivesCompletionDate(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	finished, err := f.service.ChangeStatus(context.Background(), "", job.ID, model.StatusFinished)
	require.NoError(t, err)
	require.NotNil(t, finished.CompletionDate)
	firstDate := *finished.CompletionDate

	// Delivered keeps the original completion timestamp
	delivered, err := f.service.ChangeStatus(context.Background(), "", job.ID, model.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, delivered.CompletionDate)
	assert.Equal(t, firstDate, *delivered.CompletionDate)

	// Moving backward erases it
	reopened, err := f.service.ChangeStatus(context.Background(), "", job.ID, model.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletionDate)

	// Completing again stamps a fresh one
	again, err := f.service.ChangeStatus(context.Background(), "", job.ID, model.StatusFinished)
	require.NoError(t, err)
	assert.NotNil(t, again.CompletionDate)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	_, err := f.service.ChangeStatus(context.Background(), "", job.ID, "Scrapped")
	assert.Error(t, err)
}

func TestUpdateJobRecomputesFinancials(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	labor := "1000"
	updated, err := f.service.UpdateJob(context.Background(), "", job.ID, UpdateJobRequest{
		LaborCost: &labor,
	})
	require.NoError(t, err)
	assert.Equal(t, "1300.0000", updated.TotalCost)
	assert.Equal(t, "1000.0000", updated.RemainingAmount)

	// Saving the same values again does not drift the totals
	repeated, err := f.service.UpdateJob(context.Background(), "", job.ID, UpdateJobRequest{
		LaborCost: &labor,
	})
	require.NoError(t, err)
	assert.Equal(t, updated.TotalCost, repeated.TotalCost)
	assert.Equal(t, updated.RemainingAmount, repeated.RemainingAmount)
}

func TestUpdateJobOverpaymentGoesNegative(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	paid := "1000"
	updated, err := f.service.UpdateJob(context.Background(), "", job.ID, UpdateJobRequest{
		PaidAmount: &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, "-200.0000", updated.RemainingAmount)
}

func TestMaterializeInvoice(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	// Outstanding balance projects as a credit invoice
	sale, err := f.service.MaterializeInvoice(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobNo, sale.InvoiceNo)
	assert.Equal(t, model.InvoiceTypeMaintenance, sale.InvoiceType)
	assert.Equal(t, model.PaymentCredit, sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "Yamaha 85HP", sale.MaintenanceDevice)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "P001", sale.Items[0].ProductCode)

	// Fully paid projects as cash
	paid := "800"
	_, err = f.service.UpdateJob(context.Background(), "", job.ID, UpdateJobRequest{PaidAmount: &paid})
	require.NoError(t, err)

	sale, err = f.service.MaterializeInvoice(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCash, sale.PaymentMethod)
}

func TestBoardGroupsByStatus(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	_, err := f.service.ChangeStatus(context.Background(), "", job.ID, model.StatusInProgress)
	require.NoError(t, err)

	board, err := f.service.Board(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, board, len(model.MaintenanceStatuses))

	for _, column := range board {
		if column.Status == model.StatusInProgress {
			assert.Len(t, column.Jobs, 1)
		} else {
			assert.Empty(t, column.Jobs)
		}
	}
}

func TestDeleteJobRemovesRecord(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.createJob(t)

	require.NoError(t, f.service.DeleteJob(context.Background(), "", job.ID))

	_, err := f.service.GetJob(context.Background(), job.ID)
	assert.EqualError(t, err, "job not found")
}
