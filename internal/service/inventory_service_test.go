package service

import (
	"context"
	"strings"
	"testing"

	"marine-backend/internal/model"
	"marine-backend/internal/repository"
	ws "marine-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSupplyRepo struct {
	invoices map[uuid.UUID]*model.SupplyInvoice
}

func newFakeSupplyRepo() *fakeSupplyRepo {
	return &fakeSupplyRepo{invoices: make(map[uuid.UUID]*model.SupplyInvoice)}
}

func (r *fakeSupplyRepo) Create(_ context.Context, invoice *model.SupplyInvoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeSupplyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SupplyInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeSupplyRepo) List(_ context.Context, _, _ int, _ string) ([]model.SupplyInvoice, int64, error) {
	out := make([]model.SupplyInvoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSupplyRepo) ExistsInvoiceNo(_ context.Context, invoiceNo string) (bool, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNo == invoiceNo {
			return true, nil
		}
	}
	return false, nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newFakeSupplierRepo(suppliers ...*model.Supplier) *fakeSupplierRepo {
	r := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *fakeSupplierRepo) Create(_ context.Context, supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, supplier *model.Supplier) error {
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) List(_ context.Context, _, _ int, _ string) ([]model.Supplier, int64, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type inventoryFixture struct {
	service     InventoryService
	productRepo *fakeProductRepo
	supplyRepo  *fakeSupplyRepo
	supplier    *model.Supplier
	product     *model.Product
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()

	supplier := &model.Supplier{Code: "S001", Name: "Yamaha Marine"}
	product := &model.Product{
		Code:     "P001",
		Name:     "محرك ياماها",
		Category: model.CategoryEngine,
		Stock:    3,
		Price:    decimal.NewFromInt(45000),
		CostUSD:  decimal.NewFromInt(6000),
	}

	productRepo := newFakeProductRepo(product)
	supplyRepo := newFakeSupplyRepo()
	supplierRepo := newFakeSupplierRepo(supplier)

	hub := ws.NewHub()
	go hub.Run()

	svc := NewInventoryService(productRepo, supplyRepo, supplierRepo, &fakeAuditRepo{}, fakeTxManager{}, hub)
	return &inventoryFixture{
		service:     svc,
		productRepo: productRepo,
		supplyRepo:  supplyRepo,
		supplier:    supplier,
		product:     product,
	}
}

func TestReceiveSupplyIncrementsStockAndOverwritesPricing(t *testing.T) {
	f := newInventoryFixture(t)

	invoice, err := f.service.ReceiveSupply(context.Background(), "", SupplyIntakeRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []SupplyItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 4, CostUSD: "5800", PriceLYD: "43000"},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(invoice.InvoiceNo, "SUP-"))
	assert.Equal(t, f.supplier.Name, invoice.SupplierName)
	assert.Equal(t, "23200.0000", invoice.TotalUSD)
	assert.Equal(t, "172000.0000", invoice.TotalLYD)

	// Stock incremented, pricing overwritten by the newest shipment
	assert.Equal(t, 7, f.product.Stock)
	assert.True(t, f.product.CostUSD.Equal(decimal.NewFromInt(5800)))
	assert.True(t, f.product.Price.Equal(decimal.NewFromInt(43000)))
}

func TestReceiveSupplyLastWriteWins(t *testing.T) {
	f := newInventoryFixture(t)

	_, err := f.service.ReceiveSupply(context.Background(), "", SupplyIntakeRequest{
		SupplierName: "وكيل محلي",
		Items: []SupplyItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1, CostUSD: "5800", PriceLYD: "43000"},
		},
	})
	require.NoError(t, err)

	_, err = f.service.ReceiveSupply(context.Background(), "", SupplyIntakeRequest{
		SupplierName: "وكيل محلي",
		Items: []SupplyItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 2, CostUSD: "6100", PriceLYD: "46000"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, f.product.Stock)
	assert.True(t, f.product.CostUSD.Equal(decimal.NewFromInt(6100)))
	assert.True(t, f.product.Price.Equal(decimal.NewFromInt(46000)))
	assert.Len(t, f.supplyRepo.invoices, 2)
}

func TestReceiveSupplyUnknownProduct(t *testing.T) {
	f := newInventoryFixture(t)

	_, err := f.service.ReceiveSupply(context.Background(), "", SupplyIntakeRequest{
		SupplierName: "وكيل محلي",
		Items: []SupplyItemRequest{
			{ProductID: uuid.New().String(), Quantity: 1, CostUSD: "10", PriceLYD: "50"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
	assert.Empty(t, f.supplyRepo.invoices)
}

func TestReceiveSupplyRequiresSupplier(t *testing.T) {
	f := newInventoryFixture(t)

	_, err := f.service.ReceiveSupply(context.Background(), "", SupplyIntakeRequest{
		Items: []SupplyItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1, CostUSD: "10", PriceLYD: "50"},
		},
	})
	assert.Error(t, err)
}

func TestUpdateProductValidatesCategory(t *testing.T) {
	f := newInventoryFixture(t)

	bad := "Furniture"
	_, err := f.service.UpdateProduct(context.Background(), "", f.product.ID.String(), UpdateProductRequest{
		Category: &bad,
	})
	assert.Error(t, err)
}

var _ repository.SupplyRepository = (*fakeSupplyRepo)(nil)
var _ repository.SupplierRepository = (*fakeSupplierRepo)(nil)
