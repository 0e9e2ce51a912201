package service

import (
	"context"
	"time"

	"marine-backend/internal/model"
	"marine-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- products ---

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *model.Product) error {
	if existing, ok := r.products[product.ID]; ok {
		*existing = *product
		return nil
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) List(_ context.Context, _ repository.ProductListFilter) ([]model.Product, int64, error) {
	all := r.all()
	return all, int64(len(all)), nil
}

func (r *fakeProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	return r.all(), nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *fakeProductRepo) all() []model.Product {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out
}

// --- customers ---

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo(customers ...*model.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *model.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeCustomerRepo) List(_ context.Context, _, _ int, _ string) ([]model.Customer, int64, error) {
	all := r.all()
	return all, int64(len(all)), nil
}

func (r *fakeCustomerRepo) ListAll(_ context.Context) ([]model.Customer, error) {
	return r.all(), nil
}

func (r *fakeCustomerRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Balance = balance
	return nil
}

func (r *fakeCustomerRepo) all() []model.Customer {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out
}

// --- sales ---

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *model.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) List(_ context.Context, _ repository.SaleListFilter) ([]model.Sale, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if !s.Date.Before(start) && s.Date.Before(end) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ExistsInvoiceNo(_ context.Context, invoiceNo string) (bool, error) {
	for _, s := range r.sales {
		if s.InvoiceNo == invoiceNo {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSaleRepo) all() []model.Sale {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out
}

// --- maintenance ---

type fakeMaintenanceRepo struct {
	records map[uuid.UUID]*model.MaintenanceRecord
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{records: make(map[uuid.UUID]*model.MaintenanceRecord)}
}

func (r *fakeMaintenanceRepo) Create(_ context.Context, record *model.MaintenanceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeMaintenanceRepo) Update(_ context.Context, record *model.MaintenanceRecord) error {
	stored, ok := r.records[record.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	parts := stored.Parts
	cp := *record
	cp.Parts = parts
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeMaintenanceRepo) ReplaceParts(_ context.Context, recordID uuid.UUID, parts []model.MaintenancePart) error {
	record, ok := r.records[recordID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.Parts = parts
	return nil
}

func (r *fakeMaintenanceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.records, id)
	return nil
}

func (r *fakeMaintenanceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeMaintenanceRepo) List(_ context.Context, _ repository.MaintenanceListFilter) ([]model.MaintenanceRecord, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *fakeMaintenanceRepo) ListAll(_ context.Context) ([]model.MaintenanceRecord, error) {
	return r.all(), nil
}

func (r *fakeMaintenanceRepo) ExistsJobNo(_ context.Context, jobNo string) (bool, error) {
	for _, rec := range r.records {
		if rec.JobNo == jobNo {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMaintenanceRepo) all() []model.MaintenanceRecord {
	out := make([]model.MaintenanceRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

// --- audit ---

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

var (
	_ repository.TransactionManager    = fakeTxManager{}
	_ repository.ProductRepository     = (*fakeProductRepo)(nil)
	_ repository.CustomerRepository    = (*fakeCustomerRepo)(nil)
	_ repository.SaleRepository        = (*fakeSaleRepo)(nil)
	_ repository.MaintenanceRepository = (*fakeMaintenanceRepo)(nil)
	_ repository.AuditRepository       = (*fakeAuditRepo)(nil)
)
