package repository

import (
	"context"
	"time"

	"marine-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleListFilter struct {
	Search        string // matches invoice_no or customer_name
	InvoiceType   string
	PaymentMethod string
	CustomerID    *uuid.UUID
	Page          int
	Limit         int
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleListFilter) ([]model.Sale, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Sale, error)
	ExistsInvoiceNo(ctx context.Context, invoiceNo string) (bool, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Sale{}).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Creator").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter SaleListFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Sale{})
	if filter.Search != "" {
		db = db.Where("invoice_no ILIKE ? OR customer_name ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.InvoiceType != "" {
		db = db.Where("invoice_type = ?", filter.InvoiceType)
	}
	if filter.PaymentMethod != "" {
		db = db.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Items").Order("date desc").Offset(offset).Limit(filter.Limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// ListByCustomer fetches a customer's full ledger history for statements
func (r *saleRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("date desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// ListByDateRange fetches sales with date in [start, end) for report reducers
func (r *saleRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("date >= ? AND date < ?", start, end).
		Order("date desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) ExistsInvoiceNo(ctx context.Context, invoiceNo string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).Where("invoice_no = ?", invoiceNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
