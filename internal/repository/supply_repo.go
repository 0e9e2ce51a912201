package repository

import (
	"context"

	"marine-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplyRepository interface {
	Create(ctx context.Context, invoice *model.SupplyInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SupplyInvoice, error)
	List(ctx context.Context, page, limit int, search string) ([]model.SupplyInvoice, int64, error)
	ExistsInvoiceNo(ctx context.Context, invoiceNo string) (bool, error)
}

type supplyRepository struct {
	db *gorm.DB
}

func NewSupplyRepository(db *gorm.DB) SupplyRepository {
	return &supplyRepository{db: db}
}

func (r *supplyRepository) Create(ctx context.Context, invoice *model.SupplyInvoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *supplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SupplyInvoice, error) {
	var invoice model.SupplyInvoice
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Supplier").Preload("Creator").
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *supplyRepository) List(ctx context.Context, page, limit int, search string) ([]model.SupplyInvoice, int64, error) {
	var invoices []model.SupplyInvoice
	var total int64

	db := GetDB(ctx, r.db).Model(&model.SupplyInvoice{})
	if search != "" {
		db = db.Where("invoice_no ILIKE ? OR supplier_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Order("date desc").Offset(offset).Limit(limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *supplyRepository) ExistsInvoiceNo(ctx context.Context, invoiceNo string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.SupplyInvoice{}).Where("invoice_no = ?", invoiceNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
