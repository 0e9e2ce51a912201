package repository

import (
	"context"

	"marine-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaintenanceListFilter struct {
	Search string // matches job_no, customer_name or device_info
	Status string
	Page   int
	Limit  int
}

type MaintenanceRepository interface {
	Create(ctx context.Context, record *model.MaintenanceRecord) error
	Update(ctx context.Context, record *model.MaintenanceRecord) error
	ReplaceParts(ctx context.Context, recordID uuid.UUID, parts []model.MaintenancePart) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error)
	List(ctx context.Context, filter MaintenanceListFilter) ([]model.MaintenanceRecord, int64, error)
	ListAll(ctx context.Context) ([]model.MaintenanceRecord, error)
	ExistsJobNo(ctx context.Context, jobNo string) (bool, error)
}

type maintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, record *model.MaintenanceRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

// Update persists the record's scalar fields. Parts are replaced separately
// via ReplaceParts so stale part rows never survive an edit.
func (r *maintenanceRepository) Update(ctx context.Context, record *model.MaintenanceRecord) error {
	return GetDB(ctx, r.db).Omit("Parts").Save(record).Error
}

func (r *maintenanceRepository) ReplaceParts(ctx context.Context, recordID uuid.UUID, parts []model.MaintenancePart) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("record_id = ?", recordID).Delete(&model.MaintenancePart{}).Error; err != nil {
		return err
	}
	for i := range parts {
		parts[i].ID = uuid.Nil
		parts[i].RecordID = recordID
		if err := db.Create(&parts[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("record_id = ?", id).Delete(&model.MaintenancePart{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.MaintenanceRecord{}).Error
}

func (r *maintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	var record model.MaintenanceRecord
	if err := GetDB(ctx, r.db).Preload("Parts").Preload("Customer").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *maintenanceRepository) List(ctx context.Context, filter MaintenanceListFilter) ([]model.MaintenanceRecord, int64, error) {
	var records []model.MaintenanceRecord
	var total int64

	db := GetDB(ctx, r.db).Model(&model.MaintenanceRecord{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("job_no ILIKE ? OR customer_name ILIKE ? OR device_info ILIKE ?", like, like, like)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Parts").Order("date desc").Offset(offset).Limit(filter.Limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *maintenanceRepository) ListAll(ctx context.Context) ([]model.MaintenanceRecord, error) {
	var records []model.MaintenanceRecord
	if err := GetDB(ctx, r.db).Preload("Parts").Order("date desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *maintenanceRepository) ExistsJobNo(ctx context.Context, jobNo string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.MaintenanceRecord{}).Where("job_no = ?", jobNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
