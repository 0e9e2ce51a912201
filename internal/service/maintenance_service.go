package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marine-backend/internal/model"
	"marine-backend/internal/repository"
	ws "marine-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type JobPartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Price     string `json:"price"` // optional override; defaults to the catalog price
}

type CreateJobRequest struct {
	CustomerID      string           `json:"customer_id" binding:"required"`
	Technician      string           `json:"technician" binding:"required"`
	DeviceInfo      string           `json:"device_info" binding:"required"`
	ServiceType     string           `json:"service_type"`
	InspectionNotes string           `json:"inspection_notes"`
	LaborCost       string           `json:"labor_cost"`
	PaidAmount      string           `json:"paid_amount"`
	Parts           []JobPartRequest `json:"parts" binding:"dive"`
}

// UpdateJobRequest edits a job. Nil fields are left untouched; a non-nil
// Parts slice replaces the whole parts list.
type UpdateJobRequest struct {
	Technician      *string           `json:"technician"`
	DeviceInfo      *string           `json:"device_info"`
	ServiceType     *string           `json:"service_type"`
	InspectionNotes *string           `json:"inspection_notes"`
	Status          *string           `json:"status"`
	LaborCost       *string           `json:"labor_cost"`
	PaidAmount      *string           `json:"paid_amount"`
	Parts           *[]JobPartRequest `json:"parts"`
}

type JobPartResponse struct {
	ProductID   string `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

type JobResponse struct {
	ID              string            `json:"id"`
	JobNo           string            `json:"job_no"`
	Date            string            `json:"date"`
	CompletionDate  *string           `json:"completion_date"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	Technician      string            `json:"technician"`
	DeviceInfo      string            `json:"device_info"`
	ServiceType     string            `json:"service_type"`
	InspectionNotes string            `json:"inspection_notes"`
	Status          string            `json:"status"`
	LaborCost       string            `json:"labor_cost"`
	Parts           []JobPartResponse `json:"parts_used"`
	TotalCost       string            `json:"total_cost"`
	PaidAmount      string            `json:"paid_amount"`
	RemainingAmount string            `json:"remaining_amount"`
}

// JobBoardColumn is one kanban column of the workshop board
type JobBoardColumn struct {
	Status string        `json:"status"`
	Jobs   []JobResponse `json:"jobs"`
}

// --- Interface ---

type MaintenanceService interface {
	CreateJob(ctx context.Context, userID string, req CreateJobRequest) (JobResponse, error)
	UpdateJob(ctx context.Context, userID string, id string, req UpdateJobRequest) (JobResponse, error)
	ChangeStatus(ctx context.Context, userID string, id string, status string) (JobResponse, error)
	DeleteJob(ctx context.Context, userID string, id string) error
	GetJob(ctx context.Context, id string) (JobResponse, error)
	ListJobs(ctx context.Context, filter repository.MaintenanceListFilter) ([]JobResponse, int64, error)
	Board(ctx context.Context, search string) ([]JobBoardColumn, error)
	MaterializeInvoice(ctx context.Context, id string) (*model.Sale, error)
}

type maintenanceService struct {
	maintenanceRepo repository.MaintenanceRepository
	customerRepo    repository.CustomerRepository
	productRepo     repository.ProductRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
}

func NewMaintenanceService(
	maintenanceRepo repository.MaintenanceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// --- Implementation ---

func (s *maintenanceService) CreateJob(ctx context.Context, userID string, req CreateJobRequest) (JobResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return JobResponse{}, fmt.Errorf("invalid customer_id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JobResponse{}, errors.New("customer not found")
		}
		return JobResponse{}, fmt.Errorf("failed to look up customer: %w", err)
	}

	laborCost, err := parseAmountField(req.LaborCost, "labor_cost")
	if err != nil {
		return JobResponse{}, err
	}
	paidAmount, err := parseAmountField(req.PaidAmount, "paid_amount")
	if err != nil {
		return JobResponse{}, err
	}

	parts, err := s.resolveParts(ctx, req.Parts)
	if err != nil {
		return JobResponse{}, err
	}

	jobNo, err := generateDocNo(ctx, prefixJob, 4, s.maintenanceRepo.ExistsJobNo)
	if err != nil {
		return JobResponse{}, fmt.Errorf("failed to generate job number: %w", err)
	}

	record := model.MaintenanceRecord{
		JobNo:           jobNo,
		Date:            time.Now(),
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		Technician:      req.Technician,
		DeviceInfo:      req.DeviceInfo,
		ServiceType:     req.ServiceType,
		InspectionNotes: req.InspectionNotes,
		Status:          model.StatusEntered,
		LaborCost:       laborCost,
		Parts:           parts,
		PaidAmount:      paidAmount,
	}
	recomputeFinancials(&record)
	applyCompletionDate(&record, time.Now())

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.maintenanceRepo.Create(txCtx, &record); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		return s.logJobAudit(txCtx, userID, model.ActionCreateJob, &record)
	})
	if err != nil {
		return JobResponse{}, err
	}

	s.hub.Publish(ws.EventJobUpdated, map[string]interface{}{
		"job_no": record.JobNo,
		"status": record.Status,
	})

	return toJobResponse(record), nil
}

func (s *maintenanceService) UpdateJob(ctx context.Context, userID string, id string, req UpdateJobRequest) (JobResponse, error) {
	record, err := s.findJob(ctx, id)
	if err != nil {
		return JobResponse{}, err
	}

	if req.Technician != nil {
		record.Technician = *req.Technician
	}
	if req.DeviceInfo != nil {
		record.DeviceInfo = *req.DeviceInfo
	}
	if req.ServiceType != nil {
		record.ServiceType = *req.ServiceType
	}
	if req.InspectionNotes != nil {
		record.InspectionNotes = *req.InspectionNotes
	}
	if req.Status != nil {
		if !validMaintenanceStatus(*req.Status) {
			return JobResponse{}, fmt.Errorf("invalid status %q", *req.Status)
		}
		record.Status = *req.Status
	}
	if req.LaborCost != nil {
		laborCost, parseErr := parseAmountField(*req.LaborCost, "labor_cost")
		if parseErr != nil {
			return JobResponse{}, parseErr
		}
		record.LaborCost = laborCost
	}
	if req.PaidAmount != nil {
		paidAmount, parseErr := parseAmountField(*req.PaidAmount, "paid_amount")
		if parseErr != nil {
			return JobResponse{}, parseErr
		}
		record.PaidAmount = paidAmount
	}
	if req.Parts != nil {
		parts, resolveErr := s.resolveParts(ctx, *req.Parts)
		if resolveErr != nil {
			return JobResponse{}, resolveErr
		}
		record.Parts = parts
	}

	// Committing a job always requires identification fields, matching the
	// create-time rule.
	if record.Technician == "" || record.DeviceInfo == "" {
		return JobResponse{}, errors.New("technician and device_info are required")
	}

	recomputeFinancials(record)
	applyCompletionDate(record, time.Now())

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.maintenanceRepo.ReplaceParts(txCtx, record.ID, record.Parts); err != nil {
			return fmt.Errorf("failed to update parts: %w", err)
		}
		if err := s.maintenanceRepo.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		return s.logJobAudit(txCtx, userID, model.ActionUpdateJob, record)
	})
	if err != nil {
		return JobResponse{}, err
	}

	s.hub.Publish(ws.EventJobUpdated, map[string]interface{}{
		"job_no": record.JobNo,
		"status": record.Status,
	})

	return toJobResponse(*record), nil
}

// ChangeStatus moves a job to any board column. The board is a display
// workflow, so no transition is rejected; the completion date follows the
// target status.
func (s *maintenanceService) ChangeStatus(ctx context.Context, userID string, id string, status string) (JobResponse, error) {
	if !validMaintenanceStatus(status) {
		return JobResponse{}, fmt.Errorf("invalid status %q", status)
	}

	record, err := s.findJob(ctx, id)
	if err != nil {
		return JobResponse{}, err
	}

	record.Status = status
	applyCompletionDate(record, time.Now())

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.maintenanceRepo.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update job status: %w", err)
		}
		return s.logJobAudit(txCtx, userID, model.ActionJobStatus, record)
	})
	if err != nil {
		return JobResponse{}, err
	}

	s.hub.Publish(ws.EventJobStatus, map[string]interface{}{
		"job_no": record.JobNo,
		"status": record.Status,
	})

	return toJobResponse(*record), nil
}

func (s *maintenanceService) DeleteJob(ctx context.Context, userID string, id string) error {
	record, err := s.findJob(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.maintenanceRepo.Delete(txCtx, record.ID); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		return s.logJobAudit(txCtx, userID, model.ActionDeleteJob, record)
	})
}

func (s *maintenanceService) GetJob(ctx context.Context, id string) (JobResponse, error) {
	record, err := s.findJob(ctx, id)
	if err != nil {
		return JobResponse{}, err
	}
	return toJobResponse(*record), nil
}

func (s *maintenanceService) ListJobs(ctx context.Context, filter repository.MaintenanceListFilter) ([]JobResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	records, total, err := s.maintenanceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	result := make([]JobResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toJobResponse(r))
	}
	return result, total, nil
}

// Board groups every job into its status column in workflow order
func (s *maintenanceService) Board(ctx context.Context, search string) ([]JobBoardColumn, error) {
	records, err := s.maintenanceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	columns := make([]JobBoardColumn, 0, len(model.MaintenanceStatuses))
	for _, status := range model.MaintenanceStatuses {
		column := JobBoardColumn{Status: status, Jobs: []JobResponse{}}
		for _, r := range records {
			if r.Status != status {
				continue
			}
			if search != "" && !jobMatches(r, search) {
				continue
			}
			column.Jobs = append(column.Jobs, toJobResponse(r))
		}
		columns = append(columns, column)
	}
	return columns, nil
}

// MaterializeInvoice projects a job into a Sale-shaped document for the
// invoice renderer. It is side-effect free: nothing is appended to the sales
// ledger and no balance moves.
func (s *maintenanceService) MaterializeInvoice(ctx context.Context, id string) (*model.Sale, error) {
	record, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]model.SaleItem, 0, len(record.Parts))
	for _, part := range record.Parts {
		items = append(items, model.SaleItem{
			ProductID:   part.ProductID,
			ProductCode: part.ProductCode,
			ProductName: part.ProductName,
			Quantity:    part.Quantity,
			Price:       part.Price,
		})
	}

	paymentMethod := model.PaymentCash
	if record.RemainingAmount.IsPositive() {
		paymentMethod = model.PaymentCredit
	}

	date := record.Date
	if record.CompletionDate != nil {
		date = *record.CompletionDate
	}

	customerType := model.CustomerPermanent
	if record.Customer != nil {
		customerType = record.Customer.Type
	}

	customerID := record.CustomerID
	return &model.Sale{
		InvoiceNo:         record.JobNo,
		Date:              date,
		CustomerID:        &customerID,
		CustomerName:      record.CustomerName,
		CustomerType:      customerType,
		Items:             items,
		LaborCost:         record.LaborCost,
		Total:             record.TotalCost,
		PaymentMethod:     paymentMethod,
		Status:            model.SaleCompleted,
		InvoiceType:       model.InvoiceTypeMaintenance,
		MaintenanceDevice: record.DeviceInfo,
		Notes:             record.InspectionNotes,
	}, nil
}

// --- Helpers ---

func (s *maintenanceService) findJob(ctx context.Context, id string) (*model.MaintenanceRecord, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid job id: %w", err)
	}
	record, err := s.maintenanceRepo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("job not found")
		}
		return nil, fmt.Errorf("failed to look up job: %w", err)
	}
	return record, nil
}

// resolveParts validates product references and fills the catalog price for
// lines that do not override it. Parts never touch catalog stock.
func (s *maintenanceService) resolveParts(ctx context.Context, reqs []JobPartRequest) ([]model.MaintenancePart, error) {
	parts := make([]model.MaintenancePart, 0, len(reqs))
	for _, pr := range reqs {
		productID, err := uuid.Parse(pr.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product not found: %s", pr.ProductID)
			}
			return nil, fmt.Errorf("failed to look up product %s: %w", pr.ProductID, err)
		}

		price := product.Price
		if pr.Price != "" {
			price, err = decimal.NewFromString(pr.Price)
			if err != nil {
				return nil, fmt.Errorf("invalid part price: %w", err)
			}
			if price.IsNegative() {
				return nil, errors.New("part price must not be negative")
			}
		}

		pid := product.ID
		parts = append(parts, model.MaintenancePart{
			ProductID:   &pid,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    pr.Quantity,
			Price:       price,
		})
	}
	return parts, nil
}

func (s *maintenanceService) logJobAudit(ctx context.Context, userID string, action string, record *model.MaintenanceRecord) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]interface{}{
		"job_no":     record.JobNo,
		"status":     record.Status,
		"total_cost": record.TotalCost,
		"remaining":  record.RemainingAmount,
	})
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   record.JobNo,
		EntityName: record.DeviceInfo,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// recomputeFinancials re-derives the job totals from labor and parts.
// Invoked on every save so stored totals are never stale. RemainingAmount is
// deliberately not clamped at zero; an overpaid job goes negative.
func recomputeFinancials(record *model.MaintenanceRecord) {
	record.TotalCost = record.LaborCost.Add(record.PartsTotal())
	record.RemainingAmount = record.TotalCost.Sub(record.PaidAmount)
}

// applyCompletionDate enforces: completion date set iff the job sits in
// Finished or Delivered. Moving a job backward erases the prior timestamp;
// re-entering a completed status stamps a fresh one.
func applyCompletionDate(record *model.MaintenanceRecord, now time.Time) {
	if model.IsCompletedStatus(record.Status) {
		if record.CompletionDate == nil {
			record.CompletionDate = &now
		}
		return
	}
	record.CompletionDate = nil
}

func validMaintenanceStatus(status string) bool {
	for _, s := range model.MaintenanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func jobMatches(r model.MaintenanceRecord, search string) bool {
	return containsFold(r.JobNo, search) || containsFold(r.CustomerName, search) || containsFold(r.DeviceInfo, search)
}

func toJobResponse(r model.MaintenanceRecord) JobResponse {
	parts := make([]JobPartResponse, 0, len(r.Parts))
	for _, p := range r.Parts {
		pr := JobPartResponse{
			ProductCode: p.ProductCode,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Price:       p.Price.StringFixed(4),
		}
		if p.ProductID != nil {
			pr.ProductID = p.ProductID.String()
		}
		parts = append(parts, pr)
	}

	resp := JobResponse{
		ID:              r.ID.String(),
		JobNo:           r.JobNo,
		Date:            r.Date.Format(time.RFC3339),
		CustomerID:      r.CustomerID.String(),
		CustomerName:    r.CustomerName,
		Technician:      r.Technician,
		DeviceInfo:      r.DeviceInfo,
		ServiceType:     r.ServiceType,
		InspectionNotes: r.InspectionNotes,
		Status:          r.Status,
		LaborCost:       r.LaborCost.StringFixed(4),
		Parts:           parts,
		TotalCost:       r.TotalCost.StringFixed(4),
		PaidAmount:      r.PaidAmount.StringFixed(4),
		RemainingAmount: r.RemainingAmount.StringFixed(4),
	}
	if r.CompletionDate != nil {
		d := r.CompletionDate.Format(time.RFC3339)
		resp.CompletionDate = &d
	}
	return resp
}
