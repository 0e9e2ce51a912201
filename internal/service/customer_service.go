package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marine-backend/internal/model"
	"marine-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCustomerRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Type    string `json:"type" binding:"omitempty,oneof=Permanent WalkIn"`
	Balance string `json:"balance"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Type    *string `json:"type"`
	Balance *string `json:"balance"` // manual ledger correction
}

type CustomerResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Type        string `json:"type"`
	Balance     string `json:"balance"`
	OwesCompany bool   `json:"owes_company"`
}

// CustomerStatementResponse is one customer's full trading history
type CustomerStatementResponse struct {
	Customer      CustomerResponse `json:"customer"`
	Invoices      []SaleResponse   `json:"invoices"`
	Jobs          []JobResponse    `json:"jobs"`
	TotalInvoiced string           `json:"total_invoiced"`
	TotalJobsOwed string           `json:"total_jobs_owed"`
}

// --- Interface ---

type CustomerService interface {
	CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error)
	UpdateCustomer(ctx context.Context, userID string, id string, req UpdateCustomerRequest) (CustomerResponse, error)
	DeleteCustomer(ctx context.Context, userID string, id string) error
	GetCustomer(ctx context.Context, id string) (CustomerResponse, error)
	GetStatement(ctx context.Context, id string) (CustomerStatementResponse, error)
	ListCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error)
}

type customerService struct {
	customerRepo    repository.CustomerRepository
	saleRepo        repository.SaleRepository
	maintenanceRepo repository.MaintenanceRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	maintenanceRepo repository.MaintenanceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CustomerService {
	return &customerService{
		customerRepo:    customerRepo,
		saleRepo:        saleRepo,
		maintenanceRepo: maintenanceRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
	}
}

// --- Implementation ---

func (s *customerService) CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error) {
	customerType := req.Type
	if customerType == "" {
		customerType = model.CustomerPermanent
	}

	// Opening balance may be negative (customer starts with carried-over debt)
	balance, err := parseSignedAmountField(req.Balance, "balance")
	if err != nil {
		return CustomerResponse{}, err
	}

	customer := model.Customer{
		Code:    req.Code,
		Name:    req.Name,
		Contact: req.Contact,
		Type:    customerType,
		Balance: balance,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Create(txCtx, &customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		return s.logCustomerAudit(txCtx, userID, model.ActionCreateCustomer, &customer)
	})
	if err != nil {
		return CustomerResponse{}, err
	}

	return toCustomerResponse(customer), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, userID string, id string, req UpdateCustomerRequest) (CustomerResponse, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return CustomerResponse{}, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Contact != nil {
		customer.Contact = *req.Contact
	}
	if req.Type != nil {
		if *req.Type != model.CustomerPermanent && *req.Type != model.CustomerWalkIn {
			return CustomerResponse{}, fmt.Errorf("invalid customer type %q", *req.Type)
		}
		customer.Type = *req.Type
	}
	if req.Balance != nil {
		balance, parseErr := parseSignedAmountField(*req.Balance, "balance")
		if parseErr != nil {
			return CustomerResponse{}, parseErr
		}
		customer.Balance = balance
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Update(txCtx, customer); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}
		return s.logCustomerAudit(txCtx, userID, model.ActionUpdateCustomer, customer)
	})
	if err != nil {
		return CustomerResponse{}, err
	}

	return toCustomerResponse(*customer), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, userID string, id string) error {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return err
	}

	if customer.OwesCompany() {
		return errors.New("cannot delete a customer with outstanding debt")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Delete(txCtx, customer.ID); err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return s.logCustomerAudit(txCtx, userID, model.ActionDeleteCustomer, customer)
	})
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (CustomerResponse, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(*customer), nil
}

// GetStatement assembles a customer's trading history: every ledger row and
// every workshop job, with the invoiced total and what the workshop is still
// owed. Read-only; nothing is recomputed or written back.
func (s *customerService) GetStatement(ctx context.Context, id string) (CustomerStatementResponse, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return CustomerStatementResponse{}, err
	}

	sales, err := s.saleRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return CustomerStatementResponse{}, fmt.Errorf("failed to fetch customer sales: %w", err)
	}
	jobs, err := s.maintenanceRepo.ListAll(ctx)
	if err != nil {
		return CustomerStatementResponse{}, fmt.Errorf("failed to fetch customer jobs: %w", err)
	}

	statement := CustomerStatementResponse{
		Customer: toCustomerResponse(*customer),
		Invoices: make([]SaleResponse, 0, len(sales)),
		Jobs:     []JobResponse{},
	}

	totalInvoiced := decimal.Zero
	for _, sale := range sales {
		totalInvoiced = totalInvoiced.Add(sale.Total)
		statement.Invoices = append(statement.Invoices, toSaleResponse(sale))
	}

	totalJobsOwed := decimal.Zero
	for _, job := range jobs {
		if job.CustomerID != customer.ID {
			continue
		}
		if job.RemainingAmount.IsPositive() {
			totalJobsOwed = totalJobsOwed.Add(job.RemainingAmount)
		}
		statement.Jobs = append(statement.Jobs, toJobResponse(job))
	}

	statement.TotalInvoiced = totalInvoiced.StringFixed(4)
	statement.TotalJobsOwed = totalJobsOwed.StringFixed(4)
	return statement, nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.customerRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	result := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, toCustomerResponse(c))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *customerService) findCustomer(ctx context.Context, id string) (*model.Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("customer not found")
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) logCustomerAudit(ctx context.Context, userID string, action string, customer *model.Customer) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]interface{}{
		"code":    customer.Code,
		"balance": customer.Balance,
	})
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   customer.Code,
		EntityName: customer.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toCustomerResponse(c model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID.String(),
		Code:        c.Code,
		Name:        c.Name,
		Contact:     c.Contact,
		Type:        c.Type,
		Balance:     c.Balance.StringFixed(4),
		OwesCompany: c.OwesCompany(),
	}
}
