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

type SaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Price     string `json:"price"` // optional override; defaults to the catalog price
}

type CreateSaleRequest struct {
	CustomerID        string            `json:"customer_id"` // empty for walk-in
	CustomerName      string            `json:"customer_name"`
	Items             []SaleItemRequest `json:"items" binding:"dive"`
	LaborCost         string            `json:"labor_cost"`
	PaymentMethod     string            `json:"payment_method" binding:"required,oneof=Cash Check Transfer Credit"`
	InvoiceType       string            `json:"invoice_type"`
	MaintenanceDevice string            `json:"maintenance_device"`
	Notes             string            `json:"notes"`
}

type DebtPaymentRequest struct {
	CustomerID    string `json:"customer_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=Cash Check Transfer"`
	Notes         string `json:"notes"`
}

type SaleItemResponse struct {
	ProductID   string `json:"product_id,omitempty"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	LineTotal   string `json:"line_total"`
}

type SaleResponse struct {
	ID                string             `json:"id"`
	InvoiceNo         string             `json:"invoice_no"`
	Date              string             `json:"date"`
	CustomerID        string             `json:"customer_id,omitempty"`
	CustomerName      string             `json:"customer_name"`
	CustomerType      string             `json:"customer_type"`
	Items             []SaleItemResponse `json:"items"`
	LaborCost         string             `json:"labor_cost"`
	Total             string             `json:"total"`
	PaymentMethod     string             `json:"payment_method"`
	Status            string             `json:"status"`
	InvoiceType       string             `json:"invoice_type"`
	MaintenanceDevice string             `json:"maintenance_device,omitempty"`
	Notes             string             `json:"notes,omitempty"`
}

type DebtPaymentResponse struct {
	Receipt    SaleResponse `json:"receipt"`
	NewBalance string       `json:"new_balance"`
}

// --- Interface ---

type SaleService interface {
	CreateSale(ctx context.Context, userID string, req CreateSaleRequest) (SaleResponse, error)
	DeleteSale(ctx context.Context, userID string, id string) error
	GetSale(ctx context.Context, id string) (SaleResponse, error)
	GetSaleModel(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context, filter repository.SaleListFilter) ([]SaleResponse, int64, error)
	PayDebt(ctx context.Context, userID string, req DebtPaymentRequest) (DebtPaymentResponse, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Implementation ---

// CreateSale posts an invoice to the ledger. The whole operation is one
// transaction: stock decrements, the ledger row and the audit entry commit or
// roll back together. Credit sales never touch the customer balance; credit
// exposure is read from the ledger itself.
func (s *saleService) CreateSale(ctx context.Context, userID string, req CreateSaleRequest) (SaleResponse, error) {
	laborCost, err := parseAmountField(req.LaborCost, "labor_cost")
	if err != nil {
		return SaleResponse{}, err
	}

	// Workshop convention: any labor charge marks the invoice as maintenance
	invoiceType := req.InvoiceType
	if invoiceType == "" {
		invoiceType = model.InvoiceTypeSale
		if laborCost.IsPositive() {
			invoiceType = model.InvoiceTypeMaintenance
		}
	}
	if invoiceType != model.InvoiceTypeSale && invoiceType != model.InvoiceTypeMaintenance {
		return SaleResponse{}, fmt.Errorf("invalid invoice_type %q", invoiceType)
	}

	// A labor charge without a device reference produces an invoice nobody
	// can reconcile against the workshop, so reject it up front.
	if len(req.Items) == 0 {
		if laborCost.IsZero() {
			return SaleResponse{}, errors.New("sale requires at least one item or a labor charge")
		}
		if req.MaintenanceDevice == "" {
			return SaleResponse{}, errors.New("labor-only sale requires maintenance_device")
		}
	}

	sale := model.Sale{
		Date:              time.Now(),
		CustomerName:      req.CustomerName,
		CustomerType:      model.CustomerWalkIn,
		LaborCost:         laborCost,
		PaymentMethod:     req.PaymentMethod,
		Status:            model.SaleCompleted,
		InvoiceType:       invoiceType,
		MaintenanceDevice: req.MaintenanceDevice,
		Notes:             req.Notes,
	}
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		sale.CreatedBy = &parsed
	}

	var customer *model.Customer
	if req.CustomerID != "" {
		customerID, parseErr := uuid.Parse(req.CustomerID)
		if parseErr != nil {
			return SaleResponse{}, fmt.Errorf("invalid customer_id: %w", parseErr)
		}
		customer, err = s.customerRepo.FindByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return SaleResponse{}, errors.New("customer not found")
			}
			return SaleResponse{}, fmt.Errorf("failed to look up customer: %w", err)
		}
		sale.CustomerID = &customer.ID
		sale.CustomerName = customer.Name
		sale.CustomerType = customer.Type
	} else if req.CustomerName == "" {
		sale.CustomerName = "زبون نقدي"
	}

	// Credit terms are only extendable to a registered customer account.
	if req.PaymentMethod == model.PaymentCredit && customer == nil {
		return SaleResponse{}, errors.New("credit sale requires a registered customer")
	}

	invoiceNo, err := generateDocNo(ctx, prefixSale, 4, s.saleRepo.ExistsInvoiceNo)
	if err != nil {
		return SaleResponse{}, fmt.Errorf("failed to generate invoice number: %w", err)
	}
	sale.InvoiceNo = invoiceNo

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, ir := range req.Items {
			productID, parseErr := uuid.Parse(ir.ProductID)
			if parseErr != nil {
				return fmt.Errorf("invalid product_id: %w", parseErr)
			}
			product, lookErr := s.productRepo.FindByIDForUpdate(txCtx, productID)
			if lookErr != nil {
				if errors.Is(lookErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product not found: %s", ir.ProductID)
				}
				return fmt.Errorf("failed to look up product %s: %w", ir.ProductID, lookErr)
			}

			if product.Stock < ir.Quantity {
				return fmt.Errorf("insufficient stock for %s: have %d, need %d", product.Code, product.Stock, ir.Quantity)
			}

			price := product.Price
			if ir.Price != "" {
				price, parseErr = decimal.NewFromString(ir.Price)
				if parseErr != nil {
					return fmt.Errorf("invalid item price: %w", parseErr)
				}
				if price.IsNegative() {
					return errors.New("item price must not be negative")
				}
			}

			if stockErr := s.productRepo.UpdateStock(txCtx, product.ID, product.Stock-ir.Quantity); stockErr != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", product.Code, stockErr)
			}

			pid := product.ID
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:   &pid,
				ProductCode: product.Code,
				ProductName: product.Name,
				Quantity:    ir.Quantity,
				Price:       price,
			})
		}

		sale.Total = sale.ItemsTotal().Add(sale.LaborCost)

		if createErr := s.saleRepo.Create(txCtx, &sale); createErr != nil {
			return fmt.Errorf("failed to create sale: %w", createErr)
		}

		return s.logSaleAudit(txCtx, userID, model.ActionCreateSale, &sale)
	})
	if err != nil {
		return SaleResponse{}, err
	}

	s.hub.Publish(ws.EventSaleCreated, map[string]interface{}{
		"invoice_no": sale.InvoiceNo,
		"total":      sale.Total,
	})
	if len(sale.Items) > 0 {
		s.hub.Publish(ws.EventStockUpdated, map[string]interface{}{
			"invoice_no": sale.InvoiceNo,
		})
	}

	return toSaleResponse(sale), nil
}

// DeleteSale removes the ledger row only. Stock and customer balances are
// left as they are; reversing the goods or money movement is a bookkeeping
// decision the operator makes separately.
func (s *saleService) DeleteSale(ctx context.Context, userID string, id string) error {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.saleRepo.Delete(txCtx, sale.ID); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}
		return s.logSaleAudit(txCtx, userID, model.ActionDeleteSale, sale)
	})
}

func (s *saleService) GetSale(ctx context.Context, id string) (SaleResponse, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return SaleResponse{}, err
	}
	return toSaleResponse(*sale), nil
}

// GetSaleModel returns the raw ledger row for the document renderer
func (s *saleService) GetSaleModel(ctx context.Context, id string) (*model.Sale, error) {
	return s.findSale(ctx, id)
}

func (s *saleService) ListSales(ctx context.Context, filter repository.SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}

	result := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		result = append(result, toSaleResponse(sale))
	}
	return result, total, nil
}

// PayDebt confirms a customer payment: the balance moves up by the amount and
// a PAY-###### receipt row is appended to the ledger with a single synthetic
// line item so the receipt prints through the normal invoice path.
func (s *saleService) PayDebt(ctx context.Context, userID string, req DebtPaymentRequest) (DebtPaymentResponse, error) {
	amount, err := parseAmountField(req.Amount, "amount")
	if err != nil {
		return DebtPaymentResponse{}, err
	}
	if amount.IsZero() {
		return DebtPaymentResponse{}, errors.New("amount must be greater than zero")
	}

	// Cash, check or transfer as selected; a debt cannot be settled on credit
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentCash
	}
	if paymentMethod != model.PaymentCash && paymentMethod != model.PaymentCheck && paymentMethod != model.PaymentTransfer {
		return DebtPaymentResponse{}, fmt.Errorf("invalid payment_method %q", paymentMethod)
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return DebtPaymentResponse{}, fmt.Errorf("invalid customer_id: %w", err)
	}

	receiptNo, err := generateDocNo(ctx, prefixDebtPayment, 6, s.saleRepo.ExistsInvoiceNo)
	if err != nil {
		return DebtPaymentResponse{}, fmt.Errorf("failed to generate receipt number: %w", err)
	}

	var receipt model.Sale
	var newBalance decimal.Decimal

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		customer, lockErr := s.customerRepo.FindByIDForUpdate(txCtx, customerID)
		if lockErr != nil {
			if errors.Is(lockErr, gorm.ErrRecordNotFound) {
				return errors.New("customer not found")
			}
			return fmt.Errorf("failed to lock customer: %w", lockErr)
		}

		newBalance = customer.Balance.Add(amount)
		if balErr := s.customerRepo.UpdateBalance(txCtx, customer.ID, newBalance); balErr != nil {
			return fmt.Errorf("failed to update customer balance: %w", balErr)
		}

		receipt = model.Sale{
			InvoiceNo:    receiptNo,
			Date:         time.Now(),
			CustomerID:   &customer.ID,
			CustomerName: customer.Name,
			CustomerType: customer.Type,
			Items: []model.SaleItem{{
				ProductCode: model.DebtPaymentCode,
				ProductName: "سداد دين",
				Quantity:    1,
				Price:       amount,
			}},
			Total:         amount,
			PaymentMethod: paymentMethod,
			Status:        model.SaleCompleted,
			InvoiceType:   model.InvoiceTypeSale,
			Notes:         req.Notes,
		}
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			receipt.CreatedBy = &parsed
		}

		if createErr := s.saleRepo.Create(txCtx, &receipt); createErr != nil {
			return fmt.Errorf("failed to create payment receipt: %w", createErr)
		}

		return s.logSaleAudit(txCtx, userID, model.ActionDebtPayment, &receipt)
	})
	if err != nil {
		return DebtPaymentResponse{}, err
	}

	s.hub.Publish(ws.EventDebtPayment, map[string]interface{}{
		"receipt_no":  receipt.InvoiceNo,
		"amount":      amount,
		"new_balance": newBalance,
	})

	return DebtPaymentResponse{
		Receipt:    toSaleResponse(receipt),
		NewBalance: newBalance.StringFixed(4),
	}, nil
}

// --- Helpers ---

func (s *saleService) findSale(ctx context.Context, id string) (*model.Sale, error) {
	saleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sale id: %w", err)
	}
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("sale not found")
		}
		return nil, fmt.Errorf("failed to look up sale: %w", err)
	}
	return sale, nil
}

func (s *saleService) logSaleAudit(ctx context.Context, userID string, action string, sale *model.Sale) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]interface{}{
		"invoice_no":     sale.InvoiceNo,
		"total":          sale.Total,
		"payment_method": sale.PaymentMethod,
		"items":          len(sale.Items),
	})
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   sale.InvoiceNo,
		EntityName: sale.CustomerName,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toSaleResponse(sale model.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		ir := SaleItemResponse{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(4),
			LineTotal:   item.LineTotal().StringFixed(4),
		}
		if item.ProductID != nil {
			ir.ProductID = item.ProductID.String()
		}
		items = append(items, ir)
	}

	resp := SaleResponse{
		ID:                sale.ID.String(),
		InvoiceNo:         sale.InvoiceNo,
		Date:              sale.Date.Format(time.RFC3339),
		CustomerName:      sale.CustomerName,
		CustomerType:      sale.CustomerType,
		Items:             items,
		LaborCost:         sale.LaborCost.StringFixed(4),
		Total:             sale.Total.StringFixed(4),
		PaymentMethod:     sale.PaymentMethod,
		Status:            sale.Status,
		InvoiceType:       sale.InvoiceType,
		MaintenanceDevice: sale.MaintenanceDevice,
		Notes:             sale.Notes,
	}
	if sale.CustomerID != nil {
		resp.CustomerID = sale.CustomerID.String()
	}
	return resp
}
