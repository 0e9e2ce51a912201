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

type CreateProductRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category" binding:"required"`
	Stock      int    `json:"stock" binding:"gte=0"`
	Price      string `json:"price" binding:"required"`
	CostUSD    string `json:"cost_usd"`
	MinStock   int    `json:"min_stock" binding:"gte=0"`
	Location   string `json:"location"`
	SupplierID string `json:"supplier_id"`
}

type UpdateProductRequest struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	Stock      *int    `json:"stock"`
	Price      *string `json:"price"`
	CostUSD    *string `json:"cost_usd"`
	MinStock   *int    `json:"min_stock"`
	Location   *string `json:"location"`
	SupplierID *string `json:"supplier_id"`
}

type ProductResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Stock      int    `json:"stock"`
	Price      string `json:"price"`
	CostUSD    string `json:"cost_usd"`
	MinStock   int    `json:"min_stock"`
	Location   string `json:"location"`
	SupplierID string `json:"supplier_id,omitempty"`
	LowStock   bool   `json:"low_stock"`
}

type SupplyItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	CostUSD   string `json:"cost_usd" binding:"required"`
	PriceLYD  string `json:"price_lyd" binding:"required"`
}

type SupplyIntakeRequest struct {
	SupplierID   string              `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	Items        []SupplyItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes        string              `json:"notes"`
}

type SupplyItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	CostUSD     string `json:"cost_usd"`
	PriceLYD    string `json:"price_lyd"`
}

type SupplyInvoiceResponse struct {
	ID           string               `json:"id"`
	InvoiceNo    string               `json:"invoice_no"`
	Date         string               `json:"date"`
	SupplierID   string               `json:"supplier_id,omitempty"`
	SupplierName string               `json:"supplier_name"`
	Items        []SupplyItemResponse `json:"items"`
	TotalUSD     string               `json:"total_usd"`
	TotalLYD     string               `json:"total_lyd"`
	Notes        string               `json:"notes,omitempty"`
}

// --- Interface ---

type InventoryService interface {
	CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, userID string, id string) error
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]ProductResponse, int64, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	ReceiveSupply(ctx context.Context, userID string, req SupplyIntakeRequest) (SupplyInvoiceResponse, error)
	GetSupplyInvoice(ctx context.Context, id string) (SupplyInvoiceResponse, error)
	GetSupplyInvoiceModel(ctx context.Context, id string) (*model.SupplyInvoice, error)
	ListSupplyInvoices(ctx context.Context, page, limit int, search string) ([]SupplyInvoiceResponse, int64, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	supplyRepo   repository.SupplyRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	supplyRepo repository.SupplyRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo:  productRepo,
		supplyRepo:   supplyRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Products ---

func (s *inventoryService) CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (ProductResponse, error) {
	if !validCategory(req.Category) {
		return ProductResponse{}, fmt.Errorf("invalid category %q", req.Category)
	}

	price, err := parseAmountField(req.Price, "price")
	if err != nil {
		return ProductResponse{}, err
	}
	costUSD, err := parseAmountField(req.CostUSD, "cost_usd")
	if err != nil {
		return ProductResponse{}, err
	}

	product := model.Product{
		Code:     req.Code,
		Name:     req.Name,
		Category: req.Category,
		Stock:    req.Stock,
		Price:    price,
		CostUSD:  costUSD,
		MinStock: req.MinStock,
		Location: req.Location,
	}
	if req.SupplierID != "" {
		supplierID, parseErr := uuid.Parse(req.SupplierID)
		if parseErr != nil {
			return ProductResponse{}, fmt.Errorf("invalid supplier_id: %w", parseErr)
		}
		if _, lookErr := s.supplierRepo.FindByID(ctx, supplierID); lookErr != nil {
			if errors.Is(lookErr, gorm.ErrRecordNotFound) {
				return ProductResponse{}, errors.New("supplier not found")
			}
			return ProductResponse{}, fmt.Errorf("failed to look up supplier: %w", lookErr)
		}
		product.SupplierID = &supplierID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return s.logProductAudit(txCtx, userID, model.ActionCreateProduct, &product)
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(product), nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductResponse{}, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return ProductResponse{}, fmt.Errorf("invalid category %q", *req.Category)
		}
		product.Category = *req.Category
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return ProductResponse{}, errors.New("stock must not be negative")
		}
		product.Stock = *req.Stock
	}
	if req.Price != nil {
		price, parseErr := parseAmountField(*req.Price, "price")
		if parseErr != nil {
			return ProductResponse{}, parseErr
		}
		product.Price = price
	}
	if req.CostUSD != nil {
		costUSD, parseErr := parseAmountField(*req.CostUSD, "cost_usd")
		if parseErr != nil {
			return ProductResponse{}, parseErr
		}
		product.CostUSD = costUSD
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return ProductResponse{}, errors.New("min_stock must not be negative")
		}
		product.MinStock = *req.MinStock
	}
	if req.Location != nil {
		product.Location = *req.Location
	}
	if req.SupplierID != nil {
		if *req.SupplierID == "" {
			product.SupplierID = nil
		} else {
			supplierID, parseErr := uuid.Parse(*req.SupplierID)
			if parseErr != nil {
				return ProductResponse{}, fmt.Errorf("invalid supplier_id: %w", parseErr)
			}
			product.SupplierID = &supplierID
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return s.logProductAudit(txCtx, userID, model.ActionUpdateProduct, product)
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(*product), nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, userID string, id string) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, product.ID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return s.logProductAudit(txCtx, userID, model.ActionDeleteProduct, product)
	})
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(*product), nil
}

func (s *inventoryService) ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result, total, nil
}

func (s *inventoryService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.ListAll(ctx)
}

// --- Supply intake ---

// ReceiveSupply records a shipment: one transaction incrementing stock on
// every received product and overwriting its cost/price with the invoice's
// values. The newest shipment always wins the pricing.
func (s *inventoryService) ReceiveSupply(ctx context.Context, userID string, req SupplyIntakeRequest) (SupplyInvoiceResponse, error) {
	invoice := model.SupplyInvoice{
		Date:         time.Now(),
		SupplierName: req.SupplierName,
		Notes:        req.Notes,
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		invoice.CreatedBy = &parsed
	}

	if req.SupplierID != "" {
		supplierID, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return SupplyInvoiceResponse{}, fmt.Errorf("invalid supplier_id: %w", err)
		}
		supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return SupplyInvoiceResponse{}, errors.New("supplier not found")
			}
			return SupplyInvoiceResponse{}, fmt.Errorf("failed to look up supplier: %w", err)
		}
		invoice.SupplierID = &supplier.ID
		invoice.SupplierName = supplier.Name
	}
	if invoice.SupplierName == "" {
		return SupplyInvoiceResponse{}, errors.New("supplier_id or supplier_name is required")
	}

	invoiceNo, err := generateSupplyNo(ctx, s.supplyRepo.ExistsInvoiceNo)
	if err != nil {
		return SupplyInvoiceResponse{}, fmt.Errorf("failed to generate supply invoice number: %w", err)
	}
	invoice.InvoiceNo = invoiceNo

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		totalUSD := decimal.Zero
		totalLYD := decimal.Zero

		for _, ir := range req.Items {
			productID, parseErr := uuid.Parse(ir.ProductID)
			if parseErr != nil {
				return fmt.Errorf("invalid product_id: %w", parseErr)
			}

			costUSD, parseErr := parseAmountField(ir.CostUSD, "cost_usd")
			if parseErr != nil {
				return parseErr
			}
			priceLYD, parseErr := parseAmountField(ir.PriceLYD, "price_lyd")
			if parseErr != nil {
				return parseErr
			}

			product, lookErr := s.productRepo.FindByIDForUpdate(txCtx, productID)
			if lookErr != nil {
				if errors.Is(lookErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product not found: %s", ir.ProductID)
				}
				return fmt.Errorf("failed to look up product %s: %w", ir.ProductID, lookErr)
			}

			product.Stock += ir.Quantity
			product.CostUSD = costUSD
			product.Price = priceLYD
			if invoice.SupplierID != nil {
				product.SupplierID = invoice.SupplierID
			}
			if updErr := s.productRepo.Update(txCtx, product); updErr != nil {
				return fmt.Errorf("failed to update product %s: %w", product.Code, updErr)
			}

			qty := decimal.NewFromInt(int64(ir.Quantity))
			totalUSD = totalUSD.Add(costUSD.Mul(qty))
			totalLYD = totalLYD.Add(priceLYD.Mul(qty))

			invoice.Items = append(invoice.Items, model.SupplyItem{
				ProductID:   product.ID,
				ProductCode: product.Code,
				ProductName: product.Name,
				Quantity:    ir.Quantity,
				CostUSD:     costUSD,
				PriceLYD:    priceLYD,
			})
		}

		invoice.TotalUSD = totalUSD
		invoice.TotalLYD = totalLYD

		if createErr := s.supplyRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create supply invoice: %w", createErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(map[string]interface{}{
			"invoice_no": invoice.InvoiceNo,
			"total_usd":  invoice.TotalUSD,
			"total_lyd":  invoice.TotalLYD,
			"items":      len(invoice.Items),
		})
		entry := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionSupplyIntake,
			EntityID:   invoice.InvoiceNo,
			EntityName: invoice.SupplierName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, entry); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return SupplyInvoiceResponse{}, err
	}

	s.hub.Publish(ws.EventStockUpdated, map[string]interface{}{
		"invoice_no": invoice.InvoiceNo,
	})

	return toSupplyResponse(invoice), nil
}

func (s *inventoryService) GetSupplyInvoice(ctx context.Context, id string) (SupplyInvoiceResponse, error) {
	invoice, err := s.GetSupplyInvoiceModel(ctx, id)
	if err != nil {
		return SupplyInvoiceResponse{}, err
	}
	return toSupplyResponse(*invoice), nil
}

// GetSupplyInvoiceModel returns the raw invoice row for the document renderer
func (s *inventoryService) GetSupplyInvoiceModel(ctx context.Context, id string) (*model.SupplyInvoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid supply invoice id: %w", err)
	}
	invoice, err := s.supplyRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supply invoice not found")
		}
		return nil, fmt.Errorf("failed to look up supply invoice: %w", err)
	}
	return invoice, nil
}

func (s *inventoryService) ListSupplyInvoices(ctx context.Context, page, limit int, search string) ([]SupplyInvoiceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	invoices, total, err := s.supplyRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch supply invoices: %w", err)
	}

	result := make([]SupplyInvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toSupplyResponse(inv))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *inventoryService) findProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	return product, nil
}

func (s *inventoryService) logProductAudit(ctx context.Context, userID string, action string, product *model.Product) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]interface{}{
		"code":  product.Code,
		"stock": product.Stock,
		"price": product.Price,
	})
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   product.Code,
		EntityName: product.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range model.ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

func toProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:       p.ID.String(),
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Stock:    p.Stock,
		Price:    p.Price.StringFixed(4),
		CostUSD:  p.CostUSD.StringFixed(4),
		MinStock: p.MinStock,
		Location: p.Location,
		LowStock: p.IsLowStock(),
	}
	if p.SupplierID != nil {
		resp.SupplierID = p.SupplierID.String()
	}
	return resp
}

func toSupplyResponse(inv model.SupplyInvoice) SupplyInvoiceResponse {
	items := make([]SupplyItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, SupplyItemResponse{
			ProductID:   item.ProductID.String(),
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			CostUSD:     item.CostUSD.StringFixed(4),
			PriceLYD:    item.PriceLYD.StringFixed(4),
		})
	}

	resp := SupplyInvoiceResponse{
		ID:           inv.ID.String(),
		InvoiceNo:    inv.InvoiceNo,
		Date:         inv.Date.Format(time.RFC3339),
		SupplierName: inv.SupplierName,
		Items:        items,
		TotalUSD:     inv.TotalUSD.StringFixed(4),
		TotalLYD:     inv.TotalLYD.StringFixed(4),
		Notes:        inv.Notes,
	}
	if inv.SupplierID != nil {
		resp.SupplierID = inv.SupplierID.String()
	}
	return resp
}
