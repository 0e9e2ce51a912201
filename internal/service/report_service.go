package service

import (
	"context"
	"fmt"
	"time"

	"marine-backend/internal/model"
	"marine-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// --- Report DTOs ---

// DailyReport aggregates one calendar day of ledger activity
type DailyReport struct {
	Date            string          `json:"date"`
	InvoiceCount    int             `json:"invoice_count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	CashTotal       decimal.Decimal `json:"cash_total"`
	CheckTotal      decimal.Decimal `json:"check_total"`
	TransferTotal   decimal.Decimal `json:"transfer_total"`
	CreditTotal     decimal.Decimal `json:"credit_total"`
	DebtPayments    decimal.Decimal `json:"debt_payments"`
	MaintenanceRows int             `json:"maintenance_rows"`
	Sales           []model.Sale    `json:"sales"`
}

// InventoryReport summarizes the catalog's stock position
type InventoryReport struct {
	ProductCount    int                        `json:"product_count"`
	TotalUnits      int                        `json:"total_units"`
	StockValueLYD   decimal.Decimal            `json:"stock_value_lyd"`
	StockCostUSD    decimal.Decimal            `json:"stock_cost_usd"`
	ValueByCategory map[string]decimal.Decimal `json:"value_by_category"`
	LowStock        []model.Product            `json:"low_stock"`
	OutOfStock      []model.Product            `json:"out_of_stock"`
	Products        []model.Product            `json:"products"`
}

// DebtReportRow is one indebted customer in the receivables report
type DebtReportRow struct {
	CustomerID   string          `json:"customer_id"`
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	Contact      string          `json:"contact"`
	Balance      decimal.Decimal `json:"balance"`
	Owed         decimal.Decimal `json:"owed"`
}

// DebtReport lists every customer carrying debt with the grand total owed
type DebtReport struct {
	Rows      []DebtReportRow `json:"rows"`
	TotalOwed decimal.Decimal `json:"total_owed"`
}

// MaintenanceReport is the workshop's financial exposure
type MaintenanceReport struct {
	JobCount         int                       `json:"job_count"`
	OpenJobs         int                       `json:"open_jobs"`
	FinishedJobs     int                       `json:"finished_jobs"`
	UnpaidJobs       int                       `json:"unpaid_jobs"`
	TotalOutstanding decimal.Decimal           `json:"total_outstanding"`
	Jobs             []model.MaintenanceRecord `json:"jobs"`
}

// DashboardStats feeds the landing-page summary cards
type DashboardStats struct {
	TodaySales      decimal.Decimal `json:"today_sales"`
	TodayInvoices   int             `json:"today_invoices"`
	OpenJobs        int             `json:"open_jobs"`
	FinishedJobs    int             `json:"finished_jobs"`
	MaintenanceOwed decimal.Decimal `json:"maintenance_owed"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalOwed       decimal.Decimal `json:"total_owed"`
	UnreadMessages  int64           `json:"unread_messages"`
}

// --- Interface ---

type ReportService interface {
	Daily(ctx context.Context, day time.Time) (DailyReport, error)
	Inventory(ctx context.Context) (InventoryReport, error)
	Debts(ctx context.Context) (DebtReport, error)
	Maintenance(ctx context.Context) (MaintenanceReport, error)
	Dashboard(ctx context.Context) (DashboardStats, error)
}

type reportService struct {
	saleRepo        repository.SaleRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	maintenanceRepo repository.MaintenanceRepository
	messageRepo     repository.MessageRepository
}

func NewReportService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	maintenanceRepo repository.MaintenanceRepository,
	messageRepo repository.MessageRepository,
) ReportService {
	return &reportService{
		saleRepo:        saleRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		maintenanceRepo: maintenanceRepo,
		messageRepo:     messageRepo,
	}
}

// --- Implementation ---

// Daily fetches the day's ledger rows and folds them with ReduceDaily.
// The repository narrows the window; all arithmetic happens in the reducer.
func (s *reportService) Daily(ctx context.Context, day time.Time) (DailyReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	sales, err := s.saleRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return DailyReport{}, fmt.Errorf("failed to fetch sales for daily report: %w", err)
	}

	report := ReduceDaily(sales)
	report.Date = start.Format("2006-01-02")
	return report, nil
}

func (s *reportService) Inventory(ctx context.Context) (InventoryReport, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return InventoryReport{}, fmt.Errorf("failed to fetch products for inventory report: %w", err)
	}
	return ReduceInventory(products), nil
}

func (s *reportService) Debts(ctx context.Context) (DebtReport, error) {
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return DebtReport{}, fmt.Errorf("failed to fetch customers for debt report: %w", err)
	}
	return ReduceDebts(customers), nil
}

func (s *reportService) Maintenance(ctx context.Context) (MaintenanceReport, error) {
	jobs, err := s.maintenanceRepo.ListAll(ctx)
	if err != nil {
		return MaintenanceReport{}, fmt.Errorf("failed to fetch jobs for maintenance report: %w", err)
	}
	return ReduceMaintenance(jobs), nil
}

func (s *reportService) Dashboard(ctx context.Context) (DashboardStats, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sales, err := s.saleRepo.ListByDateRange(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to fetch today's sales: %w", err)
	}
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to fetch products: %w", err)
	}
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to fetch customers: %w", err)
	}
	jobs, err := s.maintenanceRepo.ListAll(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	unread, err := s.messageRepo.CountUnread(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count unread messages: %w", err)
	}

	daily := ReduceDaily(sales)
	inventory := ReduceInventory(products)
	debts := ReduceDebts(customers)
	workshop := ReduceMaintenance(jobs)

	return DashboardStats{
		TodaySales:      daily.TotalSales,
		TodayInvoices:   daily.InvoiceCount,
		OpenJobs:        workshop.OpenJobs,
		FinishedJobs:    workshop.FinishedJobs,
		MaintenanceOwed: workshop.TotalOutstanding,
		LowStockCount:   len(inventory.LowStock),
		OutOfStockCount: len(inventory.OutOfStock),
		TotalOwed:       debts.TotalOwed,
		UnreadMessages:  unread,
	}, nil
}

// --- Pure reducers ---

// ReduceDaily folds a day's ledger rows into the daily report totals. Every
// row pools into the grand total and its payment-method bucket, debt-payment
// receipts included; DebtPayments additionally tracks the day's collections.
func ReduceDaily(sales []model.Sale) DailyReport {
	report := DailyReport{
		TotalSales:    decimal.Zero,
		CashTotal:     decimal.Zero,
		CheckTotal:    decimal.Zero,
		TransferTotal: decimal.Zero,
		CreditTotal:   decimal.Zero,
		DebtPayments:  decimal.Zero,
		Sales:         sales,
	}

	for _, sale := range sales {
		report.InvoiceCount++
		report.TotalSales = report.TotalSales.Add(sale.Total)
		if isDebtPaymentReceipt(sale) {
			report.DebtPayments = report.DebtPayments.Add(sale.Total)
		}
		if sale.InvoiceType == model.InvoiceTypeMaintenance {
			report.MaintenanceRows++
		}

		switch sale.PaymentMethod {
		case model.PaymentCash:
			report.CashTotal = report.CashTotal.Add(sale.Total)
		case model.PaymentCheck:
			report.CheckTotal = report.CheckTotal.Add(sale.Total)
		case model.PaymentTransfer:
			report.TransferTotal = report.TransferTotal.Add(sale.Total)
		case model.PaymentCredit:
			report.CreditTotal = report.CreditTotal.Add(sale.Total)
		}
	}
	return report
}

// ReduceInventory folds the catalog into stock counts and valuations
func ReduceInventory(products []model.Product) InventoryReport {
	report := InventoryReport{
		ProductCount:    len(products),
		StockValueLYD:   decimal.Zero,
		StockCostUSD:    decimal.Zero,
		ValueByCategory: make(map[string]decimal.Decimal),
		Products:        products,
	}

	for _, p := range products {
		qty := decimal.NewFromInt(int64(p.Stock))
		value := p.Price.Mul(qty)
		report.TotalUnits += p.Stock
		report.StockValueLYD = report.StockValueLYD.Add(value)
		report.StockCostUSD = report.StockCostUSD.Add(p.CostUSD.Mul(qty))
		report.ValueByCategory[p.Category] = report.ValueByCategory[p.Category].Add(value)

		switch {
		case p.Stock == 0:
			report.OutOfStock = append(report.OutOfStock, p)
		case p.IsLowStock():
			report.LowStock = append(report.LowStock, p)
		}
	}
	return report
}

// ReduceMaintenance folds the workshop into its financial exposure: how many
// jobs sit open and what remains uncollected on jobs carrying a balance.
func ReduceMaintenance(jobs []model.MaintenanceRecord) MaintenanceReport {
	report := MaintenanceReport{
		JobCount:         len(jobs),
		TotalOutstanding: decimal.Zero,
		Jobs:             jobs,
	}

	for _, job := range jobs {
		if model.IsCompletedStatus(job.Status) {
			report.FinishedJobs++
		} else {
			report.OpenJobs++
		}
		if job.RemainingAmount.IsPositive() {
			report.UnpaidJobs++
			report.TotalOutstanding = report.TotalOutstanding.Add(job.RemainingAmount)
		}
	}
	return report
}

// ReduceDebts selects customers with negative balances and totals what they
// owe. Owed is the balance negated so the report reads as positive debt.
func ReduceDebts(customers []model.Customer) DebtReport {
	report := DebtReport{
		Rows:      []DebtReportRow{},
		TotalOwed: decimal.Zero,
	}

	for _, c := range customers {
		if !c.OwesCompany() {
			continue
		}
		owed := c.Balance.Neg()
		report.Rows = append(report.Rows, DebtReportRow{
			CustomerID:   c.ID.String(),
			CustomerCode: c.Code,
			CustomerName: c.Name,
			Contact:      c.Contact,
			Balance:      c.Balance,
			Owed:         owed,
		})
		report.TotalOwed = report.TotalOwed.Add(owed)
	}
	return report
}

func isDebtPaymentReceipt(sale model.Sale) bool {
	for _, item := range sale.Items {
		if item.ProductCode == model.DebtPaymentCode {
			return true
		}
	}
	return false
}
