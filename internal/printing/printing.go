// Package printing renders ledger documents as self-contained A4 HTML pages
// ready for the browser's print dialog.
package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"marine-backend/internal/model"
	"marine-backend/internal/service"
	"marine-backend/pkg/money"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// CompanyInfo is the letterhead printed on every document
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// DefaultCompany is the letterhead used unless overridden via config
var DefaultCompany = CompanyInfo{
	Name:    "الشركة الوطنية للمعدات البحرية",
	Address: "طرابلس، ليبيا",
	Phone:   "+218-21-1234567",
	Email:   model.InboxInfo,
}

type Renderer struct {
	templates *template.Template
	company   CompanyInfo
}

func NewRenderer(company CompanyInfo) (*Renderer, error) {
	funcs := template.FuncMap{
		"lyd": money.FormatLYD,
		"usd": money.FormatUSD,
		"line": func(price decimal.Decimal, qty int) string {
			return money.FormatLYD(money.LineTotal(price, qty))
		},
		"lineUSD": func(cost decimal.Decimal, qty int) string {
			return money.FormatUSD(money.LineTotal(cost, qty))
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"inc": func(i int) int { return i + 1 },
	}

	templates, err := template.New("printing").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse print templates: %w", err)
	}
	return &Renderer{templates: templates, company: company}, nil
}

type invoiceView struct {
	Company       CompanyInfo
	Title         string
	Sale          *model.Sale
	IsDebtReceipt bool
	PrintedBy     string
	PrintedAt     time.Time
}

// RenderInvoice renders a sale, maintenance invoice or debt receipt. The
// document title follows the row's shape: a ledger row whose single line
// carries the debt-payment code prints as a receipt.
func (r *Renderer) RenderInvoice(sale *model.Sale, printedBy string) ([]byte, error) {
	view := invoiceView{
		Company:   r.company,
		Title:     "فاتورة مبيعات",
		Sale:      sale,
		PrintedBy: printedBy,
		PrintedAt: time.Now(),
	}
	if sale.InvoiceType == model.InvoiceTypeMaintenance {
		view.Title = "فاتورة صيانة"
	}
	for _, item := range sale.Items {
		if item.ProductCode == model.DebtPaymentCode {
			view.Title = "إيصال سداد دين"
			view.IsDebtReceipt = true
			break
		}
	}
	return r.render("invoice.html", view)
}

type supplyView struct {
	Company   CompanyInfo
	Invoice   *model.SupplyInvoice
	PrintedBy string
	PrintedAt time.Time
}

// RenderSupplyInvoice renders a supplier shipment intake document
func (r *Renderer) RenderSupplyInvoice(invoice *model.SupplyInvoice, printedBy string) ([]byte, error) {
	return r.render("supply.html", supplyView{
		Company:   r.company,
		Invoice:   invoice,
		PrintedBy: printedBy,
		PrintedAt: time.Now(),
	})
}

type inventoryView struct {
	Company   CompanyInfo
	Report    service.InventoryReport
	PrintedBy string
	PrintedAt time.Time
}

// RenderInventoryReport renders the stock position report
func (r *Renderer) RenderInventoryReport(report service.InventoryReport, printedBy string) ([]byte, error) {
	return r.render("inventory_report.html", inventoryView{
		Company:   r.company,
		Report:    report,
		PrintedBy: printedBy,
		PrintedAt: time.Now(),
	})
}

type dailyView struct {
	Company   CompanyInfo
	Report    service.DailyReport
	PrintedBy string
	PrintedAt time.Time
}

// RenderDailyReport renders one day's sales summary
func (r *Renderer) RenderDailyReport(report service.DailyReport, printedBy string) ([]byte, error) {
	return r.render("daily_report.html", dailyView{
		Company:   r.company,
		Report:    report,
		PrintedBy: printedBy,
		PrintedAt: time.Now(),
	})
}

func (r *Renderer) render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
