package service

import (
	"context"
	"strings"
	"testing"

	"marine-backend/internal/model"
	ws "marine-backend/internal/websocket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	service      SaleService
	saleRepo     *fakeSaleRepo
	productRepo  *fakeProductRepo
	customerRepo *fakeCustomerRepo
	audit        *fakeAuditRepo
	customer     *model.Customer
	product      *model.Product
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()

	customer := &model.Customer{
		Code:    "C002",
		Name:    "مصنع الأسماك",
		Type:    model.CustomerPermanent,
		Balance: decimal.NewFromInt(-15000),
	}
	product := &model.Product{
		Code:     "P001",
		Name:     "محرك ياماها",
		Category: model.CategoryEngine,
		Stock:    5,
		Price:    decimal.NewFromInt(45000),
	}

	saleRepo := newFakeSaleRepo()
	productRepo := newFakeProductRepo(product)
	customerRepo := newFakeCustomerRepo(customer)
	audit := &fakeAuditRepo{}

	hub := ws.NewHub()
	go hub.Run()

	svc := NewSaleService(saleRepo, productRepo, customerRepo, audit, fakeTxManager{}, hub)
	return &saleFixture{
		service:      svc,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		audit:        audit,
		customer:     customer,
		product:      product,
	}
}

func TestCreateSaleComputesTotalAndDecrementsStock(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		CustomerID:    f.customer.ID.String(),
		PaymentMethod: model.PaymentCash,
		LaborCost:     "500",
		Items: []SaleItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sale.InvoiceNo, "INV-"))
	assert.Equal(t, "90500.0000", sale.Total)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, f.customer.Name, sale.CustomerName)
	assert.Equal(t, 3, f.product.Stock)

	// Cash sales never move the customer ledger
	assert.True(t, f.customer.Balance.Equal(decimal.NewFromInt(-15000)))
}

func TestCreateSaleRejectsOversell(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 6},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// Nothing committed: stock intact, ledger empty
	assert.Equal(t, 5, f.product.Stock)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateCreditSaleLeavesBalanceUntouched(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		CustomerID:    f.customer.ID.String(),
		PaymentMethod: model.PaymentCredit,
		Items: []SaleItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCredit, sale.PaymentMethod)

	// Credit exposure lives in the ledger row; the balance field moves only
	// on debt-payment confirmation and manual edit
	assert.True(t, f.customer.Balance.Equal(decimal.NewFromInt(-15000)))
	assert.Len(t, f.saleRepo.sales, 1)
}

func TestCreateCreditSaleRequiresRegisteredCustomer(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		CustomerName:  "زبون عابر",
		PaymentMethod: model.PaymentCredit,
		Items: []SaleItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, 5, f.product.Stock)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateLaborOnlySaleRequiresDevice(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		CustomerID:    f.customer.ID.String(),
		PaymentMethod: model.PaymentCash,
		LaborCost:     "700",
	})
	require.Error(t, err)
	assert.Empty(t, f.saleRepo.sales)

	// With a device reference the same sale goes through
	sale, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		CustomerID:        f.customer.ID.String(),
		PaymentMethod:     model.PaymentCash,
		LaborCost:         "700",
		MaintenanceDevice: "Suzuki DF140",
	})
	require.NoError(t, err)
	assert.Equal(t, "700.0000", sale.Total)
	assert.Equal(t, model.InvoiceTypeMaintenance, sale.InvoiceType)
}

func TestCreateSaleRejectsEmpty(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		PaymentMethod: model.PaymentCash,
	})
	assert.Error(t, err)
}

func TestPayDebtMovesBalanceUpAndAppendsReceipt(t *testing.T) {
	f := newSaleFixture(t)

	result, err := f.service.PayDebt(context.Background(), "", DebtPaymentRequest{
		CustomerID:    f.customer.ID.String(),
		Amount:        "5000",
		PaymentMethod: model.PaymentCheck,
	})
	require.NoError(t, err)

	// -15000 + 5000
	assert.Equal(t, "-10000.0000", result.NewBalance)
	assert.True(t, f.customer.Balance.Equal(decimal.NewFromInt(-10000)))

	receipt := result.Receipt
	assert.True(t, strings.HasPrefix(receipt.InvoiceNo, "PAY-"))
	assert.Equal(t, "5000.0000", receipt.Total)
	assert.Equal(t, model.PaymentCheck, receipt.PaymentMethod)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, model.DebtPaymentCode, receipt.Items[0].ProductCode)
	assert.Equal(t, 1, receipt.Items[0].Quantity)

	// The receipt is a real ledger row
	assert.Len(t, f.saleRepo.sales, 1)
}

func TestPayDebtPaymentMethodDefaultsToCash(t *testing.T) {
	f := newSaleFixture(t)

	result, err := f.service.PayDebt(context.Background(), "", DebtPaymentRequest{
		CustomerID: f.customer.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCash, result.Receipt.PaymentMethod)
}

func TestPayDebtRejectsCreditMethod(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.service.PayDebt(context.Background(), "", DebtPaymentRequest{
		CustomerID:    f.customer.ID.String(),
		Amount:        "2000",
		PaymentMethod: model.PaymentCredit,
	})
	require.Error(t, err)
	assert.True(t, f.customer.Balance.Equal(decimal.NewFromInt(-15000)))
}

func TestPayDebtRejectsNonPositiveAmount(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.service.PayDebt(context.Background(), "", DebtPaymentRequest{
		CustomerID: f.customer.ID.String(),
		Amount:     "0",
	})
	assert.Error(t, err)

	_, err = f.service.PayDebt(context.Background(), "", DebtPaymentRequest{
		CustomerID: f.customer.ID.String(),
		Amount:     "-100",
	})
	assert.Error(t, err)

	assert.True(t, f.customer.Balance.Equal(decimal.NewFromInt(-15000)))
}

func TestDeleteSaleLeavesStockAndBalance(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		CustomerID:    f.customer.ID.String(),
		PaymentMethod: model.PaymentCredit,
		Items: []SaleItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, f.product.Stock)

	require.NoError(t, f.service.DeleteSale(context.Background(), "", sale.ID))

	// Row gone, but the goods movement stands and the balance never moved
	assert.Empty(t, f.saleRepo.sales)
	assert.Equal(t, 4, f.product.Stock)
	assert.True(t, f.customer.Balance.Equal(decimal.NewFromInt(-15000)))
}

func TestCreateSaleItemPriceOverride(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.service.CreateSale(context.Background(), "", CreateSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: f.product.ID.String(), Quantity: 1, Price: "42000"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "42000.0000", sale.Total)
}
