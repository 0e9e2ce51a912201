package database

import (
	"log"
	"time"

	"marine-backend/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads the initial data set on a fresh database. It is a no-op when
// users already exist, so restarting the server never duplicates rows.
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	log.Println("Empty database detected, seeding initial data...")

	permNames := map[string]string{
		model.PermDashboard:   "لوحة التحكم",
		model.PermSales:       "المبيعات",
		model.PermInventory:   "المخزون",
		model.PermMaintenance: "الصيانة",
		model.PermCustomers:   "العملاء",
		model.PermAccounting:  "الحسابات",
		model.PermSettings:    "الإعدادات",
		model.PermReports:     "التقارير",
		model.PermMessages:    "الرسائل",
		model.PermArchive:     "الأرشيف",
	}

	perms := make(map[string]model.Permission, len(model.PermissionCodes))
	for _, code := range model.PermissionCodes {
		p := model.Permission{Code: code, Name: permNames[code]}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
		perms[code] = p
	}

	pick := func(codes ...string) []model.Permission {
		out := make([]model.Permission, 0, len(codes))
		for _, c := range codes {
			out = append(out, perms[c])
		}
		return out
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []model.User{
		{
			Username: "admin", Name: "المدير العام", Password: string(hash), Role: model.RoleAdmin,
			Permissions: pick(model.PermDashboard, model.PermSales, model.PermInventory, model.PermMaintenance,
				model.PermCustomers, model.PermAccounting, model.PermSettings, model.PermReports, model.PermMessages,
				model.PermArchive),
		},
		{
			Username: "sales", Name: "موظف مبيعات", Password: string(hash), Role: model.RoleUser,
			Permissions: pick(model.PermDashboard, model.PermSales, model.PermCustomers, model.PermMessages),
		},
		{
			Username: "tech", Name: "مهندس صيانة", Password: string(hash), Role: model.RoleUser,
			Permissions: pick(model.PermDashboard, model.PermMaintenance),
		},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
	}

	suppliers := []model.Supplier{
		{Code: "S001", Name: "Yamaha Japan", Contact: "+81-9000", Email: "sales@yamaha.com"},
		{Code: "S002", Name: "Marine Safety Co", Contact: "+971-5000", Email: "info@marinesafety.ae"},
		{Code: "S003", Name: "Gulf Lubricants", Contact: "+971-6000", Email: "orders@gulflube.ae"},
	}
	for i := range suppliers {
		if err := db.Create(&suppliers[i]).Error; err != nil {
			return err
		}
	}

	lyd := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	products := []model.Product{
		{Code: "P001", Name: "محرك ياماها 200 حصان", Category: model.CategoryEngine, Stock: 5, Price: lyd(45000), CostUSD: lyd(6000), SupplierID: &suppliers[0].ID, MinStock: 2, Location: "المخزن الرئيسي"},
		{Code: "P002", Name: "سترة نجاة احترافية", Category: model.CategoryEquipment, Stock: 50, Price: lyd(350), CostUSD: lyd(40), SupplierID: &suppliers[1].ID, MinStock: 20, Location: "المعرض"},
		{Code: "P003", Name: "جهاز ملاحة جارمن", Category: model.CategoryEquipment, Stock: 12, Price: lyd(3200), CostUSD: lyd(450), SupplierID: &suppliers[1].ID, MinStock: 5, Location: "المعرض"},
		{Code: "P004", Name: "قارب صيد 25 قدم", Category: model.CategoryBoat, Stock: 2, Price: lyd(185000), CostUSD: lyd(25000), SupplierID: &suppliers[0].ID, MinStock: 1, Location: "الساحة"},
		{Code: "P005", Name: "زيت محركات 5 لتر", Category: model.CategoryFluid, Stock: 100, Price: lyd(150), CostUSD: lyd(15), SupplierID: &suppliers[2].ID, MinStock: 30, Location: "المخزن الرئيسي"},
		{Code: "P006", Name: "شمعات احتراق V8", Category: model.CategorySparePart, Stock: 8, Price: lyd(65), CostUSD: lyd(5), SupplierID: &suppliers[2].ID, MinStock: 10, Location: "المخزن الرئيسي"},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	customers := []model.Customer{
		{Code: "C001", Name: "أحمد الفارسي", Contact: "0911234567", Type: model.CustomerPermanent, Balance: decimal.Zero},
		{Code: "C002", Name: "شركة البحر الأحمر", Contact: "0929988776", Type: model.CustomerPermanent, Balance: lyd(-15000)},
	}
	for i := range customers {
		if err := db.Create(&customers[i]).Error; err != nil {
			return err
		}
	}

	sale := model.Sale{
		InvoiceNo:     "INV-1001",
		Date:          time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC),
		CustomerID:    &customers[0].ID,
		CustomerName:  customers[0].Name,
		CustomerType:  model.CustomerPermanent,
		LaborCost:     decimal.Zero,
		Total:         lyd(700),
		PaymentMethod: model.PaymentCash,
		Status:        model.SaleCompleted,
		InvoiceType:   model.InvoiceTypeSale,
		CreatedBy:     &users[0].ID,
		Items: []model.SaleItem{
			{ProductID: &products[1].ID, ProductCode: "P002", ProductName: products[1].Name, Quantity: 2, Price: lyd(350)},
		},
	}
	if err := db.Create(&sale).Error; err != nil {
		return err
	}

	finished := time.Date(2024, 5, 20, 16, 0, 0, 0, time.UTC)
	jobs := []model.MaintenanceRecord{
		{
			JobNo: "JOB-2001", Date: time.Date(2024, 5, 18, 9, 0, 0, 0, time.UTC), CompletionDate: &finished,
			CustomerID: customers[0].ID, CustomerName: customers[0].Name,
			Technician: "عمر علي", DeviceInfo: "قارب 25 قدم - محرك ياماها",
			ServiceType: "فحص دوري", InspectionNotes: "تم تغيير الزيوت والفلاتر.",
			Status: model.StatusFinished, LaborCost: lyd(500),
			Parts: []model.MaintenancePart{
				{ProductID: &products[4].ID, ProductCode: "P005", ProductName: products[4].Name, Quantity: 2, Price: lyd(150)},
			},
			TotalCost: lyd(800), PaidAmount: lyd(800), RemainingAmount: decimal.Zero,
		},
		{
			JobNo: "JOB-2002", Date: time.Date(2024, 5, 22, 11, 0, 0, 0, time.UTC),
			CustomerID: customers[1].ID, CustomerName: customers[1].Name,
			Technician: "خالد ياسين", DeviceInfo: "جت سكي Kawasaki",
			ServiceType: "إصلاح هيكل", InspectionNotes: "يوجد كسر في المقدمة يحتاج فيبر جلاس.",
			Status: model.StatusInProgress, LaborCost: lyd(1500),
			TotalCost: lyd(1500), PaidAmount: lyd(500), RemainingAmount: lyd(1000),
		},
	}
	for i := range jobs {
		if err := db.Create(&jobs[i]).Error; err != nil {
			return err
		}
	}

	messages := []model.Message{
		{
			Code: "MSG-001", Inbox: model.InboxSales, Sender: "محمد الليبي", SenderEmail: "mohamed@example.com",
			Subject: "استفسار بخصوص محرك 200 حصان",
			Body:    "السلام عليكم،\n\nنرجو منكم إفادتنا بسعر محرك ياماها 200 حصان مع التركيب.\n\nشكراً.",
			Date:    time.Date(2024, 5, 23, 10, 30, 0, 0, time.UTC),
		},
		{
			Code: "MSG-002", Inbox: model.InboxInfo, Sender: "شركة الشحن العالمية", SenderEmail: "logistics@globalshipping.com",
			Subject: "فاتورة الشحنة رقم #9988",
			Body:    "مرفق لكم فاتورة الشحنة الأخيرة. يرجى المراجعة والسداد.",
			Date:    time.Date(2024, 5, 22, 14, 15, 0, 0, time.UTC), IsRead: true, HasAttachment: true,
		},
		{
			Code: "MSG-003", Inbox: model.InboxSales, Sender: "علي التاجوري", SenderEmail: "ali.taj@gmail.com",
			Subject: "طلب عرض سعر معدات سلامة",
			Body:    "نحتاج عدد 50 سترة نجاة و 5 أجهزة GPS.\nهل توجد كمية متوفرة؟",
			Date:    time.Date(2024, 5, 21, 9, 0, 0, 0, time.UTC), IsRead: true,
		},
	}
	for i := range messages {
		if err := db.Create(&messages[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Seeding completed.")
	return nil
}
