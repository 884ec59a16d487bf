package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
)

var testDBCounter atomic.Int64

// newTestDB gives each test its own in-memory store with the full schema.
// Each test gets a uniquely named shared-cache database so that every
// connection in the pool sees the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Role{}, &model.Permission{}, &model.User{},
		&model.ProductCategory{}, &model.AccessoryCategory{},
		&model.Product{}, &model.Accessory{},
		&model.Buyer{},
		&model.Transaction{}, &model.TransactionProduct{}, &model.TransactionAccessory{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestLedger(t *testing.T, db *gorm.DB) LedgerService {
	t.Helper()
	return NewLedgerService(
		repository.NewProductRepo(db),
		repository.NewAccessoryRepo(db),
		repository.NewBuyerRepo(db),
		repository.NewTransactionRepo(db),
		db, nil,
	)
}

func newTestCatalog(t *testing.T, db *gorm.DB) CatalogService {
	t.Helper()
	return NewCatalogService(
		repository.NewProductRepo(db),
		repository.NewAccessoryRepo(db),
		repository.NewProductCategoryRepo(db),
		repository.NewAccessoryCategoryRepo(db),
		db, nil,
	)
}

func seedUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		Email:      "staff@test.local",
		FirstName:  "Test",
		LastName:   "Staff",
		IsApproved: true,
		IsActive:   true,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedProductCategory(t *testing.T, db *gorm.DB, name string) *model.ProductCategory {
	t.Helper()
	category := &model.ProductCategory{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed product category: %v", err)
	}
	return category
}

func seedAccessoryCategory(t *testing.T, db *gorm.DB, name string) *model.AccessoryCategory {
	t.Helper()
	category := &model.AccessoryCategory{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed accessory category: %v", err)
	}
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, name string, available int, price int64) *model.Product {
	t.Helper()
	category := seedProductCategory(t, db, "cat-for-"+name)
	product := &model.Product{
		Name:        name,
		CategoryID:  category.ID,
		MarketPrice: decimal.NewFromInt(price),
		DealerPrice: decimal.NewFromInt(price - 5),
		Available:   available,
		Color:       "Black",
		Variant:     "128GB",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedAccessory(t *testing.T, db *gorm.DB, name string, available int, price int64) *model.Accessory {
	t.Helper()
	category := seedAccessoryCategory(t, db, "cat-for-"+name)
	accessory := &model.Accessory{
		Name:        name,
		CategoryID:  category.ID,
		MarketPrice: decimal.NewFromInt(price),
		DealerPrice: decimal.NewFromInt(price - 2),
		Available:   available,
		Color:       "White",
	}
	if err := db.Create(accessory).Error; err != nil {
		t.Fatalf("failed to seed accessory: %v", err)
	}
	return accessory
}

func seedBuyer(t *testing.T, db *gorm.DB, name string) *model.Buyer {
	t.Helper()
	buyer := &model.Buyer{
		Name:             name,
		OutstandingUdhar: decimal.Zero,
		IsActive:         true,
	}
	if err := db.Create(buyer).Error; err != nil {
		t.Fatalf("failed to seed buyer: %v", err)
	}
	return buyer
}

func reloadProduct(t *testing.T, db *gorm.DB, id interface{}) *model.Product {
	t.Helper()
	var product model.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	return &product
}

func reloadBuyer(t *testing.T, db *gorm.DB, id interface{}) *model.Buyer {
	t.Helper()
	var buyer model.Buyer
	if err := db.First(&buyer, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload buyer: %v", err)
	}
	return &buyer
}
