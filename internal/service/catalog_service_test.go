package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
)

func TestCreateProductRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	category := seedProductCategory(t, db, "Smartphones")

	first := &model.Product{
		Name:        "Galaxy M14",
		CategoryID:  category.ID,
		MarketPrice: decimal.NewFromInt(13000),
		Available:   4,
		Color:       "Blue",
		Variant:     "128GB",
	}
	if err := catalog.CreateProduct(first, "tester"); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	duplicate := &model.Product{
		Name:        "Galaxy M14",
		CategoryID:  category.ID,
		MarketPrice: decimal.NewFromInt(13500),
		Available:   2,
		Color:       "Blue",
		Variant:     "128GB",
	}
	err := catalog.CreateProduct(duplicate, "tester")
	if apperr.KindOf(err) != apperr.KindConstraintViolation {
		t.Fatalf("duplicate kind = %v, want KindConstraintViolation", apperr.KindOf(err))
	}

	// Same name in a different color is a different SKU.
	variant := &model.Product{
		Name:        "Galaxy M14",
		CategoryID:  category.ID,
		MarketPrice: decimal.NewFromInt(13000),
		Available:   3,
		Color:       "Silver",
		Variant:     "128GB",
	}
	if err := catalog.CreateProduct(variant, "tester"); err != nil {
		t.Fatalf("different color rejected: %v", err)
	}
}

func TestCreateProductRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	category := seedProductCategory(t, db, "Smartphones")

	missing := &model.Product{
		Name:      "Phantom X",
		Available: 1,
		Color:     "Black",
		Variant:   "256GB",
	}
	if err := catalog.CreateProduct(missing, "tester"); apperr.KindOf(err) != apperr.KindInvalidTransactionData {
		t.Errorf("no category kind = %v, want KindInvalidTransactionData", apperr.KindOf(err))
	}

	negative := &model.Product{
		Name:       "Phantom X",
		CategoryID: category.ID,
		Available:  -1,
		Color:      "Black",
		Variant:    "256GB",
	}
	if err := catalog.CreateProduct(negative, "tester"); apperr.KindOf(err) != apperr.KindInvalidTransactionData {
		t.Errorf("negative stock kind = %v, want KindInvalidTransactionData", apperr.KindOf(err))
	}
}

func TestDeleteProductTombstonesLines(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Nokia G21", 5, 10500)

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(10500),
		PaidAmount:    decimal.NewFromInt(10500),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := catalog.DeleteProduct(product.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	var line model.TransactionProduct
	if err := db.First(&line, "transaction_id = ?", id).Error; err != nil {
		t.Fatalf("failed to load line: %v", err)
	}
	if line.ProductID != nil {
		t.Error("line still references the deleted product")
	}
	if line.ProductName != "Nokia G21" {
		t.Errorf("snapshot name = %q, want Nokia G21", line.ProductName)
	}
	if !line.ProductPrice.Equal(decimal.NewFromInt(10500)) {
		t.Errorf("snapshot price = %s, want 10500", line.ProductPrice)
	}

	if _, err := catalog.GetProduct(product.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("deleted product kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}

func TestDeleteProductCategoryCascades(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	category := seedProductCategory(t, db, "Feature Phones")

	phone := &model.Product{
		Name:        "Jio Bharat",
		CategoryID:  category.ID,
		MarketPrice: decimal.NewFromInt(1000),
		Available:   10,
		Color:       "Black",
		Variant:     "Base",
	}
	if err := catalog.CreateProduct(phone, "tester"); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	txID, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(1000),
		PaidAmount:    decimal.NewFromInt(1000),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &phone.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := catalog.DeleteProductCategory(category.ID); err != nil {
		t.Fatalf("DeleteProductCategory failed: %v", err)
	}

	var productCount int64
	db.Model(&model.Product{}).Where("category_id = ?", category.ID).Count(&productCount)
	if productCount != 0 {
		t.Errorf("products left in category = %d, want 0", productCount)
	}

	var line model.TransactionProduct
	if err := db.First(&line, "transaction_id = ?", txID).Error; err != nil {
		t.Fatalf("failed to load line: %v", err)
	}
	if line.ProductID != nil {
		t.Error("cascade delete did not tombstone the line")
	}
}

func TestCreateCategoryRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)

	if err := catalog.CreateProductCategory(&model.ProductCategory{Name: "Tablets"}, "tester"); err != nil {
		t.Fatalf("CreateProductCategory failed: %v", err)
	}
	err := catalog.CreateProductCategory(&model.ProductCategory{Name: "Tablets"}, "tester")
	if apperr.KindOf(err) != apperr.KindConstraintViolation {
		t.Errorf("duplicate category kind = %v, want KindConstraintViolation", apperr.KindOf(err))
	}
}

func TestUpdateProductRestock(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	product := seedProduct(t, db, "Moto G34", 2, 11000)

	req := &model.Product{
		Name:        product.Name,
		CategoryID:  product.CategoryID,
		MarketPrice: decimal.NewFromInt(10500),
		DealerPrice: product.DealerPrice,
		Available:   12,
		Color:       product.Color,
		Variant:     product.Variant,
	}
	updated, err := catalog.UpdateProduct(product.ID, req, "tester")
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Available != 12 {
		t.Errorf("available = %d, want 12", updated.Available)
	}
	if !updated.MarketPrice.Equal(decimal.NewFromInt(10500)) {
		t.Errorf("market price = %s, want 10500", updated.MarketPrice)
	}
}
