package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
)

// newDryPostgres opens a dry-run session against the postgres dialect so
// tests can inspect the SQL the ledger would send to the real store. No
// connection is made.
func newDryPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=dry dbname=dry",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %v", err)
	}
	return db
}

func TestGuardedReadsTakeRowLocks(t *testing.T) {
	db := newDryPostgres(t)

	// The stock guard and the balance adjustment both read through
	// lockForUpdate; against postgres those reads must lock the row.
	var product model.Product
	stmt := lockForUpdate(db).First(&product, "id = ?", uuid.Nil).Statement
	if !strings.Contains(stmt.SQL.String(), "FOR UPDATE") {
		t.Errorf("product guard read is not locked: %s", stmt.SQL.String())
	}

	var buyer model.Buyer
	stmt = lockForUpdate(db).First(&buyer, "id = ?", uuid.Nil).Statement
	if !strings.Contains(stmt.SQL.String(), "FOR UPDATE") {
		t.Errorf("buyer balance read is not locked: %s", stmt.SQL.String())
	}
}

func TestCreateTransactionDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Galaxy A15", 10, 12000)

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(36000),
		PaidAmount:    decimal.NewFromInt(36000),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 3}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if got := reloadProduct(t, db, product.ID).Available; got != 7 {
		t.Fatalf("available = %d, want 7", got)
	}

	var lines []model.TransactionProduct
	if err := db.Find(&lines, "transaction_id = ?", id).Error; err != nil {
		t.Fatalf("failed to load lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].ProductName != "Galaxy A15" {
		t.Errorf("snapshot name = %q, want Galaxy A15", lines[0].ProductName)
	}
	if !lines[0].ProductPrice.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("snapshot price = %s, want 12000", lines[0].ProductPrice)
	}
}

func TestCreateTransactionInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Redmi 13C", 2, 9000)

	_, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(45000),
		PaidAmount:    decimal.NewFromInt(45000),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 5}},
	}, user.Email)
	if apperr.KindOf(err) != apperr.KindInsufficientStock {
		t.Fatalf("error kind = %v, want KindInsufficientStock (err: %v)", apperr.KindOf(err), err)
	}

	// The guard fired before any mutation: stock is untouched and nothing
	// was persisted.
	if got := reloadProduct(t, db, product.ID).Available; got != 2 {
		t.Errorf("available = %d, want 2 (unchanged)", got)
	}
	var headerCount int64
	db.Model(&model.Transaction{}).Count(&headerCount)
	if headerCount != 0 {
		t.Errorf("transaction count = %d, want 0", headerCount)
	}
	var lineCount int64
	db.Model(&model.TransactionProduct{}).Count(&lineCount)
	if lineCount != 0 {
		t.Errorf("line count = %d, want 0", lineCount)
	}
}

func TestCreateTransactionRollsBackWholeUnit(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	phone := seedProduct(t, db, "Vivo Y28", 10, 14000)
	charger := seedAccessory(t, db, "33W Charger", 1, 700)

	// First line would succeed, the accessory line oversells: the whole
	// composition must roll back, including the phone decrement.
	_, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(30000),
		PaidAmount:    decimal.NewFromInt(30000),
		PaymentMethod: "upi",
		Products:      []LineItemInput{{ItemID: &phone.ID, Quantity: 2}},
		Accessories:   []LineItemInput{{ItemID: &charger.ID, Quantity: 3}},
	}, user.Email)
	if apperr.KindOf(err) != apperr.KindInsufficientStock {
		t.Fatalf("error kind = %v, want KindInsufficientStock", apperr.KindOf(err))
	}

	if got := reloadProduct(t, db, phone.ID).Available; got != 10 {
		t.Errorf("phone available = %d, want 10 (rolled back)", got)
	}
	var accessory model.Accessory
	db.First(&accessory, "id = ?", charger.ID)
	if accessory.Available != 1 {
		t.Errorf("charger available = %d, want 1", accessory.Available)
	}
	var headerCount int64
	db.Model(&model.Transaction{}).Count(&headerCount)
	if headerCount != 0 {
		t.Errorf("transaction count = %d, want 0", headerCount)
	}
}

func TestCreateTransactionAccruesUdhar(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Oppo A38", 5, 11000)
	buyer := seedBuyer(t, db, "Ramesh")

	_, err := ledger.CreateTransaction(&CreateTransactionRequest{
		BuyerID:       &buyer.ID,
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(200),
		PaidAmount:    decimal.NewFromInt(50),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	got := reloadBuyer(t, db, buyer.ID)
	if !got.OutstandingUdhar.Equal(decimal.NewFromInt(150)) {
		t.Errorf("outstanding udhar = %s, want 150", got.OutstandingUdhar)
	}
	if !got.HasUdhar {
		t.Error("has_udhar = false, want true")
	}
}

func TestDeleteTransactionRestoresEverything(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "iPhone 13", 5, 52000)
	buyer := seedBuyer(t, db, "Suresh")

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		BuyerID:       &buyer.ID,
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(52000),
		PaidAmount:    decimal.NewFromInt(40000),
		PaymentMethod: "card",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 2}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := ledger.DeleteTransaction(id); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	if got := reloadProduct(t, db, product.ID).Available; got != 5 {
		t.Errorf("available = %d, want 5 (restored)", got)
	}
	got := reloadBuyer(t, db, buyer.ID)
	if !got.OutstandingUdhar.Equal(decimal.Zero) {
		t.Errorf("outstanding udhar = %s, want 0 (reversed)", got.OutstandingUdhar)
	}
	if got.HasUdhar {
		t.Error("has_udhar = true, want false")
	}

	var lineCount int64
	db.Model(&model.TransactionProduct{}).Count(&lineCount)
	if lineCount != 0 {
		t.Errorf("line count = %d, want 0", lineCount)
	}

	// Deleting again must report the header as gone, with no side effects.
	err = ledger.DeleteTransaction(id)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("second delete kind = %v, want KindNotFound", apperr.KindOf(err))
	}
	if got := reloadProduct(t, db, product.ID).Available; got != 5 {
		t.Errorf("available after second delete = %d, want 5", got)
	}
}

func TestPayUdhar(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Realme C53", 5, 10000)
	buyer := seedBuyer(t, db, "Mahesh")

	_, err := ledger.CreateTransaction(&CreateTransactionRequest{
		BuyerID:       &buyer.ID,
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(10000),
		PaidAmount:    decimal.NewFromInt(4000),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	id, err := ledger.PayUdhar(&PayUdharRequest{
		BuyerID:       &buyer.ID,
		UserID:        user.ID,
		PaidAmount:    decimal.NewFromInt(6000),
		PaymentMethod: "upi",
	}, user.Email)
	if err != nil {
		t.Fatalf("PayUdhar failed: %v", err)
	}

	got := reloadBuyer(t, db, buyer.ID)
	if !got.OutstandingUdhar.Equal(decimal.Zero) {
		t.Errorf("outstanding udhar = %s, want 0", got.OutstandingUdhar)
	}
	if got.HasUdhar {
		t.Error("has_udhar = true, want false")
	}

	var header model.Transaction
	if err := db.First(&header, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to load payment header: %v", err)
	}
	if !header.IsUdharPayment {
		t.Error("is_udhar_payment = false, want true")
	}
	if !header.TotalAmount.Equal(decimal.Zero) {
		t.Errorf("total = %s, want 0", header.TotalAmount)
	}
	var lineCount int64
	db.Model(&model.TransactionProduct{}).Where("transaction_id = ?", id).Count(&lineCount)
	if lineCount != 0 {
		t.Errorf("payment has %d line items, want 0", lineCount)
	}
}

func TestPayUdharRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	buyer := seedBuyer(t, db, "Dinesh")

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, err := ledger.PayUdhar(&PayUdharRequest{
			BuyerID:       &buyer.ID,
			UserID:        user.ID,
			PaidAmount:    amount,
			PaymentMethod: "cash",
		}, user.Email)
		if apperr.KindOf(err) != apperr.KindInvalidTransactionData {
			t.Errorf("amount %s: kind = %v, want KindInvalidTransactionData", amount, apperr.KindOf(err))
		}
	}
}

func TestUpdateLineItemQuantityNetDelta(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Poco M6", 5, 9500)

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(28500),
		PaidAmount:    decimal.NewFromInt(28500),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 3}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	// 5 on hand minus 3 sold leaves 2.
	if got := reloadProduct(t, db, product.ID).Available; got != 2 {
		t.Fatalf("available = %d, want 2", got)
	}

	var line model.TransactionProduct
	if err := db.First(&line, "transaction_id = ?", id).Error; err != nil {
		t.Fatalf("failed to load line: %v", err)
	}

	// Growing 3 -> 5 needs 2 more, exactly what is on hand.
	if err := ledger.UpdateLineItemQuantity(LineProduct, line.ID, 5, user.Email); err != nil {
		t.Fatalf("grow to 5 failed: %v", err)
	}
	if got := reloadProduct(t, db, product.ID).Available; got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}

	// Growing 5 -> 6 needs 1 more with nothing on hand.
	err = ledger.UpdateLineItemQuantity(LineProduct, line.ID, 6, user.Email)
	if apperr.KindOf(err) != apperr.KindInsufficientStock {
		t.Fatalf("grow to 6 kind = %v, want KindInsufficientStock", apperr.KindOf(err))
	}
	if got := reloadProduct(t, db, product.ID).Available; got != 0 {
		t.Errorf("available = %d, want 0 (unchanged)", got)
	}

	// Shrinking 5 -> 1 returns 4 units.
	if err := ledger.UpdateLineItemQuantity(LineProduct, line.ID, 1, user.Email); err != nil {
		t.Fatalf("shrink to 1 failed: %v", err)
	}
	if got := reloadProduct(t, db, product.ID).Available; got != 4 {
		t.Errorf("available = %d, want 4", got)
	}

	if err := ledger.UpdateLineItemQuantity(LineProduct, line.ID, 0, user.Email); apperr.KindOf(err) != apperr.KindInvalidTransactionData {
		t.Errorf("zero quantity kind = %v, want KindInvalidTransactionData", apperr.KindOf(err))
	}
}

func TestUpdatePaidAmountMovesBalanceByDelta(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Samsung F15", 5, 13000)
	buyer := seedBuyer(t, db, "Ganesh")

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		BuyerID:       &buyer.ID,
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(200),
		PaidAmount:    decimal.NewFromInt(50),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := ledger.UpdatePaidAmount(id, decimal.NewFromInt(200), user.Email); err != nil {
		t.Fatalf("UpdatePaidAmount failed: %v", err)
	}

	got := reloadBuyer(t, db, buyer.ID)
	if !got.OutstandingUdhar.Equal(decimal.Zero) {
		t.Errorf("outstanding udhar = %s, want 0", got.OutstandingUdhar)
	}
	if got.HasUdhar {
		t.Error("has_udhar = true, want false")
	}

	var header model.Transaction
	db.First(&header, "id = ?", id)
	if !header.PaidAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("paid = %s, want 200", header.PaidAmount)
	}

	if err := ledger.UpdatePaidAmount(id, decimal.NewFromInt(-1), user.Email); apperr.KindOf(err) != apperr.KindInvalidTransactionData {
		t.Errorf("negative paid kind = %v, want KindInvalidTransactionData", apperr.KindOf(err))
	}
}

func TestFreeformLineHasNoStockEffect(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	price := decimal.NewFromInt(150)

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(150),
		PaidAmount:    decimal.NewFromInt(150),
		PaymentMethod: "cash",
		Accessories:   []LineItemInput{{Name: "Recharge Voucher", Price: &price, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	var line model.TransactionAccessory
	if err := db.First(&line, "transaction_id = ?", id).Error; err != nil {
		t.Fatalf("failed to load line: %v", err)
	}
	if line.AccessoryID != nil {
		t.Error("freeform line has a catalog reference")
	}
	if line.AccessoryName != "Recharge Voucher" {
		t.Errorf("name = %q, want Recharge Voucher", line.AccessoryName)
	}

	// Without a catalog reference the name is mandatory.
	_, err = ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(150),
		PaidAmount:    decimal.NewFromInt(150),
		PaymentMethod: "cash",
		Accessories:   []LineItemInput{{Price: &price, Quantity: 1}},
	}, user.Email)
	if apperr.KindOf(err) != apperr.KindInvalidTransactionData {
		t.Errorf("nameless line kind = %v, want KindInvalidTransactionData", apperr.KindOf(err))
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)

	cases := []struct {
		name string
		req  CreateTransactionRequest
	}{
		{"missing user", CreateTransactionRequest{PaymentMethod: "cash"}},
		{"missing payment method", CreateTransactionRequest{UserID: user.ID}},
		{"negative total", CreateTransactionRequest{UserID: user.ID, PaymentMethod: "cash", TotalAmount: decimal.NewFromInt(-10)}},
		{"negative paid", CreateTransactionRequest{UserID: user.ID, PaymentMethod: "cash", PaidAmount: decimal.NewFromInt(-10)}},
		{"zero quantity line", CreateTransactionRequest{
			UserID: user.ID, PaymentMethod: "cash",
			Products: []LineItemInput{{Name: "X", Quantity: 0}},
		}},
	}
	for _, tc := range cases {
		_, err := ledger.CreateTransaction(&tc.req, user.Email)
		if apperr.KindOf(err) != apperr.KindInvalidTransactionData {
			t.Errorf("%s: kind = %v, want KindInvalidTransactionData", tc.name, apperr.KindOf(err))
		}
	}

	var headerCount int64
	db.Model(&model.Transaction{}).Count(&headerCount)
	if headerCount != 0 {
		t.Errorf("transaction count = %d, want 0", headerCount)
	}
}

func TestDeleteTransactionSkipsTombstonedLines(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	catalog := newTestCatalog(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Lava Blaze", 5, 8000)
	buyer := seedBuyer(t, db, "Naresh")

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		BuyerID:       &buyer.ID,
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(8000),
		PaidAmount:    decimal.NewFromInt(3000),
		PaymentMethod: "cash",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := catalog.DeleteProduct(product.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	// The product is gone, so deleting the sale restores no stock but the
	// balance reversal still applies.
	if err := ledger.DeleteTransaction(id); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	got := reloadBuyer(t, db, buyer.ID)
	if !got.OutstandingUdhar.Equal(decimal.Zero) {
		t.Errorf("outstanding udhar = %s, want 0", got.OutstandingUdhar)
	}
}

func TestGetTransactionItems(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(t, db)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Infinix Hot 40", 5, 9500)
	charger := seedAccessory(t, db, "Type-C Cable", 10, 150)

	id, err := ledger.CreateTransaction(&CreateTransactionRequest{
		UserID:        user.ID,
		TotalAmount:   decimal.NewFromInt(9650),
		PaidAmount:    decimal.NewFromInt(9650),
		PaymentMethod: "upi",
		Products:      []LineItemInput{{ItemID: &product.ID, Quantity: 1}},
		Accessories:   []LineItemInput{{ItemID: &charger.ID, Quantity: 1}},
	}, user.Email)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	products, accessories, err := ledger.GetTransactionItems(id)
	if err != nil {
		t.Fatalf("GetTransactionItems failed: %v", err)
	}
	if len(products) != 1 || len(accessories) != 1 {
		t.Fatalf("got %d products, %d accessories, want 1 and 1", len(products), len(accessories))
	}

	_, _, err = ledger.GetTransactionItems(uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("missing transaction kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}
