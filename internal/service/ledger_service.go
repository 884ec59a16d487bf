package service

import (
	"fmt"

	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/ws"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
)

// LineKind selects which line-item table an operation targets.
type LineKind string

const (
	LineProduct   LineKind = "product"
	LineAccessory LineKind = "accessory"
)

// LineItemInput is one product-or-accessory entry of a sale request.
// ItemID nil means the line carries no catalog reference: no stock effect,
// and Name/Price must be supplied by the caller. When ItemID is set, Name
// and Price default to a snapshot of the catalog row taken under lock.
type LineItemInput struct {
	ItemID   *uuid.UUID       `json:"item_id"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity"`
}

// CreateTransactionRequest builds a complete sale: header plus N product
// lines and M accessory lines.
type CreateTransactionRequest struct {
	BuyerID       *uuid.UUID      `json:"buyer_id"`
	UserID        uuid.UUID       `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMethod string          `json:"payment_method"`
	Products      []LineItemInput `json:"products"`
	Accessories   []LineItemInput `json:"accessories"`
}

// PayUdharRequest records a buyer paying down existing credit. Becomes a
// transaction with TotalAmount = 0 and no line items.
type PayUdharRequest struct {
	BuyerID       *uuid.UUID      `json:"buyer_id"`
	UserID        uuid.UUID       `json:"user_id"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMethod string          `json:"payment_method"`
}

// LedgerService keeps stock counters and buyer udhar balances consistent
// with the transactions that move them. Every mutation runs inside one
// store transaction: the stock guard, the stock mutation, the balance
// adjustment and the header write commit or roll back together.
type LedgerService interface {
	CreateTransaction(req *CreateTransactionRequest, actor string) (uuid.UUID, error)
	DeleteTransaction(id uuid.UUID) error
	PayUdhar(req *PayUdharRequest, actor string) (uuid.UUID, error)
	UpdateLineItemQuantity(kind LineKind, lineID uuid.UUID, newQuantity int, actor string) error
	UpdatePaidAmount(transactionID uuid.UUID, newPaid decimal.Decimal, actor string) error
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
	GetTransactionItems(id uuid.UUID) ([]model.TransactionProduct, []model.TransactionAccessory, error)
	ListTransactions() ([]model.Transaction, error)
	ListTransactionsForBuyer(buyerID uuid.UUID) ([]model.Transaction, error)
}

type ledgerService struct {
	productRepo     repository.ProductRepository
	accessoryRepo   repository.AccessoryRepository
	buyerRepo       repository.BuyerRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewLedgerService(
	pRepo repository.ProductRepository,
	aRepo repository.AccessoryRepository,
	bRepo repository.BuyerRepository,
	tRepo repository.TransactionRepository,
	db *gorm.DB,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		productRepo:     pRepo,
		accessoryRepo:   aRepo,
		buyerRepo:       bRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
	}
}

// lockForUpdate applies a pessimistic row lock to the next query, so the
// guard-then-write sequences on available and outstanding_udhar serialize
// across concurrent transactions.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *ledgerService) CreateTransaction(req *CreateTransactionRequest, actor string) (uuid.UUID, error) {
	if err := validateTransactionRequest(req); err != nil {
		return uuid.Nil, err
	}

	header := model.Transaction{
		BuyerID:         req.BuyerID,
		UserID:          req.UserID,
		TotalAmount:     req.TotalAmount,
		PaidAmount:      req.PaidAmount,
		PaymentMethod:   req.PaymentMethod,
		IsUdharPayment:  false,
		TransactionDate: time.Now(),
	}
	header.CreatedBy = actor
	header.UpdatedBy = actor

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		for _, line := range req.Products {
			if err := s.insertProductLine(tx, header.ID, line, actor); err != nil {
				return err
			}
		}
		for _, line := range req.Accessories {
			if err := s.insertAccessoryLine(tx, header.ID, line, actor); err != nil {
				return err
			}
		}

		if header.BuyerID != nil {
			delta := header.TotalAmount.Sub(header.PaidAmount)
			if err := s.adjustBuyerBalance(tx, *header.BuyerID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, apperr.FromDB(err, "transaction not found")
	}

	s.broadcast(map[string]interface{}{
		"type":           "transaction_created",
		"transaction_id": header.ID,
		"total_amount":   header.TotalAmount,
		"paid_amount":    header.PaidAmount,
	})
	return header.ID, nil
}

// insertProductLine runs the stock guard and the decrement as one unit
// under the product's row lock, then persists the line with its snapshot.
func (s *ledgerService) insertProductLine(tx *gorm.DB, transactionID uuid.UUID, line LineItemInput, actor string) error {
	record := model.TransactionProduct{
		TransactionID: transactionID,
		ProductID:     line.ItemID,
		ProductName:   line.Name,
		Quantity:      line.Quantity,
	}
	record.CreatedBy = actor
	record.UpdatedBy = actor
	if line.Price != nil {
		record.ProductPrice = *line.Price
	}

	if line.ItemID != nil {
		var product model.Product
		if err := lockForUpdate(tx).First(&product, "id = ?", *line.ItemID).Error; err != nil {
			return apperr.FromDB(err, "product not found")
		}
		if product.Available < line.Quantity {
			return apperr.InsufficientStock(fmt.Sprintf(
				"insufficient stock for product %q: have %d, want %d",
				product.Name, product.Available, line.Quantity))
		}
		if record.ProductName == "" {
			record.ProductName = product.Name
		}
		if line.Price == nil {
			record.ProductPrice = product.MarketPrice
		}
		if err := s.productRepo.UpdateAvailable(tx, product.ID, product.Available-line.Quantity, actor); err != nil {
			return err
		}
	}

	return tx.Create(&record).Error
}

func (s *ledgerService) insertAccessoryLine(tx *gorm.DB, transactionID uuid.UUID, line LineItemInput, actor string) error {
	record := model.TransactionAccessory{
		TransactionID: transactionID,
		AccessoryID:   line.ItemID,
		AccessoryName: line.Name,
		Quantity:      line.Quantity,
	}
	record.CreatedBy = actor
	record.UpdatedBy = actor
	if line.Price != nil {
		record.AccessoryPrice = *line.Price
	}

	if line.ItemID != nil {
		var accessory model.Accessory
		if err := lockForUpdate(tx).First(&accessory, "id = ?", *line.ItemID).Error; err != nil {
			return apperr.FromDB(err, "accessory not found")
		}
		if accessory.Available < line.Quantity {
			return apperr.InsufficientStock(fmt.Sprintf(
				"insufficient stock for accessory %q: have %d, want %d",
				accessory.Name, accessory.Available, line.Quantity))
		}
		if record.AccessoryName == "" {
			record.AccessoryName = accessory.Name
		}
		if line.Price == nil {
			record.AccessoryPrice = accessory.MarketPrice
		}
		if err := s.accessoryRepo.UpdateAvailable(tx, accessory.ID, accessory.Available-line.Quantity, actor); err != nil {
			return err
		}
	}

	return tx.Create(&record).Error
}

// adjustBuyerBalance applies delta to the buyer's outstanding udhar under
// the buyer's row lock. Positive delta means the buyer owes more.
func (s *ledgerService) adjustBuyerBalance(tx *gorm.DB, buyerID uuid.UUID, delta decimal.Decimal) error {
	var buyer model.Buyer
	if err := lockForUpdate(tx).First(&buyer, "id = ?", buyerID).Error; err != nil {
		return apperr.FromDB(err, "buyer not found")
	}
	balance := buyer.OutstandingUdhar.Add(delta)
	return s.buyerRepo.UpdateUdhar(tx, buyerID, balance, balance.GreaterThan(decimal.Zero))
}

func (s *ledgerService) DeleteTransaction(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var header model.Transaction
		if err := lockForUpdate(tx).First(&header, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "transaction not found")
		}

		var productLines []model.TransactionProduct
		if err := tx.Find(&productLines, "transaction_id = ?", id).Error; err != nil {
			return err
		}
		var accessoryLines []model.TransactionAccessory
		if err := tx.Find(&accessoryLines, "transaction_id = ?", id).Error; err != nil {
			return err
		}

		// Restore stock for every line whose catalog reference survived.
		// Tombstoned lines (nil reference) are a no-op.
		for _, line := range productLines {
			if line.ProductID == nil {
				continue
			}
			var product model.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", *line.ProductID).Error; err != nil {
				return apperr.FromDB(err, "product not found")
			}
			if err := s.productRepo.UpdateAvailable(tx, product.ID, product.Available+line.Quantity, header.UpdatedBy); err != nil {
				return err
			}
		}
		for _, line := range accessoryLines {
			if line.AccessoryID == nil {
				continue
			}
			var accessory model.Accessory
			if err := lockForUpdate(tx).First(&accessory, "id = ?", *line.AccessoryID).Error; err != nil {
				return apperr.FromDB(err, "accessory not found")
			}
			if err := s.accessoryRepo.UpdateAvailable(tx, accessory.ID, accessory.Available+line.Quantity, header.UpdatedBy); err != nil {
				return err
			}
		}

		// Reverse exactly the balance effect the insert caused.
		if header.BuyerID != nil {
			delta := header.TotalAmount.Sub(header.PaidAmount)
			if err := s.adjustBuyerBalance(tx, *header.BuyerID, delta.Neg()); err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.TransactionProduct{}, "transaction_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.TransactionAccessory{}, "transaction_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Transaction{}, "id = ?", id).Error
	})
	if err != nil {
		return apperr.FromDB(err, "transaction not found")
	}

	s.broadcast(map[string]interface{}{
		"type":           "transaction_deleted",
		"transaction_id": id,
	})
	return nil
}

func (s *ledgerService) PayUdhar(req *PayUdharRequest, actor string) (uuid.UUID, error) {
	if req.UserID == uuid.Nil {
		return uuid.Nil, apperr.InvalidTransactionData("user_id is required")
	}
	if req.PaymentMethod == "" {
		return uuid.Nil, apperr.InvalidTransactionData("payment_method is required")
	}
	if !req.PaidAmount.GreaterThan(decimal.Zero) {
		return uuid.Nil, apperr.InvalidTransactionData("paid_amount must be positive")
	}

	header := model.Transaction{
		BuyerID:         req.BuyerID,
		UserID:          req.UserID,
		TotalAmount:     decimal.Zero,
		PaidAmount:      req.PaidAmount,
		PaymentMethod:   req.PaymentMethod,
		IsUdharPayment:  true,
		TransactionDate: time.Now(),
	}
	header.CreatedBy = actor
	header.UpdatedBy = actor

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		if header.BuyerID != nil {
			// total = 0, so the insert-side delta is -paid: pure decrease.
			return s.adjustBuyerBalance(tx, *header.BuyerID, req.PaidAmount.Neg())
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, apperr.FromDB(err, "buyer not found")
	}

	s.broadcast(map[string]interface{}{
		"type":           "udhar_paid",
		"transaction_id": header.ID,
		"paid_amount":    header.PaidAmount,
	})
	return header.ID, nil
}

// UpdateLineItemQuantity applies the net-delta stock rule: growing a line
// by more units than the item currently has on hand is rejected.
func (s *ledgerService) UpdateLineItemQuantity(kind LineKind, lineID uuid.UUID, newQuantity int, actor string) error {
	if newQuantity <= 0 {
		return apperr.InvalidTransactionData("quantity must be positive")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		switch kind {
		case LineProduct:
			var line model.TransactionProduct
			if err := lockForUpdate(tx).First(&line, "id = ?", lineID).Error; err != nil {
				return apperr.FromDB(err, "line item not found")
			}
			delta := newQuantity - line.Quantity
			if delta == 0 {
				return nil
			}
			if line.ProductID != nil {
				var product model.Product
				if err := lockForUpdate(tx).First(&product, "id = ?", *line.ProductID).Error; err != nil {
					return apperr.FromDB(err, "product not found")
				}
				if delta > 0 && product.Available < delta {
					return apperr.InsufficientStock(fmt.Sprintf(
						"insufficient stock for product %q: have %d, need %d more",
						product.Name, product.Available, delta))
				}
				if err := s.productRepo.UpdateAvailable(tx, product.ID, product.Available-delta, actor); err != nil {
					return err
				}
			}
			return tx.Model(&line).Updates(map[string]interface{}{
				"quantity":   newQuantity,
				"updated_by": actor,
			}).Error

		case LineAccessory:
			var line model.TransactionAccessory
			if err := lockForUpdate(tx).First(&line, "id = ?", lineID).Error; err != nil {
				return apperr.FromDB(err, "line item not found")
			}
			delta := newQuantity - line.Quantity
			if delta == 0 {
				return nil
			}
			if line.AccessoryID != nil {
				var accessory model.Accessory
				if err := lockForUpdate(tx).First(&accessory, "id = ?", *line.AccessoryID).Error; err != nil {
					return apperr.FromDB(err, "accessory not found")
				}
				if delta > 0 && accessory.Available < delta {
					return apperr.InsufficientStock(fmt.Sprintf(
						"insufficient stock for accessory %q: have %d, need %d more",
						accessory.Name, accessory.Available, delta))
				}
				if err := s.accessoryRepo.UpdateAvailable(tx, accessory.ID, accessory.Available-delta, actor); err != nil {
					return err
				}
			}
			return tx.Model(&line).Updates(map[string]interface{}{
				"quantity":   newQuantity,
				"updated_by": actor,
			}).Error

		default:
			return apperr.InvalidTransactionData("unknown line item kind")
		}
	})
	return apperr.FromDB(err, "line item not found")
}

// UpdatePaidAmount is the compatibility path kept from the older schema:
// only the paid-amount delta moves the buyer balance, and the has-udhar
// indicator flips off once the balance reaches zero.
func (s *ledgerService) UpdatePaidAmount(transactionID uuid.UUID, newPaid decimal.Decimal, actor string) error {
	if newPaid.IsNegative() {
		return apperr.InvalidTransactionData("paid_amount cannot be negative")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var header model.Transaction
		if err := lockForUpdate(tx).First(&header, "id = ?", transactionID).Error; err != nil {
			return apperr.FromDB(err, "transaction not found")
		}

		delta := newPaid.Sub(header.PaidAmount)
		if header.BuyerID != nil && !delta.IsZero() {
			// Paying more reduces what the buyer owes.
			if err := s.adjustBuyerBalance(tx, *header.BuyerID, delta.Neg()); err != nil {
				return err
			}
		}

		return tx.Model(&header).Updates(map[string]interface{}{
			"paid_amount": newPaid,
			"updated_by":  actor,
		}).Error
	})
	return apperr.FromDB(err, "transaction not found")
}

func (s *ledgerService) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "transaction not found")
	}
	return transaction, nil
}

func (s *ledgerService) GetTransactionItems(id uuid.UUID) ([]model.TransactionProduct, []model.TransactionAccessory, error) {
	if _, err := s.transactionRepo.FindByID(id); err != nil {
		return nil, nil, apperr.FromDB(err, "transaction not found")
	}
	return s.transactionRepo.FindItems(id)
}

func (s *ledgerService) ListTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.FindAll()
}

func (s *ledgerService) ListTransactionsForBuyer(buyerID uuid.UUID) ([]model.Transaction, error) {
	return s.transactionRepo.FindByBuyer(buyerID)
}

func validateTransactionRequest(req *CreateTransactionRequest) error {
	if req.UserID == uuid.Nil {
		return apperr.InvalidTransactionData("user_id is required")
	}
	if req.PaymentMethod == "" {
		return apperr.InvalidTransactionData("payment_method is required")
	}
	if req.TotalAmount.IsNegative() {
		return apperr.InvalidTransactionData("total_amount cannot be negative")
	}
	if req.PaidAmount.IsNegative() {
		return apperr.InvalidTransactionData("paid_amount cannot be negative")
	}
	for _, line := range append(append([]LineItemInput{}, req.Products...), req.Accessories...) {
		if line.Quantity <= 0 {
			return apperr.InvalidTransactionData("line item quantity must be positive")
		}
		if line.ItemID == nil && line.Name == "" {
			return apperr.InvalidTransactionData("line item without catalog reference needs a name")
		}
	}
	return nil
}

func (s *ledgerService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(payload)
}
