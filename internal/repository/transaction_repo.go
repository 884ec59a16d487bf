package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

type TransactionRepository interface {
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindAll() ([]model.Transaction, error)
	FindByBuyer(buyerID uuid.UUID) ([]model.Transaction, error)
	FindItems(transactionID uuid.UUID) ([]model.TransactionProduct, []model.TransactionAccessory, error)
	GetSalesSummary(startDate, endDate time.Time) (*SalesSummary, error)
	GetShopStats() (*ShopStats, error)
}

// SalesSummary aggregates sale headers over a period.
type SalesSummary struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	UdharIssued decimal.Decimal `json:"udhar_issued"` // total - paid over ordinary sales
	UdharRepaid decimal.Decimal `json:"udhar_repaid"` // paid over pure udhar payments
	Count       int64           `json:"count"`
}

// ShopStats is the back-office overview.
type ShopStats struct {
	TotalProducts    int64           `json:"total_products"`
	TotalAccessories int64           `json:"total_accessories"`
	LowStockCount    int64           `json:"low_stock_count"`
	OutstandingUdhar decimal.Decimal `json:"outstanding_udhar"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Products").Preload("Accessories").Preload("Buyer").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Buyer").Order("transaction_date DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByBuyer(buyerID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Order("transaction_date DESC").Find(&transactions, "buyer_id = ?", buyerID).Error
	return transactions, err
}

func (r *transactionRepo) FindItems(transactionID uuid.UUID) ([]model.TransactionProduct, []model.TransactionAccessory, error) {
	var products []model.TransactionProduct
	if err := r.db.Find(&products, "transaction_id = ?", transactionID).Error; err != nil {
		return nil, nil, err
	}
	var accessories []model.TransactionAccessory
	if err := r.db.Find(&accessories, "transaction_id = ?", transactionID).Error; err != nil {
		return nil, nil, err
	}
	return products, accessories, nil
}

func (r *transactionRepo) GetSalesSummary(startDate, endDate time.Time) (*SalesSummary, error) {
	var transactions []model.Transaction
	err := r.db.
		Where("transaction_date BETWEEN ? AND ?", startDate, endDate).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	// Decimal sums are done in Go so the arithmetic stays exact regardless
	// of the store's numeric handling.
	summary := &SalesSummary{
		TotalSales:  decimal.Zero,
		TotalPaid:   decimal.Zero,
		UdharIssued: decimal.Zero,
		UdharRepaid: decimal.Zero,
	}
	for _, tx := range transactions {
		summary.Count++
		summary.TotalSales = summary.TotalSales.Add(tx.TotalAmount)
		summary.TotalPaid = summary.TotalPaid.Add(tx.PaidAmount)
		if tx.IsUdharPayment {
			summary.UdharRepaid = summary.UdharRepaid.Add(tx.PaidAmount)
		} else {
			summary.UdharIssued = summary.UdharIssued.Add(tx.TotalAmount.Sub(tx.PaidAmount))
		}
	}
	return summary, nil
}

func (r *transactionRepo) GetShopStats() (*ShopStats, error) {
	var stats ShopStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Accessory{}).Count(&stats.TotalAccessories).Error; err != nil {
		return nil, err
	}

	var lowProducts, lowAccessories int64
	r.db.Model(&model.Product{}).Where("available < ?", 5).Count(&lowProducts)
	r.db.Model(&model.Accessory{}).Where("available < ?", 5).Count(&lowAccessories)
	stats.LowStockCount = lowProducts + lowAccessories

	var buyers []model.Buyer
	if err := r.db.Find(&buyers).Error; err != nil {
		return nil, err
	}
	stats.OutstandingUdhar = decimal.Zero
	for _, b := range buyers {
		stats.OutstandingUdhar = stats.OutstandingUdhar.Add(b.OutstandingUdhar)
	}

	return &stats, nil
}
