package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a sale header. BuyerID is optional (cash sales carry no
// buyer) and is nulled out if the buyer is ever deleted. A pure udhar
// payment has TotalAmount = 0, IsUdharPayment = true and no line items.
type Transaction struct {
	BaseModel
	BuyerID         *uuid.UUID      `gorm:"type:uuid;index" json:"buyer_id,omitempty"`
	Buyer           *Buyer          `gorm:"foreignKey:BuyerID;constraint:OnDelete:SET NULL" json:"buyer,omitempty" validate:"-"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null" json:"user_id" validate:"uuid_required"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"paid_amount"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required"`
	IsUdharPayment  bool            `gorm:"default:false" json:"is_udhar_payment"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`

	Products    []TransactionProduct   `gorm:"foreignKey:TransactionID" json:"products,omitempty" validate:"-"`
	Accessories []TransactionAccessory `gorm:"foreignKey:TransactionID" json:"accessories,omitempty" validate:"-"`
}

func (Transaction) TableName() string {
	return "buyer_transactions"
}

// TransactionProduct is a product line item. ProductName and ProductPrice
// are frozen at sale time; ProductID becomes nil when the product is later
// deleted (tombstone), the snapshot stays.
type TransactionProduct struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName   string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price"`
	Quantity      int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
}

func (TransactionProduct) TableName() string {
	return "transaction_products"
}

// TransactionAccessory is the accessory-side line item, same contract as
// TransactionProduct.
type TransactionAccessory struct {
	BaseModel
	TransactionID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	AccessoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"accessory_id,omitempty"`
	AccessoryName  string          `gorm:"type:varchar(255);not null" json:"accessory_name"`
	AccessoryPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"accessory_price"`
	Quantity       int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
}

func (TransactionAccessory) TableName() string {
	return "transaction_accessories"
}
