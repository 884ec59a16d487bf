package model

import "github.com/shopspring/decimal"

// Buyer is a shop customer. OutstandingUdhar is the running credit owed:
// the ledger engine keeps it equal to the sum of (total - paid) over the
// buyer's live transactions. IsActive is a soft-delete toggle, flipped
// rather than overwritten.
type Buyer struct {
	BaseModel
	Name             string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone            *string         `gorm:"type:varchar(20);uniqueIndex" json:"phone,omitempty"`
	Address          string          `gorm:"type:text" json:"address"`
	OutstandingUdhar decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"outstanding_udhar"`
	HasUdhar         bool            `gorm:"default:false" json:"has_udhar"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
}
