package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Accessory is like Product but without a size/variant dimension.
type Accessory struct {
	BaseModel
	Name         string             `gorm:"type:varchar(255);not null;uniqueIndex:idx_accessories_name_color" json:"name" validate:"required"`
	HinglishName string             `gorm:"type:varchar(255)" json:"hinglish_name"`
	CategoryID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category     *AccessoryCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	MarketPrice  decimal.Decimal    `gorm:"type:decimal(10,2)" json:"market_price"`
	DealerPrice  decimal.Decimal    `gorm:"type:decimal(10,2)" json:"dealer_price"`
	ImageURL     string             `gorm:"type:text" json:"image_url"`
	ImageID      string             `gorm:"type:varchar(255)" json:"image_id"`
	Available    int                `gorm:"not null;default:0" json:"available"`
	Color        string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_accessories_name_color" json:"color" validate:"required"`
}
