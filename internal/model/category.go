package model

// ProductCategory groups products. Deleting a category removes its
// products as well (done application-side inside one transaction).
type ProductCategory struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// AccessoryCategory is the accessory-side counterpart. Product and
// accessory categories are distinct sets.
type AccessoryCategory struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
}

func (AccessoryCategory) TableName() string {
	return "accessory_categories"
}
