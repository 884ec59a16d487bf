package model

// Permission represents an action that can be granted to staff users
type Permission struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "manage_product"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Default permissions for the system
var DefaultPermissions = []Permission{
	{Code: "manage_product", Name: "Manage Products"},
	{Code: "manage_product_categories", Name: "Manage Product Categories"},
	{Code: "manage_accessory", Name: "Manage Accessories"},
	{Code: "manage_accessory_categories", Name: "Manage Accessory Categories"},
	{Code: "manage_buyers", Name: "Manage Buyers"},
	{Code: "manage_transactions", Name: "Manage Transactions"},
	{Code: "disable_employee_account", Name: "Disable Employee Account"},
	{Code: "delete_employee_account", Name: "Delete Employee Account"},
}
