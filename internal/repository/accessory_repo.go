package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

// AccessoryFilter mirrors ProductFilter without the variant dimension.
type AccessoryFilter struct {
	Page         int
	Limit        int
	Name         string
	HinglishName string
	CategoryID   *uuid.UUID
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinAvailable *int
	Colors       []string
}

type AccessoryRepository interface {
	Create(accessory *model.Accessory) error
	FindAll(filter AccessoryFilter) ([]model.Accessory, int64, error)
	FindByID(id uuid.UUID) (*model.Accessory, error)
	FindByNameColor(name, color string) (*model.Accessory, error)
	FindByCategory(categoryID uuid.UUID) ([]model.Accessory, error)
	Update(accessory *model.Accessory) error
	UpdateAvailable(tx *gorm.DB, id uuid.UUID, newAvailable int, updatedBy string) error
}

type accessoryRepo struct {
	db *gorm.DB
}

func NewAccessoryRepo(db *gorm.DB) AccessoryRepository {
	return &accessoryRepo{db}
}

func (r *accessoryRepo) Create(accessory *model.Accessory) error {
	return r.db.Create(accessory).Error
}

func (r *accessoryRepo) FindAll(filter AccessoryFilter) ([]model.Accessory, int64, error) {
	query := r.db.Model(&model.Accessory{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.HinglishName != "" {
		query = query.Where("hinglish_name LIKE ?", "%"+filter.HinglishName+"%")
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("market_price >= ? OR dealer_price >= ?", *filter.MinPrice, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("market_price <= ? OR dealer_price <= ?", *filter.MaxPrice, *filter.MaxPrice)
	}
	if filter.MinAvailable != nil {
		query = query.Where("available >= ?", *filter.MinAvailable)
	}
	if len(filter.Colors) > 0 {
		query = query.Where("color IN ?", filter.Colors)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var accessories []model.Accessory
	err := query.Preload("Category").
		Order("created_at ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&accessories).Error
	return accessories, total, err
}

func (r *accessoryRepo) FindByID(id uuid.UUID) (*model.Accessory, error) {
	var accessory model.Accessory
	err := r.db.Preload("Category").First(&accessory, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &accessory, nil
}

func (r *accessoryRepo) FindByNameColor(name, color string) (*model.Accessory, error) {
	var accessory model.Accessory
	err := r.db.First(&accessory, "name = ? AND color = ?", name, color).Error
	if err != nil {
		return nil, err
	}
	return &accessory, nil
}

func (r *accessoryRepo) FindByCategory(categoryID uuid.UUID) ([]model.Accessory, error) {
	var accessories []model.Accessory
	err := r.db.Find(&accessories, "category_id = ?", categoryID).Error
	return accessories, err
}

func (r *accessoryRepo) Update(accessory *model.Accessory) error {
	return r.db.Save(accessory).Error
}

func (r *accessoryRepo) UpdateAvailable(tx *gorm.DB, id uuid.UUID, newAvailable int, updatedBy string) error {
	return tx.Model(&model.Accessory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available":  newAvailable,
			"updated_by": updatedBy,
		}).Error
}
