package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

// ProductFilter drives the paginated catalog listing.
type ProductFilter struct {
	Page         int
	Limit        int
	Name         string
	HinglishName string
	CategoryID   *uuid.UUID
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinAvailable *int
	Colors       []string
	Variants     []string
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByNameColorVariant(name, color, variant string) (*model.Product, error)
	FindByCategory(categoryID uuid.UUID) ([]model.Product, error)
	Update(product *model.Product) error
	UpdateAvailable(tx *gorm.DB, id uuid.UUID, newAvailable int, updatedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

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
	if len(filter.Variants) > 0 {
		query = query.Where("variant IN ?", filter.Variants)
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

	var products []model.Product
	err := query.Preload("Category").
		Order("created_at ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByNameColorVariant(name, color, variant string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "name = ? AND color = ? AND variant = ?", name, color, variant).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCategory(categoryID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Find(&products, "category_id = ?", categoryID).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// UpdateAvailable takes the caller's tx handle so the stock write joins the
// ledger transaction it belongs to.
func (r *productRepo) UpdateAvailable(tx *gorm.DB, id uuid.UUID, newAvailable int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available":  newAvailable,
			"updated_by": updatedBy,
		}).Error
}
