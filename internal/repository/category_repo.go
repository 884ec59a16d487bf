package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

type ProductCategoryRepository interface {
	Create(category *model.ProductCategory) error
	FindAll() ([]model.ProductCategory, error)
	FindByID(id uuid.UUID) (*model.ProductCategory, error)
	FindByName(name string) (*model.ProductCategory, error)
	Update(category *model.ProductCategory) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type productCategoryRepo struct {
	db *gorm.DB
}

func NewProductCategoryRepo(db *gorm.DB) ProductCategoryRepository {
	return &productCategoryRepo{db}
}

func (r *productCategoryRepo) Create(category *model.ProductCategory) error {
	return r.db.Create(category).Error
}

func (r *productCategoryRepo) FindAll() ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *productCategoryRepo) FindByID(id uuid.UUID) (*model.ProductCategory, error) {
	var category model.ProductCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *productCategoryRepo) FindByName(name string) (*model.ProductCategory, error) {
	var category model.ProductCategory
	if err := r.db.First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *productCategoryRepo) Update(category *model.ProductCategory) error {
	return r.db.Save(category).Error
}

// Delete removes only the category row. The cascade to its products (and
// the tombstoning of their line items) is orchestrated by the catalog
// service inside one transaction, hence the tx handle.
func (r *productCategoryRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ProductCategory{}, "id = ?", id).Error
}

type AccessoryCategoryRepository interface {
	Create(category *model.AccessoryCategory) error
	FindAll() ([]model.AccessoryCategory, error)
	FindByID(id uuid.UUID) (*model.AccessoryCategory, error)
	FindByName(name string) (*model.AccessoryCategory, error)
	Update(category *model.AccessoryCategory) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type accessoryCategoryRepo struct {
	db *gorm.DB
}

func NewAccessoryCategoryRepo(db *gorm.DB) AccessoryCategoryRepository {
	return &accessoryCategoryRepo{db}
}

func (r *accessoryCategoryRepo) Create(category *model.AccessoryCategory) error {
	return r.db.Create(category).Error
}

func (r *accessoryCategoryRepo) FindAll() ([]model.AccessoryCategory, error) {
	var categories []model.AccessoryCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *accessoryCategoryRepo) FindByID(id uuid.UUID) (*model.AccessoryCategory, error) {
	var category model.AccessoryCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *accessoryCategoryRepo) FindByName(name string) (*model.AccessoryCategory, error) {
	var category model.AccessoryCategory
	if err := r.db.First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *accessoryCategoryRepo) Update(category *model.AccessoryCategory) error {
	return r.db.Save(category).Error
}

func (r *accessoryCategoryRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.AccessoryCategory{}, "id = ?", id).Error
}
