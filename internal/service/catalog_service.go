package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/ws"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/validator"
)

// CatalogService manages products, accessories and their categories.
// Deleting an item tombstones its historical line items: the item
// reference is nulled inside the same transaction, the name/price
// snapshot stays untouched.
type CatalogService interface {
	CreateProduct(product *model.Product, actor string) error
	UpdateProduct(id uuid.UUID, product *model.Product, actor string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)

	CreateAccessory(accessory *model.Accessory, actor string) error
	UpdateAccessory(id uuid.UUID, accessory *model.Accessory, actor string) (*model.Accessory, error)
	DeleteAccessory(id uuid.UUID) error
	GetAccessory(id uuid.UUID) (*model.Accessory, error)
	ListAccessories(filter repository.AccessoryFilter) ([]model.Accessory, int64, error)

	CreateProductCategory(category *model.ProductCategory, actor string) error
	DeleteProductCategory(id uuid.UUID) error
	ListProductCategories() ([]model.ProductCategory, error)
	CreateAccessoryCategory(category *model.AccessoryCategory, actor string) error
	DeleteAccessoryCategory(id uuid.UUID) error
	ListAccessoryCategories() ([]model.AccessoryCategory, error)
}

type catalogService struct {
	productRepo           repository.ProductRepository
	accessoryRepo         repository.AccessoryRepository
	productCategoryRepo   repository.ProductCategoryRepository
	accessoryCategoryRepo repository.AccessoryCategoryRepository
	db                    *gorm.DB
	wsHub                 *ws.Hub
}

func NewCatalogService(
	pRepo repository.ProductRepository,
	aRepo repository.AccessoryRepository,
	pcRepo repository.ProductCategoryRepository,
	acRepo repository.AccessoryCategoryRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:           pRepo,
		accessoryRepo:         aRepo,
		productCategoryRepo:   pcRepo,
		accessoryCategoryRepo: acRepo,
		db:                    db,
		wsHub:                 hub,
	}
}

func (s *catalogService) CreateProduct(product *model.Product, actor string) error {
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return apperr.InvalidTransactionData(validator.Message(errs))
	}
	if product.Available < 0 {
		return apperr.InvalidTransactionData("available cannot be negative")
	}

	if _, err := s.productCategoryRepo.FindByID(product.CategoryID); err != nil {
		return apperr.FromDB(err, "product category not found")
	}

	existing, err := s.productRepo.FindByNameColorVariant(product.Name, product.Color, product.Variant)
	if err == nil && existing != nil {
		return apperr.ConstraintViolation("product with this name, color and variant already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromDB(err, "")
	}

	product.CreatedBy = actor
	product.UpdatedBy = actor
	if err := s.productRepo.Create(product); err != nil {
		return apperr.FromDB(err, "")
	}

	s.broadcast(map[string]interface{}{
		"type":       "stock_update",
		"action":     "product_created",
		"product_id": product.ID,
		"available":  product.Available,
	})
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, actor string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidTransactionData(validator.Message(errs))
	}
	if req.Available < 0 {
		return nil, apperr.InvalidTransactionData("available cannot be negative")
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := lockForUpdate(tx).First(&existing, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "product not found")
		}

		existing.Name = req.Name
		existing.HinglishName = req.HinglishName
		existing.CategoryID = req.CategoryID
		existing.MarketPrice = req.MarketPrice
		existing.DealerPrice = req.DealerPrice
		existing.Available = req.Available
		existing.Color = req.Color
		existing.Variant = req.Variant
		existing.UpdatedBy = actor

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	s.broadcast(map[string]interface{}{
		"type":       "stock_update",
		"action":     "product_updated",
		"product_id": updated.ID,
		"available":  updated.Available,
	})
	return updated, nil
}

// DeleteProduct removes the catalog row and nulls the references on its
// historical line items in the same transaction.
func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := lockForUpdate(tx).First(&product, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "product not found")
		}
		if err := tx.Model(&model.TransactionProduct{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
	return apperr.FromDB(err, "product not found")
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	return product, nil
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindAll(filter)
}

func (s *catalogService) CreateAccessory(accessory *model.Accessory, actor string) error {
	if errs := validator.ValidateStruct(accessory); len(errs) > 0 {
		return apperr.InvalidTransactionData(validator.Message(errs))
	}
	if accessory.Available < 0 {
		return apperr.InvalidTransactionData("available cannot be negative")
	}

	if _, err := s.accessoryCategoryRepo.FindByID(accessory.CategoryID); err != nil {
		return apperr.FromDB(err, "accessory category not found")
	}

	existing, err := s.accessoryRepo.FindByNameColor(accessory.Name, accessory.Color)
	if err == nil && existing != nil {
		return apperr.ConstraintViolation("accessory with this name and color already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromDB(err, "")
	}

	accessory.CreatedBy = actor
	accessory.UpdatedBy = actor
	if err := s.accessoryRepo.Create(accessory); err != nil {
		return apperr.FromDB(err, "")
	}

	s.broadcast(map[string]interface{}{
		"type":         "stock_update",
		"action":       "accessory_created",
		"accessory_id": accessory.ID,
		"available":    accessory.Available,
	})
	return nil
}

func (s *catalogService) UpdateAccessory(id uuid.UUID, req *model.Accessory, actor string) (*model.Accessory, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidTransactionData(validator.Message(errs))
	}
	if req.Available < 0 {
		return nil, apperr.InvalidTransactionData("available cannot be negative")
	}

	var updated *model.Accessory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Accessory
		if err := lockForUpdate(tx).First(&existing, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "accessory not found")
		}

		existing.Name = req.Name
		existing.HinglishName = req.HinglishName
		existing.CategoryID = req.CategoryID
		existing.MarketPrice = req.MarketPrice
		existing.DealerPrice = req.DealerPrice
		existing.Available = req.Available
		existing.Color = req.Color
		existing.UpdatedBy = actor

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "accessory not found")
	}
	return updated, nil
}

func (s *catalogService) DeleteAccessory(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var accessory model.Accessory
		if err := lockForUpdate(tx).First(&accessory, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "accessory not found")
		}
		if err := tx.Model(&model.TransactionAccessory{}).
			Where("accessory_id = ?", id).
			Update("accessory_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Accessory{}, "id = ?", id).Error
	})
	return apperr.FromDB(err, "accessory not found")
}

func (s *catalogService) GetAccessory(id uuid.UUID) (*model.Accessory, error) {
	accessory, err := s.accessoryRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "accessory not found")
	}
	return accessory, nil
}

func (s *catalogService) ListAccessories(filter repository.AccessoryFilter) ([]model.Accessory, int64, error) {
	return s.accessoryRepo.FindAll(filter)
}

func (s *catalogService) CreateProductCategory(category *model.ProductCategory, actor string) error {
	if errs := validator.ValidateStruct(category); len(errs) > 0 {
		return apperr.InvalidTransactionData(validator.Message(errs))
	}
	if existing, err := s.productCategoryRepo.FindByName(category.Name); err == nil && existing != nil {
		return apperr.ConstraintViolation("product category already exists")
	}
	category.CreatedBy = actor
	category.UpdatedBy = actor
	return apperr.FromDB(s.productCategoryRepo.Create(category), "")
}

// DeleteProductCategory cascades: every product in the category goes too,
// each tombstoning its own line items.
func (s *catalogService) DeleteProductCategory(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productCategoryRepo.FindByID(id); err != nil {
			return apperr.FromDB(err, "product category not found")
		}
		products, err := s.productRepo.FindByCategory(id)
		if err != nil {
			return err
		}
		for _, product := range products {
			if err := tx.Model(&model.TransactionProduct{}).
				Where("product_id = ?", product.ID).
				Update("product_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Product{}, "id = ?", product.ID).Error; err != nil {
				return err
			}
		}
		return s.productCategoryRepo.Delete(tx, id)
	})
	return apperr.FromDB(err, "product category not found")
}

func (s *catalogService) ListProductCategories() ([]model.ProductCategory, error) {
	return s.productCategoryRepo.FindAll()
}

func (s *catalogService) CreateAccessoryCategory(category *model.AccessoryCategory, actor string) error {
	if errs := validator.ValidateStruct(category); len(errs) > 0 {
		return apperr.InvalidTransactionData(validator.Message(errs))
	}
	if existing, err := s.accessoryCategoryRepo.FindByName(category.Name); err == nil && existing != nil {
		return apperr.ConstraintViolation("accessory category already exists")
	}
	category.CreatedBy = actor
	category.UpdatedBy = actor
	return apperr.FromDB(s.accessoryCategoryRepo.Create(category), "")
}

func (s *catalogService) DeleteAccessoryCategory(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.accessoryCategoryRepo.FindByID(id); err != nil {
			return apperr.FromDB(err, "accessory category not found")
		}
		accessories, err := s.accessoryRepo.FindByCategory(id)
		if err != nil {
			return err
		}
		for _, accessory := range accessories {
			if err := tx.Model(&model.TransactionAccessory{}).
				Where("accessory_id = ?", accessory.ID).
				Update("accessory_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Accessory{}, "id = ?", accessory.ID).Error; err != nil {
				return err
			}
		}
		return s.accessoryCategoryRepo.Delete(tx, id)
	})
	return apperr.FromDB(err, "accessory category not found")
}

func (s *catalogService) ListAccessoryCategories() ([]model.AccessoryCategory, error) {
	return s.accessoryCategoryRepo.FindAll()
}

func (s *catalogService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(payload)
}
