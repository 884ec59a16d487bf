package repository

import (
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

type PermissionRepository interface {
	FindAll() ([]model.Permission, error)
	FindByCodes(codes []string) ([]model.Permission, error)
	SeedDefaults() error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

func (r *permissionRepo) FindAll() ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.Order("id ASC").Find(&permissions).Error
	return permissions, err
}

func (r *permissionRepo) FindByCodes(codes []string) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.Find(&permissions, "code IN ?", codes).Error
	return permissions, err
}

func (r *permissionRepo) SeedDefaults() error {
	for _, p := range model.DefaultPermissions {
		if err := r.db.Where(model.Permission{Code: p.Code}).
			FirstOrCreate(&model.Permission{}, p).Error; err != nil {
			return err
		}
	}
	return nil
}
