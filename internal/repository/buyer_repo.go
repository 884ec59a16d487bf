package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

type BuyerRepository interface {
	Create(buyer *model.Buyer) error
	FindByID(id uuid.UUID) (*model.Buyer, error)
	FindByNameAndPhone(name string, phone *string) (*model.Buyer, error)
	FindByPhoneExcluding(phone string, excludeID uuid.UUID) (*model.Buyer, error)
	Update(buyer *model.Buyer) error
	ToggleActive(id uuid.UUID) (int64, error)
	FindAll() ([]model.Buyer, error)
	FindByActive(active bool) ([]model.Buyer, error)
	UpdateUdhar(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal, hasUdhar bool) error
}

type buyerRepo struct {
	db *gorm.DB
}

func NewBuyerRepo(db *gorm.DB) BuyerRepository {
	return &buyerRepo{db}
}

func (r *buyerRepo) Create(buyer *model.Buyer) error {
	return r.db.Create(buyer).Error
}

func (r *buyerRepo) FindByID(id uuid.UUID) (*model.Buyer, error) {
	var buyer model.Buyer
	if err := r.db.First(&buyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepo) FindByNameAndPhone(name string, phone *string) (*model.Buyer, error) {
	var buyer model.Buyer
	query := r.db.Where("name = ?", name)
	if phone != nil {
		query = query.Where("phone = ?", *phone)
	} else {
		query = query.Where("phone IS NULL")
	}
	if err := query.First(&buyer).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepo) FindByPhoneExcluding(phone string, excludeID uuid.UUID) (*model.Buyer, error) {
	var buyer model.Buyer
	if err := r.db.First(&buyer, "phone = ? AND id != ?", phone, excludeID).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepo) Update(buyer *model.Buyer) error {
	return r.db.Save(buyer).Error
}

// ToggleActive flips the soft-delete flag in place and reports how many
// rows were touched, so the caller can tell a missing buyer apart.
func (r *buyerRepo) ToggleActive(id uuid.UUID) (int64, error) {
	result := r.db.Model(&model.Buyer{}).
		Where("id = ?", id).
		UpdateColumn("is_active", gorm.Expr("NOT is_active"))
	return result.RowsAffected, result.Error
}

func (r *buyerRepo) FindAll() ([]model.Buyer, error) {
	var buyers []model.Buyer
	err := r.db.Order("name ASC").Find(&buyers).Error
	return buyers, err
}

func (r *buyerRepo) FindByActive(active bool) ([]model.Buyer, error) {
	var buyers []model.Buyer
	err := r.db.Order("name ASC").Find(&buyers, "is_active = ?", active).Error
	return buyers, err
}

// UpdateUdhar writes the recomputed balance inside the caller's ledger
// transaction.
func (r *buyerRepo) UpdateUdhar(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal, hasUdhar bool) error {
	return tx.Model(&model.Buyer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"outstanding_udhar": balance,
			"has_udhar":         hasUdhar,
		}).Error
}
