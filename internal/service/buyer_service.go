package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
)

// BuyerUpdate carries the optional fields of a buyer edit. Balance fields
// are absent on purpose: outstanding udhar moves only through the ledger.
type BuyerUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type BuyerService interface {
	CreateBuyer(buyer *model.Buyer, actor string) error
	UpdateBuyer(id uuid.UUID, update BuyerUpdate, actor string) error
	ToggleActive(id uuid.UUID) error
	GetBuyer(id uuid.UUID) (*model.Buyer, error)
	ListBuyers() ([]model.Buyer, error)
	ListBuyersByActive(active bool) ([]model.Buyer, error)
}

type buyerService struct {
	buyerRepo repository.BuyerRepository
}

func NewBuyerService(buyerRepo repository.BuyerRepository) BuyerService {
	return &buyerService{buyerRepo: buyerRepo}
}

func (s *buyerService) CreateBuyer(buyer *model.Buyer, actor string) error {
	if buyer.Name == "" {
		return apperr.InvalidTransactionData("buyer name is required")
	}
	if buyer.OutstandingUdhar.IsNegative() {
		return apperr.InvalidTransactionData("opening udhar cannot be negative")
	}

	existing, err := s.buyerRepo.FindByNameAndPhone(buyer.Name, buyer.Phone)
	if err == nil && existing != nil {
		return apperr.ConstraintViolation("buyer already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromDB(err, "")
	}

	buyer.IsActive = true
	buyer.HasUdhar = buyer.OutstandingUdhar.IsPositive()
	buyer.CreatedBy = actor
	buyer.UpdatedBy = actor
	return apperr.FromDB(s.buyerRepo.Create(buyer), "")
}

func (s *buyerService) UpdateBuyer(id uuid.UUID, update BuyerUpdate, actor string) error {
	if update.Name == nil && update.Phone == nil && update.Address == nil {
		return apperr.InvalidTransactionData("no fields provided for update")
	}

	buyer, err := s.buyerRepo.FindByID(id)
	if err != nil {
		return apperr.FromDB(err, "buyer not found")
	}

	if update.Phone != nil {
		other, err := s.buyerRepo.FindByPhoneExcluding(*update.Phone, id)
		if err == nil && other != nil {
			return apperr.ConstraintViolation("this phone number belongs to another customer")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.FromDB(err, "")
		}
		buyer.Phone = update.Phone
	}
	if update.Name != nil {
		buyer.Name = *update.Name
	}
	if update.Address != nil {
		buyer.Address = *update.Address
	}
	buyer.UpdatedBy = actor

	return apperr.FromDB(s.buyerRepo.Update(buyer), "buyer not found")
}

// ToggleActive flips the soft-delete flag: an inactive buyer is restored,
// an active one is retired. History and balance stay put either way.
func (s *buyerService) ToggleActive(id uuid.UUID) error {
	affected, err := s.buyerRepo.ToggleActive(id)
	if err != nil {
		return apperr.FromDB(err, "buyer not found")
	}
	if affected == 0 {
		return apperr.NotFound("buyer not found")
	}
	return nil
}

func (s *buyerService) GetBuyer(id uuid.UUID) (*model.Buyer, error) {
	buyer, err := s.buyerRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "buyer not found")
	}
	return buyer, nil
}

func (s *buyerService) ListBuyers() ([]model.Buyer, error) {
	return s.buyerRepo.FindAll()
}

func (s *buyerService) ListBuyersByActive(active bool) ([]model.Buyer, error) {
	return s.buyerRepo.FindByActive(active)
}
