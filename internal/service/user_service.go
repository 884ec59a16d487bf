package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/validator"
)

// UserService manages staff accounts. New signups start unapproved; an
// admin approves them, assigns a role and fine-grained permissions.
type UserService interface {
	Signup(user *model.User, password string) error
	ApproveUser(id uuid.UUID, roleCode string, actor string) error
	GetUser(id uuid.UUID) (*model.User, error)
	ListUsers() ([]model.User, error)
	SetActive(id uuid.UUID, active bool, actor string) error
	DeleteUser(id uuid.UUID) error
	UpdatePermissions(id uuid.UUID, codes []string) error
}

type userService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, permissionRepo repository.PermissionRepository) UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

func (s *userService) Signup(user *model.User, password string) error {
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		return apperr.InvalidTransactionData(validator.Message(errs))
	}
	if password == "" {
		return apperr.InvalidTransactionData("password is required")
	}

	existing, err := s.userRepo.FindByEmail(user.Email)
	if err == nil && existing != nil {
		return apperr.ConstraintViolation("email already registered")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromDB(err, "")
	}

	if err := user.SetPassword(password); err != nil {
		return err
	}
	user.IsApproved = false
	user.IsActive = true
	return apperr.FromDB(s.userRepo.Create(user), "")
}

// ApproveUser activates a pending signup, granting the role's permission
// set as the user's starting permissions.
func (s *userService) ApproveUser(id uuid.UUID, roleCode string, actor string) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return apperr.FromDB(err, "user not found")
	}

	role, err := s.roleRepo.FindByCode(roleCode)
	if err != nil {
		return apperr.FromDB(err, "role not found")
	}

	user.RoleID = &role.ID
	user.IsApproved = true
	user.UpdatedBy = actor
	if err := s.userRepo.Update(user); err != nil {
		return apperr.FromDB(err, "")
	}
	return apperr.FromDB(s.userRepo.UpdatePermissions(id, role.Permissions), "")
}

func (s *userService) GetUser(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "user not found")
	}
	return user, nil
}

func (s *userService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) SetActive(id uuid.UUID, active bool, actor string) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return apperr.FromDB(err, "user not found")
	}
	user.IsActive = active
	user.UpdatedBy = actor
	return apperr.FromDB(s.userRepo.Update(user), "")
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return apperr.FromDB(err, "user not found")
	}
	return apperr.FromDB(s.userRepo.Delete(id), "user not found")
}

func (s *userService) UpdatePermissions(id uuid.UUID, codes []string) error {
	permissions, err := s.permissionRepo.FindByCodes(codes)
	if err != nil {
		return apperr.FromDB(err, "")
	}
	return apperr.FromDB(s.userRepo.UpdatePermissions(id, permissions), "user not found")
}
