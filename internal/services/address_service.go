package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgAddressExists  = "address already registered for this user"
	msgAddressFailure = "failed to process address request"
)

type AddressService struct {
	db    *gorm.DB
	users *UserService
}

func NewAddressService(db *gorm.DB, users *UserService) *AddressService {
	return &AddressService{db: db, users: users}
}

// Create stores an address for userID. The same (street, number, zip code)
// may be registered once per user.
func (s *AddressService) Create(ctx context.Context, tenantID string, userID uuid.UUID, req *dto.CreateAddressRequest) (*models.Address, error) {
	addr, err := s.create(ctx, tenantID, userID, req)
	return addr, boundary(ctx, "address.create", err, msgAddressFailure)
}

func (s *AddressService) create(ctx context.Context, tenantID string, userID uuid.UUID, req *dto.CreateAddressRequest) (*models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.WithContext(ctx).
		Model(&models.Address{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ? AND street = ? AND number = ? AND zip_code = ?", user.ID, req.Street, req.Number, req.ZipCode).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError(msgAddressExists)
	}

	addr := models.Address{
		TenantID:   tenantID,
		UserID:     user.ID,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		ZipCode:    req.ZipCode,
		Country:    req.Country,
	}
	if err := s.db.WithContext(ctx).Create(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *AddressService) ListForUser(ctx context.Context, tenantID string, userID uuid.UUID) ([]models.Address, error) {
	addresses := []models.Address{}
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, boundary(ctx, "address.list", err, msgAddressFailure)
	}
	return addresses, nil
}
