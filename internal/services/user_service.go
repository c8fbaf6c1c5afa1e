package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgUserNotFound   = "user not found"
	msgEmailTaken     = "email already registered"
	msgUserFailure    = "failed to process user request"
	defaultListColumn = "created_at"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{db: db, audit: audit}
}

func (s *UserService) Create(ctx context.Context, tenantID string, req *dto.CreateUserRequest) error {
	err := s.create(ctx, tenantID, req)
	return boundary(ctx, "user.create", err, msgUserFailure)
}

func (s *UserService) create(ctx context.Context, tenantID string, req *dto.CreateUserRequest) error {
	if !isValidEmail(req.Email) {
		return NewValidationError(msgInvalidEmail)
	}

	existing, err := s.FindByEmailAuth(ctx, tenantID, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return NewConflictError(msgEmailTaken)
	}

	if err := validateNewUser(req); err != nil {
		return err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		TenantID: tenantID,
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewConflictError(msgEmailTaken)
		}
		return err
	}
	return nil
}

// List returns one page of the tenant's users. Search matches name or email
// as a substring; status filters on is_active.
func (s *UserService) List(ctx context.Context, tenantID string, opts dto.PageOptions) (*dto.Page[dto.UserResponse], error) {
	opts = opts.WithDefaults()
	if err := validatePageOptions(opts); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.User{}).Scopes(tenant.ForTenant(tenantID))
	if opts.Search != "" {
		pattern := "%" + likeEscaper.Replace(opts.Search) + "%"
		query = query.Where(`(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if opts.Status != "" {
		query = query.Where("is_active = ?", opts.Status == "true")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, boundary(ctx, "user.list", err, msgUserFailure)
	}

	column := defaultListColumn
	if opts.OrderBy != "" {
		column = sortableColumns[opts.OrderBy]
	}

	var users []models.User
	err := query.
		Order(column + " " + opts.Order).
		Order("id " + opts.Order).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, boundary(ctx, "user.list", err, msgUserFailure)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	page := dto.NewPage(items, dto.NewPageMeta(total, opts))
	return &page, nil
}

func (s *UserService) FindByEmail(ctx context.Context, tenantID, email string) (*dto.UserResponse, error) {
	if !isValidEmail(email) {
		return nil, NewValidationError(msgInvalidEmail)
	}
	user, err := s.findByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, boundary(ctx, "user.find_by_email", err, msgUserFailure)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// FindByEmailAuth returns the full model including the password hash, or
// nil when no such user exists. It is meant for authentication only.
func (s *UserService) FindByEmailAuth(ctx context.Context, tenantID, email string) (*models.User, error) {
	if !isValidEmail(email) {
		return nil, NewValidationError(msgInvalidEmail)
	}
	var user models.User
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, boundary(ctx, "user.find_by_email_auth", err, msgUserFailure)
	}
	return &user, nil
}

func (s *UserService) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError(msgUserNotFound)
	}
	if err != nil {
		return nil, boundary(ctx, "user.find_by_id", err, msgUserFailure)
	}
	return &user, nil
}

// Update applies a partial profile change. A new password is checked for
// strength before it is hashed.
func (s *UserService) Update(ctx context.Context, tenantID, email string, req *dto.UpdateUserRequest, meta AuditMeta) (*models.User, error) {
	user, err := s.update(ctx, tenantID, email, req, meta)
	return user, boundary(ctx, "user.update", err, msgUserFailure)
}

func (s *UserService) update(ctx context.Context, tenantID, email string, req *dto.UpdateUserRequest, meta AuditMeta) (*models.User, error) {
	if !isValidEmail(email) {
		return nil, NewValidationError(msgInvalidEmail)
	}
	user, err := s.findByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}

	oldData := profileSnapshot(user)

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Image != nil {
		user.Image = req.Image
	}
	if err := validateProfile(user.Name, user.LastName, req.Password); err != nil {
		return nil, err
	}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}

	newData := profileSnapshot(user)
	newData["password_changed"] = req.Password != nil
	s.audit.Record(ctx, meta.entry(tenantID, user.ID, oldData, newData))
	return user, nil
}

func (s *UserService) UpdateEmail(ctx context.Context, tenantID, email, newEmail string, meta AuditMeta) (*models.User, error) {
	user, err := s.updateEmail(ctx, tenantID, email, newEmail, meta)
	return user, boundary(ctx, "user.update_email", err, msgUserFailure)
}

func (s *UserService) updateEmail(ctx context.Context, tenantID, email, newEmail string, meta AuditMeta) (*models.User, error) {
	if !isValidEmail(email) {
		return nil, NewValidationError(msgInvalidEmail)
	}
	if newEmail == "" {
		return nil, NewValidationError("new email is required")
	}
	if err := validateEmail(newEmail); err != nil {
		return nil, err
	}

	user, err := s.findByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}
	if user.Email == newEmail {
		return nil, NewValidationError("new email must be different from the current email")
	}

	taken, err := s.FindByEmailAuth(ctx, tenantID, newEmail)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, NewConflictError(msgEmailTaken)
	}

	oldEmail := user.Email
	user.Email = newEmail
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(msgEmailTaken)
		}
		return nil, err
	}

	s.audit.Record(ctx, meta.entry(tenantID, user.ID,
		map[string]string{"email": oldEmail},
		map[string]string{"email": newEmail},
	))
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, tenantID, email, newPassword string, meta AuditMeta) error {
	err := s.updatePassword(ctx, tenantID, email, newPassword, meta)
	return boundary(ctx, "user.update_password", err, msgUserFailure)
}

func (s *UserService) updatePassword(ctx context.Context, tenantID, email, newPassword string, meta AuditMeta) error {
	if newPassword == "" {
		return NewValidationError("new password is required")
	}
	if !isValidEmail(email) {
		return NewValidationError(msgInvalidEmail)
	}

	user, err := s.findByEmail(ctx, tenantID, email)
	if err != nil {
		return err
	}
	if security.ComparePassword(newPassword, user.Password) {
		return NewValidationError("new password must be different from the current password")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return err
	}

	s.audit.Record(ctx, meta.entry(tenantID, user.ID, nil, map[string]bool{"password_changed": true}))
	return nil
}

// UpdateStatus flips is_active when status is true and leaves the account
// untouched otherwise. The returned user reflects the stored state.
func (s *UserService) UpdateStatus(ctx context.Context, tenantID, email string, status bool, meta AuditMeta) (*models.User, error) {
	user, err := s.updateStatus(ctx, tenantID, email, status, meta)
	return user, boundary(ctx, "user.update_status", err, msgUserFailure)
}

func (s *UserService) updateStatus(ctx context.Context, tenantID, email string, status bool, meta AuditMeta) (*models.User, error) {
	if !isValidEmail(email) {
		return nil, NewValidationError(msgInvalidEmail)
	}
	user, err := s.findByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}

	old := user.IsActive
	if status {
		user.IsActive = !user.IsActive
		if err := s.db.WithContext(ctx).Model(user).Update("is_active", user.IsActive).Error; err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, meta.entry(tenantID, user.ID,
		map[string]bool{"is_active": old},
		map[string]bool{"is_active": user.IsActive},
	))
	return user, nil
}

// DeleteByEmail hard-deletes the user together with its addresses and
// pending verifications.
func (s *UserService) DeleteByEmail(ctx context.Context, tenantID, email string, meta AuditMeta) error {
	err := s.deleteByEmail(ctx, tenantID, email, meta)
	return boundary(ctx, "user.delete", err, msgUserFailure)
}

func (s *UserService) deleteByEmail(ctx context.Context, tenantID, email string, meta AuditMeta) error {
	if !isValidEmail(email) {
		return NewValidationError(msgInvalidEmail)
	}
	user, err := s.findByEmail(ctx, tenantID, email)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND tenant_id = ?", user.ID, tenantID).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND tenant_id = ?", user.ID, tenantID).Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(user).Error
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, meta.entry(tenantID, user.ID,
		map[string]string{"email": user.Email, "id": user.ID.String()},
		nil,
	))
	return nil
}

func (s *UserService) findByEmail(ctx context.Context, tenantID, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError(msgUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func profileSnapshot(u *models.User) map[string]any {
	return map[string]any{
		"name":      u.Name,
		"last_name": u.LastName,
		"image":     u.Image,
	}
}
