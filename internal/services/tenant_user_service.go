package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
	apperrors "github.com/argussec/argus/pkg/errors"
)

// ErrTenantUserNotFound indicates the requested tenant user does not exist.
var ErrTenantUserNotFound = apperrors.New("TENANT_USER_NOT_FOUND", "Tenant user not found", http.StatusNotFound)

// CreateTenantUserInput captures new tenant user details.
type CreateTenantUserInput struct {
	Username string
	Email    string
	Password string
	Name     string
	RoleIDs  []string
}

// UpdateTenantUserInput describes mutable tenant user fields.
type UpdateTenantUserInput struct {
	Username    *string
	Email       *string
	Name        *string
	IsSuspended *bool
}

// TenantUserService manages user accounts inside one tenant. Every lookup
// is keyed by tenant id first; accounts of other tenants are unreachable.
type TenantUserService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewTenantUserService constructs a TenantUserService instance.
func NewTenantUserService(db *gorm.DB, auditService *AuditService) (*TenantUserService, error) {
	if db == nil {
		return nil, errors.New("tenant user service: db is required")
	}
	return &TenantUserService{db: db, auditService: auditService}, nil
}

// List returns one page of the tenant's users with roles preloaded.
func (s *TenantUserService) List(ctx context.Context, tenantID string, opts ListOptions) (*PageResult[models.TenantUser], error) {
	ctx = ensureContext(ctx)
	opts.normalise()

	if err := s.ensureTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.TenantUser{}).Where("tenant_id = ?", tenantID)
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("tenant user service: count users: %w", err)
	}

	sortable := map[string]string{
		"username":   "username",
		"email":      "email",
		"created_at": "created_at",
	}
	query = applySort(query, opts, sortable, "username ASC")

	var users []models.TenantUser
	if err := query.Preload("Roles").Offset(opts.offset()).Limit(opts.PageSize).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("tenant user service: list users: %w", err)
	}

	return &PageResult[models.TenantUser]{
		Items:      users,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}

// Get returns a single tenant user with roles preloaded.
func (s *TenantUserService) Get(ctx context.Context, tenantID, id string) (*models.TenantUser, error) {
	ctx = ensureContext(ctx)
	return s.loadUser(ctx, tenantID, id, true)
}

// Create registers a new user inside the tenant. Any supplied role ids
// must name roles of the same tenant.
func (s *TenantUserService) Create(ctx context.Context, actor authz.Principal, tenantID string, input CreateTenantUserInput) (*models.TenantUser, error) {
	ctx = ensureContext(ctx)

	if err := s.ensureTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" {
		return nil, apperrors.NewBadRequest("username and email are required")
	}
	if input.Password == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	roles, err := s.loadRoles(ctx, tenantID, input.RoleIDs)
	if err != nil {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.TenantUser{
		TenantID: tenantID,
		Username: username,
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(input.Name),
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("username or email already in use")
		}
		return nil, fmt.Errorf("tenant user service: create user: %w", err)
	}

	if len(roles) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
			return nil, fmt.Errorf("tenant user service: assign roles: %w", err)
		}
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_user.create",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "username": user.Username},
	})

	return user, nil
}

// Update modifies tenant user account fields.
func (s *TenantUserService) Update(ctx context.Context, actor authz.Principal, tenantID, id string, input UpdateTenantUserInput) (*models.TenantUser, error) {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, tenantID, id, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Username != nil {
		if username := strings.TrimSpace(*input.Username); username != "" && username != user.Username {
			updates["username"] = username
		}
	}
	if input.Email != nil {
		if email := strings.TrimSpace(*input.Email); email != "" && email != user.Email {
			updates["email"] = email
		}
	}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.IsSuspended != nil {
		updates["is_suspended"] = *input.IsSuspended
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("username or email already in use")
		}
		return nil, fmt.Errorf("tenant user service: update user: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_user.update",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "updates": updates},
	})

	return user, nil
}

// Delete soft-deletes a tenant user account.
func (s *TenantUserService) Delete(ctx context.Context, actor authz.Principal, tenantID, id string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, tenantID, id, false)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("tenant user service: delete user: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_user.delete",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "username": user.Username},
	})

	return nil
}

// AssignRoles replaces the user's role set with the supplied tenant role
// ids. Ids naming roles of another tenant reject the whole request.
func (s *TenantUserService) AssignRoles(ctx context.Context, actor authz.Principal, tenantID, id string, roleIDs []string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, tenantID, id, false)
	if err != nil {
		return err
	}

	roles, err := s.loadRoles(ctx, tenantID, roleIDs)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return fmt.Errorf("tenant user service: assign roles: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_user.assign_roles",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "role_ids": normaliseIDs(roleIDs)},
	})

	return nil
}

func (s *TenantUserService) loadRoles(ctx context.Context, tenantID string, roleIDs []string) ([]models.TenantRole, error) {
	ids := normaliseIDs(roleIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	var roles []models.TenantRole
	if err := s.db.WithContext(ctx).Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("tenant user service: load roles: %w", err)
	}
	if len(roles) != len(ids) {
		return nil, ErrUnknownRole
	}
	return roles, nil
}

func (s *TenantUserService) ensureTenant(ctx context.Context, tenantID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", strings.TrimSpace(tenantID)).Count(&count).Error; err != nil {
		return fmt.Errorf("tenant user service: check tenant: %w", err)
	}
	if count == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (s *TenantUserService) loadUser(ctx context.Context, tenantID, id string, withRoles bool) (*models.TenantUser, error) {
	query := s.db.WithContext(ctx).Where("tenant_id = ?", strings.TrimSpace(tenantID))
	if withRoles {
		query = query.Preload("Roles")
	}

	var user models.TenantUser
	err := query.First(&user, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant user service: load user: %w", err)
	}
	return &user, nil
}
