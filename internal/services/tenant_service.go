package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
	apperrors "github.com/argussec/argus/pkg/errors"
)

// CreateTenantInput captures new tenant details.
type CreateTenantInput struct {
	Code        string
	Name        string
	Description string
}

// UpdateTenantInput describes mutable tenant fields.
type UpdateTenantInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// TenantService manages the tenant directory.
type TenantService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewTenantService constructs a TenantService instance.
func NewTenantService(db *gorm.DB, auditService *AuditService) (*TenantService, error) {
	if db == nil {
		return nil, errors.New("tenant service: db is required")
	}
	return &TenantService{db: db, auditService: auditService}, nil
}

// List returns one page of tenants.
func (s *TenantService) List(ctx context.Context, opts ListOptions) (*PageResult[models.Tenant], error) {
	ctx = ensureContext(ctx)
	opts.normalise()

	query := s.db.WithContext(ctx).Model(&models.Tenant{})
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("tenant service: count tenants: %w", err)
	}

	sortable := map[string]string{
		"code":       "code",
		"name":       "name",
		"created_at": "created_at",
	}
	query = applySort(query, opts, sortable, "code ASC")

	var tenants []models.Tenant
	if err := query.Offset(opts.offset()).Limit(opts.PageSize).Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("tenant service: list tenants: %w", err)
	}

	return &PageResult[models.Tenant]{
		Items:      tenants,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}

// Get returns a single tenant.
func (s *TenantService) Get(ctx context.Context, id string) (*models.Tenant, error) {
	ctx = ensureContext(ctx)
	return s.loadTenant(ctx, id)
}

// Create registers a new tenant. Codes are stored upper-cased and must be
// unique across the platform.
func (s *TenantService) Create(ctx context.Context, actor authz.Principal, input CreateTenantInput) (*models.Tenant, error) {
	ctx = ensureContext(ctx)

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, apperrors.NewBadRequest("tenant code and name are required")
	}

	tenant := &models.Tenant{
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}

	if err := s.db.WithContext(ctx).Create(tenant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("tenant code already exists")
		}
		return nil, fmt.Errorf("tenant service: create tenant: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant.create",
		Resource: tenant.ID,
		Result:   "success",
		Metadata: map[string]any{"code": tenant.Code},
	})

	return tenant, nil
}

// Update modifies tenant metadata. The code is immutable once assigned.
func (s *TenantService) Update(ctx context.Context, actor authz.Principal, id string, input UpdateTenantInput) (*models.Tenant, error) {
	ctx = ensureContext(ctx)

	tenant, err := s.loadTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" && name != tenant.Name {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		return tenant, nil
	}

	if err := s.db.WithContext(ctx).Model(tenant).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("tenant service: update tenant: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant.update",
		Resource: tenant.ID,
		Result:   "success",
		Metadata: map[string]any{"updates": updates},
	})

	return tenant, nil
}

// Delete soft-deletes a tenant along with its users and roles. Grants
// through the removed roles stop resolving immediately.
func (s *TenantService) Delete(ctx context.Context, actor authz.Principal, id string) error {
	ctx = ensureContext(ctx)

	tenant, err := s.loadTenant(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenant.ID).Delete(&models.TenantUser{}).Error; err != nil {
			return fmt.Errorf("delete tenant users: %w", err)
		}
		if err := tx.Where("tenant_id = ?", tenant.ID).Delete(&models.TenantRole{}).Error; err != nil {
			return fmt.Errorf("delete tenant roles: %w", err)
		}
		if err := tx.Delete(tenant).Error; err != nil {
			return fmt.Errorf("delete tenant: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tenant service: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant.delete",
		Resource: tenant.ID,
		Result:   "success",
		Metadata: map[string]any{"code": tenant.Code},
	})

	return nil
}

func (s *TenantService) loadTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.WithContext(ctx).First(&tenant, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant service: load tenant: %w", err)
	}
	return &tenant, nil
}
