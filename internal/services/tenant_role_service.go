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

var (
	// ErrTenantNotFound indicates the requested tenant does not exist.
	ErrTenantNotFound = apperrors.New("TENANT_NOT_FOUND", "Tenant not found", http.StatusNotFound)
	// ErrTenantRoleNotFound indicates the requested tenant role does not exist.
	ErrTenantRoleNotFound = apperrors.New("TENANT_ROLE_NOT_FOUND", "Tenant role not found", http.StatusNotFound)
)

// CreateTenantRoleInput captures new tenant role metadata.
type CreateTenantRoleInput struct {
	Name        string
	Description string
}

// UpdateTenantRoleInput describes mutable tenant role fields.
type UpdateTenantRoleInput struct {
	Name        *string
	Description *string
}

// TenantRoleService manages roles scoped to one tenant. Every lookup is
// keyed by tenant id first; roles of other tenants are unreachable.
type TenantRoleService struct {
	db           *gorm.DB
	projector    *authz.RoleProjector
	auditService *AuditService
}

// NewTenantRoleService constructs a TenantRoleService instance.
func NewTenantRoleService(db *gorm.DB, auditService *AuditService) (*TenantRoleService, error) {
	if db == nil {
		return nil, errors.New("tenant role service: db is required")
	}
	projector, err := authz.NewRoleProjector(db)
	if err != nil {
		return nil, err
	}
	return &TenantRoleService{
		db:           db,
		projector:    projector,
		auditService: auditService,
	}, nil
}

// List returns one projected page of the tenant's roles.
func (s *TenantRoleService) List(ctx context.Context, tenantID string, opts ListOptions) (*PageResult[authz.RoleView], error) {
	ctx = ensureContext(ctx)
	opts.normalise()

	if err := s.ensureTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.TenantRole{}).Where("tenant_id = ?", tenantID)
	if opts.Search != "" {
		query = query.Where("name LIKE ?", "%"+opts.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("tenant role service: count roles: %w", err)
	}

	sortable := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}
	query = applySort(query, opts, sortable, "name ASC")

	var roles []models.TenantRole
	if err := query.Offset(opts.offset()).Limit(opts.PageSize).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("tenant role service: list roles: %w", err)
	}

	views, err := s.projector.ProjectTenantRoles(ctx, roles)
	if err != nil {
		return nil, err
	}

	return &PageResult[authz.RoleView]{
		Items:      views,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}

// Get returns the projection of a single tenant role.
func (s *TenantRoleService) Get(ctx context.Context, tenantID, id string) (*authz.RoleView, error) {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	views, err := s.projector.ProjectTenantRoles(ctx, []models.TenantRole{*role})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create registers a new role inside the tenant.
func (s *TenantRoleService) Create(ctx context.Context, actor authz.Principal, tenantID string, input CreateTenantRoleInput) (*models.TenantRole, error) {
	ctx = ensureContext(ctx)

	if err := s.ensureTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	role := &models.TenantRole{
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("role name already exists in tenant")
		}
		return nil, fmt.Errorf("tenant role service: create role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_role.create",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "name": role.Name},
	})

	return role, nil
}

// Update modifies tenant role metadata. System roles are read-only.
func (s *TenantRoleService) Update(ctx context.Context, actor authz.Principal, tenantID, id string, input UpdateTenantRoleInput) (*models.TenantRole, error) {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, ErrSystemRoleImmutable
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" && name != role.Name {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) == 0 {
		return role, nil
	}

	if err := s.db.WithContext(ctx).Model(role).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("role name already exists in tenant")
		}
		return nil, fmt.Errorf("tenant role service: update role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_role.update",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "updates": updates},
	})

	return role, nil
}

// Delete soft-deletes a tenant role.
func (s *TenantRoleService) Delete(ctx context.Context, actor authz.Principal, tenantID, id string) error {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRoleImmutable
	}

	if err := s.db.WithContext(ctx).Delete(role).Error; err != nil {
		return fmt.Errorf("tenant role service: delete role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_role.delete",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "name": role.Name},
	})

	return nil
}

// AssignPermissions replaces the role's permission set with the supplied
// tenant-namespace permission ids. Platform permission ids are unknown here.
func (s *TenantRoleService) AssignPermissions(ctx context.Context, actor authz.Principal, tenantID, id string, permissionIDs []string) error {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRoleImmutable
	}

	ids := normaliseIDs(permissionIDs)

	var perms []models.TenantPermission
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
			return fmt.Errorf("tenant role service: load permissions: %w", err)
		}
		if len(perms) != len(ids) {
			return ErrUnknownPermission
		}
	}

	if err := s.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms); err != nil {
		return fmt.Errorf("tenant role service: assign permissions: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "tenant_role.assign_permissions",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"tenant_id": tenantID, "permission_ids": ids},
	})

	return nil
}

// ListPermissions returns the tenant permission vocabulary with display detail.
func (s *TenantRoleService) ListPermissions(ctx context.Context) ([]authz.PermissionDetail, error) {
	ctx = ensureContext(ctx)

	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.TenantPermission{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("tenant role service: list permissions: %w", err)
	}

	grants, err := authz.NewGrantStore(s.db)
	if err != nil {
		return nil, err
	}
	details, err := grants.ResourceActionDetail(ctx, ids, authz.ScopeTenant)
	if err != nil {
		return nil, err
	}

	out := make([]authz.PermissionDetail, 0, len(details))
	for _, detail := range details {
		out = append(out, detail)
	}
	sortPermissionDetails(out)
	return out, nil
}

func (s *TenantRoleService) ensureTenant(ctx context.Context, tenantID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", strings.TrimSpace(tenantID)).Count(&count).Error; err != nil {
		return fmt.Errorf("tenant role service: check tenant: %w", err)
	}
	if count == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (s *TenantRoleService) loadRole(ctx context.Context, tenantID, id string) (*models.TenantRole, error) {
	var role models.TenantRole
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		First(&role, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant role service: load role: %w", err)
	}
	return &role, nil
}
