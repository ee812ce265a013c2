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
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
	// ErrSystemRoleImmutable rejects mutations of built-in roles.
	ErrSystemRoleImmutable = apperrors.New("SYSTEM_ROLE_IMMUTABLE", "System roles cannot be modified", http.StatusForbidden)
	// ErrUnknownPermission signals a permission id outside the platform namespace.
	ErrUnknownPermission = apperrors.New("UNKNOWN_PERMISSION", "Unknown permission id", http.StatusBadRequest)
)

// CreateRoleInput captures new role metadata.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput describes mutable role fields.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// RoleService manages platform roles and their permission assignments.
type RoleService struct {
	db           *gorm.DB
	projector    *authz.RoleProjector
	auditService *AuditService
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(db *gorm.DB, auditService *AuditService) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	projector, err := authz.NewRoleProjector(db)
	if err != nil {
		return nil, err
	}
	return &RoleService{
		db:           db,
		projector:    projector,
		auditService: auditService,
	}, nil
}

// List returns one projected page of roles. Projection runs one grant
// batch for the whole page.
func (s *RoleService) List(ctx context.Context, opts ListOptions) (*PageResult[authz.RoleView], error) {
	ctx = ensureContext(ctx)
	opts.normalise()

	query := s.db.WithContext(ctx).Model(&models.Role{})
	if opts.Search != "" {
		query = query.Where("name LIKE ?", "%"+opts.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("role service: count roles: %w", err)
	}

	sortable := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}
	query = applySort(query, opts, sortable, "name ASC")

	var roles []models.Role
	if err := query.Offset(opts.offset()).Limit(opts.PageSize).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("role service: list roles: %w", err)
	}

	views, err := s.projector.ProjectRoles(ctx, roles)
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

// Get returns the projection of a single role.
func (s *RoleService) Get(ctx context.Context, id string) (*authz.RoleView, error) {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.projector.ProjectRoles(ctx, []models.Role{*role})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create registers a new role.
func (s *RoleService) Create(ctx context.Context, actor authz.Principal, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	role := &models.Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("role name already exists")
		}
		return nil, fmt.Errorf("role service: create role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "role.create",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"name": role.Name},
	})

	return role, nil
}

// Update modifies role metadata. System roles are read-only.
func (s *RoleService) Update(ctx context.Context, actor authz.Principal, id string, input UpdateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, id)
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
			return nil, apperrors.NewBadRequest("role name already exists")
		}
		return nil, fmt.Errorf("role service: update role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "role.update",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"updates": updates},
	})

	return role, nil
}

// Delete soft-deletes a role. Grants through it stop resolving immediately.
func (s *RoleService) Delete(ctx context.Context, actor authz.Principal, id string) error {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRoleImmutable
	}

	if err := s.db.WithContext(ctx).Delete(role).Error; err != nil {
		return fmt.Errorf("role service: delete role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "role.delete",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"name": role.Name},
	})

	return nil
}

// AssignPermissions replaces the role's permission set with the supplied
// platform permission ids. Unknown ids reject the whole request.
func (s *RoleService) AssignPermissions(ctx context.Context, actor authz.Principal, id string, permissionIDs []string) error {
	ctx = ensureContext(ctx)

	role, err := s.loadRole(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRoleImmutable
	}

	ids := normaliseIDs(permissionIDs)

	var perms []models.Permission
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
			return fmt.Errorf("role service: load permissions: %w", err)
		}
		if len(perms) != len(ids) {
			return ErrUnknownPermission
		}
	}

	if err := s.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms); err != nil {
		return fmt.Errorf("role service: assign permissions: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "role.assign_permissions",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"permission_ids": ids},
	})

	return nil
}

// ListPermissions returns the full platform permission vocabulary with
// display detail, for assignment UIs.
func (s *RoleService) ListPermissions(ctx context.Context) ([]authz.PermissionDetail, error) {
	ctx = ensureContext(ctx)

	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Permission{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("role service: list permissions: %w", err)
	}

	grants, err := authz.NewGrantStore(s.db)
	if err != nil {
		return nil, err
	}
	details, err := grants.ResourceActionDetail(ctx, ids, authz.ScopePlatform)
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

func (s *RoleService) loadRole(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	err := s.db.WithContext(ctx).First(&role, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("role service: load role: %w", err)
	}
	return &role, nil
}
