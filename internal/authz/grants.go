package authz

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// Scope selects which permission namespace a lookup runs against. The two
// namespaces are never merged.
type Scope string

const (
	// ScopePlatform queries platform roles and permissions.
	ScopePlatform Scope = "platform"
	// ScopeTenant queries tenant roles and tenant permissions.
	ScopeTenant Scope = "tenant"
)

// PermissionDetail is a permission resolved to its display vocabulary.
// Resource/action names are blank when the vocabulary row is missing;
// partial reference data never fails a lookup.
type PermissionDetail struct {
	ID           string `json:"id"`
	ActionCode   string `json:"action_code"`
	ResourceCode string `json:"resource_code"`
	ActionName   string `json:"action_name"`
	ResourceName string `json:"resource_name"`
}

// Code composes the detail's canonical permission code.
func (d PermissionDetail) Code() Code {
	return Code{Action: d.ActionCode, Resource: d.ResourceCode}
}

// GrantStore exposes batched, read-only lookups over role-permission and
// page-permission links. All operations are set-at-a-time and tolerate
// empty input sets.
type GrantStore struct {
	db *gorm.DB
}

// NewGrantStore constructs a grant store backed by the provided database.
func NewGrantStore(db *gorm.DB) (*GrantStore, error) {
	if db == nil {
		return nil, errors.New("grant store: db is required")
	}
	return &GrantStore{db: db}, nil
}

type roleGrantRow struct {
	RoleID       string
	PermissionID string
}

// PermissionsForRoles returns the permission ids attached to each of the
// supplied roles in the given scope.
func (s *GrantStore) PermissionsForRoles(ctx context.Context, roleIDs []string, scope Scope) (map[string][]string, error) {
	ctx = ensureContext(ctx)

	out := make(map[string][]string, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	query := s.db.WithContext(ctx)
	switch scope {
	case ScopeTenant:
		query = query.Table("tenant_role_permissions").
			Select("tenant_role_id AS role_id, tenant_permission_id AS permission_id").
			Where("tenant_role_id IN ?", roleIDs)
	default:
		query = query.Table("role_permissions").
			Select("role_id, permission_id").
			Where("role_id IN ?", roleIDs)
	}

	var rows []roleGrantRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("grant store: permissions for roles: %w", err)
	}

	for _, row := range rows {
		out[row.RoleID] = append(out[row.RoleID], row.PermissionID)
	}
	return out, nil
}

// ResourceActionDetail resolves permission ids to their action/resource
// detail. Unknown permission ids are skipped, as are missing vocabulary
// rows, so a stale link cannot fail a projection.
func (s *GrantStore) ResourceActionDetail(ctx context.Context, permissionIDs []string, scope Scope) (map[string]PermissionDetail, error) {
	ctx = ensureContext(ctx)

	out := make(map[string]PermissionDetail, len(permissionIDs))
	if len(permissionIDs) == 0 {
		return out, nil
	}

	type permRow struct {
		ID           string
		ActionCode   string
		ResourceCode string
	}

	var perms []permRow
	query := s.db.WithContext(ctx)
	switch scope {
	case ScopeTenant:
		query = query.Model(&models.TenantPermission{})
	default:
		query = query.Model(&models.Permission{})
	}
	if err := query.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("grant store: load permissions: %w", err)
	}

	actionCodes := make([]string, 0, len(perms))
	resourceCodes := make([]string, 0, len(perms))
	for _, perm := range perms {
		actionCodes = append(actionCodes, perm.ActionCode)
		resourceCodes = append(resourceCodes, perm.ResourceCode)
	}

	actionNames, err := s.vocabularyNames(ctx, &models.Action{}, actionCodes)
	if err != nil {
		return nil, err
	}
	resourceNames, err := s.vocabularyNames(ctx, &models.Resource{}, resourceCodes)
	if err != nil {
		return nil, err
	}

	for _, perm := range perms {
		out[perm.ID] = PermissionDetail{
			ID:           perm.ID,
			ActionCode:   perm.ActionCode,
			ResourceCode: perm.ResourceCode,
			ActionName:   actionNames[perm.ActionCode],
			ResourceName: resourceNames[perm.ResourceCode],
		}
	}
	return out, nil
}

type pageGrantRow struct {
	PermissionID string
	PageID       string
}

// PagesForPermissions returns the page ids unlocked by each permission id
// in the given scope.
func (s *GrantStore) PagesForPermissions(ctx context.Context, permissionIDs []string, scope Scope) (map[string][]string, error) {
	ctx = ensureContext(ctx)

	out := make(map[string][]string, len(permissionIDs))
	if len(permissionIDs) == 0 {
		return out, nil
	}

	query := s.db.WithContext(ctx)
	switch scope {
	case ScopeTenant:
		query = query.Table("page_tenant_permissions").
			Select("tenant_permission_id AS permission_id, page_id").
			Where("tenant_permission_id IN ?", permissionIDs)
	default:
		query = query.Table("page_permissions").
			Select("permission_id, page_id").
			Where("permission_id IN ?", permissionIDs)
	}

	var rows []pageGrantRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("grant store: pages for permissions: %w", err)
	}

	for _, row := range rows {
		out[row.PermissionID] = append(out[row.PermissionID], row.PageID)
	}
	return out, nil
}

func (s *GrantStore) vocabularyNames(ctx context.Context, model any, codes []string) (map[string]string, error) {
	names := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return names, nil
	}

	type vocabRow struct {
		Code string
		Name string
	}

	var rows []vocabRow
	if err := s.db.WithContext(ctx).Model(model).Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("grant store: load vocabulary: %w", err)
	}

	for _, row := range rows {
		names[row.Code] = row.Name
	}
	return names, nil
}
