package authz

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// RoleView is the full projection of one role: identity, resolved
// permission details, and the page-group tree those permissions unlock.
type RoleView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `json:"is_system"`
	TenantID    string `json:"tenant_id,omitempty"`

	Permissions []PermissionDetail `json:"permissions"`
	PageGroups  []PageGroupView    `json:"page_groups"`
}

// RoleProjector assembles role views for a page of roles using one batch
// of grant-store reads per page, never one query per role.
type RoleProjector struct {
	grants *GrantStore
	pages  *PageTree
}

// NewRoleProjector constructs a role projector over the given database.
func NewRoleProjector(db *gorm.DB) (*RoleProjector, error) {
	if db == nil {
		return nil, errors.New("role projector: db is required")
	}
	grants, err := NewGrantStore(db)
	if err != nil {
		return nil, err
	}
	pages, err := NewPageTree(db)
	if err != nil {
		return nil, err
	}
	return &RoleProjector{grants: grants, pages: pages}, nil
}

// ProjectRoles builds views for a page of platform roles.
func (p *RoleProjector) ProjectRoles(ctx context.Context, roles []models.Role) ([]RoleView, error) {
	identities := make([]roleIdentity, 0, len(roles))
	for _, role := range roles {
		identities = append(identities, roleIdentity{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			IsSystem:    role.IsSystem,
		})
	}
	return p.project(ctx, identities, ScopePlatform)
}

// ProjectTenantRoles builds views for a page of tenant roles.
func (p *RoleProjector) ProjectTenantRoles(ctx context.Context, roles []models.TenantRole) ([]RoleView, error) {
	identities := make([]roleIdentity, 0, len(roles))
	for _, role := range roles {
		identities = append(identities, roleIdentity{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			IsSystem:    role.IsSystem,
			TenantID:    role.TenantID,
		})
	}
	return p.project(ctx, identities, ScopeTenant)
}

type roleIdentity struct {
	ID          string
	Name        string
	Description string
	IsSystem    bool
	TenantID    string
}

func (p *RoleProjector) project(ctx context.Context, roles []roleIdentity, scope Scope) ([]RoleView, error) {
	ctx = ensureContext(ctx)

	roleIDs := make([]string, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID)
	}

	permissionsByRole, err := p.grants.PermissionsForRoles(ctx, roleIDs, scope)
	if err != nil {
		return nil, err
	}

	permissionIDs := unionIDs(permissionsByRole)
	details, err := p.grants.ResourceActionDetail(ctx, permissionIDs, scope)
	if err != nil {
		return nil, err
	}

	pagesByPermission, err := p.grants.PagesForPermissions(ctx, permissionIDs, scope)
	if err != nil {
		return nil, err
	}

	allPages := make(map[string]struct{})
	for _, pageIDs := range pagesByPermission {
		for _, id := range pageIDs {
			allPages[id] = struct{}{}
		}
	}
	catalog, err := p.pages.loadCatalog(ctx, allPages)
	if err != nil {
		return nil, err
	}

	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		rolePerms := permissionsByRole[role.ID]

		permDetails := make([]PermissionDetail, 0, len(rolePerms))
		reachable := make(map[string]struct{})
		for _, permID := range rolePerms {
			if detail, ok := details[permID]; ok {
				permDetails = append(permDetails, detail)
			}
			for _, pageID := range pagesByPermission[permID] {
				reachable[pageID] = struct{}{}
			}
		}
		sort.Slice(permDetails, func(i, j int) bool {
			if permDetails[i].ResourceCode != permDetails[j].ResourceCode {
				return permDetails[i].ResourceCode < permDetails[j].ResourceCode
			}
			return permDetails[i].ActionCode < permDetails[j].ActionCode
		})

		views = append(views, RoleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			IsSystem:    role.IsSystem,
			TenantID:    role.TenantID,
			Permissions: permDetails,
			PageGroups:  catalog.build(reachable),
		})
	}

	return views, nil
}

func unionIDs(byRole map[string][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ids := range byRole {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
