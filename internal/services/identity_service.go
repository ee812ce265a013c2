package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
	apperrors "github.com/argussec/argus/pkg/errors"
)

// Profile is the authenticated subject's own view: identity, role names,
// resolved permissions, and the page-group tree those permissions unlock.
type Profile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id,omitempty"`

	Roles       []string                 `json:"roles"`
	Permissions []authz.PermissionDetail `json:"permissions"`
	PageGroups  []authz.PageGroupView    `json:"page_groups"`
}

// IdentityService resolves the current principal's profile and navigation.
type IdentityService struct {
	db     *gorm.DB
	grants *authz.GrantStore
	pages  *authz.PageTree
}

// NewIdentityService constructs an IdentityService instance.
func NewIdentityService(db *gorm.DB) (*IdentityService, error) {
	if db == nil {
		return nil, errors.New("identity service: db is required")
	}
	grants, err := authz.NewGrantStore(db)
	if err != nil {
		return nil, err
	}
	pages, err := authz.NewPageTree(db)
	if err != nil {
		return nil, err
	}
	return &IdentityService{db: db, grants: grants, pages: pages}, nil
}

// Profile builds the subject's profile. A tenant principal resolves in the
// tenant namespace, a platform principal in the platform namespace; the
// two never mix inside one profile.
func (s *IdentityService) Profile(ctx context.Context, principal authz.Principal) (*Profile, error) {
	ctx = ensureContext(ctx)

	if principal.TenantID != "" {
		return s.tenantProfile(ctx, principal)
	}
	return s.platformProfile(ctx, principal)
}

func (s *IdentityService) platformProfile(ctx context.Context, principal authz.Principal) (*Profile, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", principal.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("identity service: load user: %w", err)
	}

	profile := &Profile{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
	}

	roleIDs := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		profile.Roles = append(profile.Roles, role.Name)
		roleIDs = append(roleIDs, role.ID)
	}

	return s.finishProfile(ctx, profile, roleIDs, authz.ScopePlatform)
}

func (s *IdentityService) tenantProfile(ctx context.Context, principal authz.Principal) (*Profile, error) {
	var user models.TenantUser
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", principal.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("identity service: load tenant user: %w", err)
	}
	if user.TenantID != principal.TenantID {
		return nil, apperrors.ErrUnauthorized
	}

	profile := &Profile{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		TenantID: user.TenantID,
	}

	roleIDs := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		profile.Roles = append(profile.Roles, role.Name)
		roleIDs = append(roleIDs, role.ID)
	}

	return s.finishProfile(ctx, profile, roleIDs, authz.ScopeTenant)
}

func (s *IdentityService) finishProfile(ctx context.Context, profile *Profile, roleIDs []string, scope authz.Scope) (*Profile, error) {
	permissionsByRole, err := s.grants.PermissionsForRoles(ctx, roleIDs, scope)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var permissionIDs []string
	for _, ids := range permissionsByRole {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			permissionIDs = append(permissionIDs, id)
		}
	}

	details, err := s.grants.ResourceActionDetail(ctx, permissionIDs, scope)
	if err != nil {
		return nil, err
	}
	profile.Permissions = make([]authz.PermissionDetail, 0, len(details))
	for _, detail := range details {
		profile.Permissions = append(profile.Permissions, detail)
	}
	sortPermissionDetails(profile.Permissions)

	groups, err := s.pages.AccessiblePages(ctx, permissionIDs, scope)
	if err != nil {
		return nil, err
	}
	profile.PageGroups = groups

	return profile, nil
}
