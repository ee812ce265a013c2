package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Principal is the identity extracted from a verified token. TenantID is
// set only for tenant users; this package never verifies credentials.
type Principal struct {
	UserID   string
	TenantID string
}

// Resolver answers allow/deny questions against the current grant data.
// It holds no cache and no lock; every check re-reads current state.
type Resolver struct {
	db *gorm.DB
}

// NewResolver constructs a permission resolver backed by the provided database.
func NewResolver(db *gorm.DB) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("authz resolver: db is required")
	}
	return &Resolver{db: db}, nil
}

// Allowed reports whether the principal holds the platform permission
// identified by permissionCode through any of its roles. Absence of a
// grant is a normal negative result, never an error. A malformed code is
// a non-match; an empty code is a programmer error.
func (r *Resolver) Allowed(ctx context.Context, p Principal, permissionCode string) (bool, error) {
	ctx = ensureContext(ctx)

	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return false, errors.New("authz resolver: principal user id is required")
	}
	if strings.TrimSpace(permissionCode) == "" {
		return false, errors.New("authz resolver: permission code is required")
	}

	code, ok := ParseCode(permissionCode)
	if !ok {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id AND roles.deleted_at IS NULL").
		Joins("JOIN role_permissions ON role_permissions.role_id = user_roles.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id AND permissions.deleted_at IS NULL").
		Where("user_roles.user_id = ?", userID).
		Where("permissions.action_code = ? AND permissions.resource_code = ?", code.Action, code.Resource).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("authz resolver: platform check: %w", err)
	}

	return count > 0, nil
}

// AllowedInTenant applies the tenant-first, platform-fallback order:
//
//  1. the tenant path is attempted only when the principal's tenant claim
//     matches tenantID (a mismatch is a non-match, not an error);
//  2. a tenant-namespace grant of tenantCode scoped to that tenant allows;
//  3. otherwise the distinct platformCode is checked against the
//     principal's platform roles.
//
// The two codes are never interchanged.
func (r *Resolver) AllowedInTenant(ctx context.Context, p Principal, tenantCode, platformCode, tenantID string) (bool, error) {
	ctx = ensureContext(ctx)

	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return false, errors.New("authz resolver: principal user id is required")
	}
	if strings.TrimSpace(tenantCode) == "" || strings.TrimSpace(platformCode) == "" {
		return false, errors.New("authz resolver: tenant and platform permission codes are required")
	}

	tenantID = strings.TrimSpace(tenantID)
	if tenantID != "" && p.TenantID == tenantID {
		allowed, err := r.tenantGrantExists(ctx, userID, tenantCode, tenantID)
		if err != nil {
			return false, err
		}
		if allowed {
			return true, nil
		}
	}

	return r.Allowed(ctx, p, platformCode)
}

func (r *Resolver) tenantGrantExists(ctx context.Context, userID, tenantCode, tenantID string) (bool, error) {
	code, ok := ParseCode(tenantCode)
	if !ok {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table("tenant_user_roles").
		Joins("JOIN tenant_roles ON tenant_roles.id = tenant_user_roles.tenant_role_id AND tenant_roles.deleted_at IS NULL").
		Joins("JOIN tenant_role_permissions ON tenant_role_permissions.tenant_role_id = tenant_user_roles.tenant_role_id").
		Joins("JOIN tenant_permissions ON tenant_permissions.id = tenant_role_permissions.tenant_permission_id AND tenant_permissions.deleted_at IS NULL").
		Where("tenant_user_roles.tenant_user_id = ?", userID).
		Where("tenant_roles.tenant_id = ?", tenantID).
		Where("tenant_permissions.action_code = ? AND tenant_permissions.resource_code = ?", code.Action, code.Resource).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("authz resolver: tenant check: %w", err)
	}

	return count > 0, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
