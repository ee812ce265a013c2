package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
	apperrors "github.com/argussec/argus/pkg/errors"
)

func TestIdentityServicePlatformProfile(t *testing.T) {
	db := openServiceTestDB(t)

	require.NoError(t, db.Create(&models.Action{Code: "READ", Name: "Read"}).Error)
	require.NoError(t, db.Create(&models.Resource{Code: "ROLE", Name: "Roles"}).Error)

	perm := &models.Permission{ActionCode: "READ", ResourceCode: "ROLE"}
	require.NoError(t, db.Create(perm).Error)

	group := &models.PageGroup{Code: "ADMIN", Name: "Administration"}
	require.NoError(t, db.Create(group).Error)
	page := &models.Page{Code: "ADMIN_ROLES", Name: "Roles", Path: "/admin/roles", PageGroupID: &group.ID}
	require.NoError(t, db.Create(page).Error)
	require.NoError(t, db.Model(page).Association("Permissions").Append(perm))

	role := &models.Role{Name: "Viewer"}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))

	user := &models.User{Username: "operator", Email: "op@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Association("Roles").Append(role))

	svc, err := NewIdentityService(db)
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), authz.Principal{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, "operator", profile.Username)
	require.Equal(t, []string{"Viewer"}, profile.Roles)
	require.Len(t, profile.Permissions, 1)
	require.Equal(t, "READ:ROLE", profile.Permissions[0].Code().String())
	require.Len(t, profile.PageGroups, 1)
	require.Equal(t, "ADMIN", profile.PageGroups[0].Code)
}

func TestIdentityServiceTenantProfile(t *testing.T) {
	db := openServiceTestDB(t)
	createTestTenant(t, db, "tenant-1")

	perm := &models.TenantPermission{ActionCode: "READ", ResourceCode: "ROLE"}
	require.NoError(t, db.Create(perm).Error)

	group := &models.PageGroup{Code: "TENANT_SECURITY", Name: "Tenant Security"}
	require.NoError(t, db.Create(group).Error)
	page := &models.Page{Code: "TS_ROLES", Name: "Roles", Path: "/tenants/{tenantId}/roles", PageGroupID: &group.ID}
	require.NoError(t, db.Create(page).Error)
	require.NoError(t, db.Model(page).Association("TenantPermissions").Append(perm))

	role := &models.TenantRole{TenantID: "tenant-1", Name: "Tenant Admin"}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))

	user := &models.TenantUser{TenantID: "tenant-1", Username: "tuser", Email: "tuser@tenant.example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Association("Roles").Append(role))

	svc, err := NewIdentityService(db)
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), authz.Principal{UserID: user.ID, TenantID: "tenant-1"})
	require.NoError(t, err)
	require.Equal(t, "tenant-1", profile.TenantID)
	require.Equal(t, []string{"Tenant Admin"}, profile.Roles)
	require.Len(t, profile.Permissions, 1)
	require.Len(t, profile.PageGroups, 1)
	require.Equal(t, "TENANT_SECURITY", profile.PageGroups[0].Code)

	// A claim for the wrong tenant does not resolve.
	_, err = svc.Profile(context.Background(), authz.Principal{UserID: user.ID, TenantID: "tenant-2"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestIdentityServiceUnknownSubject(t *testing.T) {
	db := openServiceTestDB(t)

	svc, err := NewIdentityService(db)
	require.NoError(t, err)

	_, err = svc.Profile(context.Background(), authz.Principal{UserID: "ghost"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
