package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argussec/argus/internal/models"
)

func TestGrantStoreEmptyInputs(t *testing.T) {
	db := setupAuthzTestDB(t)

	store, err := NewGrantStore(db)
	require.NoError(t, err)

	byRole, err := store.PermissionsForRoles(context.Background(), nil, ScopePlatform)
	require.NoError(t, err)
	require.Empty(t, byRole)

	details, err := store.ResourceActionDetail(context.Background(), []string{}, ScopeTenant)
	require.NoError(t, err)
	require.Empty(t, details)

	byPerm, err := store.PagesForPermissions(context.Background(), nil, ScopePlatform)
	require.NoError(t, err)
	require.Empty(t, byPerm)
}

func TestPermissionsForRoles(t *testing.T) {
	db := setupAuthzTestDB(t)

	read := &models.Permission{ActionCode: "READ", ResourceCode: "REPORT"}
	update := &models.Permission{ActionCode: "UPDATE", ResourceCode: "REPORT"}
	require.NoError(t, db.Create(read).Error)
	require.NoError(t, db.Create(update).Error)

	viewer := &models.Role{Name: "Viewer"}
	editor := &models.Role{Name: "Editor"}
	require.NoError(t, db.Create(viewer).Error)
	require.NoError(t, db.Create(editor).Error)
	require.NoError(t, db.Model(viewer).Association("Permissions").Append(read))
	require.NoError(t, db.Model(editor).Association("Permissions").Append(read, update))

	store, err := NewGrantStore(db)
	require.NoError(t, err)

	byRole, err := store.PermissionsForRoles(context.Background(), []string{viewer.ID, editor.ID, "missing-role"}, ScopePlatform)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{read.ID}, byRole[viewer.ID])
	require.ElementsMatch(t, []string{read.ID, update.ID}, byRole[editor.ID])
	require.NotContains(t, byRole, "missing-role")
}

func TestPermissionsForRolesTenantScope(t *testing.T) {
	db := setupAuthzTestDB(t)

	perm := &models.TenantPermission{ActionCode: "READ", ResourceCode: "REPORT"}
	require.NoError(t, db.Create(perm).Error)

	role := &models.TenantRole{TenantID: "tenant-1", Name: "Tenant Viewer"}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))

	store, err := NewGrantStore(db)
	require.NoError(t, err)

	byRole, err := store.PermissionsForRoles(context.Background(), []string{role.ID}, ScopeTenant)
	require.NoError(t, err)
	require.Equal(t, []string{perm.ID}, byRole[role.ID])

	// A tenant role id queried in the platform scope yields nothing.
	byRole, err = store.PermissionsForRoles(context.Background(), []string{role.ID}, ScopePlatform)
	require.NoError(t, err)
	require.Empty(t, byRole[role.ID])
}

func TestResourceActionDetail(t *testing.T) {
	db := setupAuthzTestDB(t)

	require.NoError(t, db.Create(&models.Action{Code: "READ", Name: "Read"}).Error)
	require.NoError(t, db.Create(&models.Resource{Code: "REPORT", Name: "Reports"}).Error)

	perm := &models.Permission{ActionCode: "READ", ResourceCode: "REPORT"}
	bare := &models.Permission{ActionCode: "EXPORT", ResourceCode: "REPORT"}
	require.NoError(t, db.Create(perm).Error)
	require.NoError(t, db.Create(bare).Error)

	store, err := NewGrantStore(db)
	require.NoError(t, err)

	details, err := store.ResourceActionDetail(context.Background(), []string{perm.ID, bare.ID, "missing-perm"}, ScopePlatform)
	require.NoError(t, err)
	require.Len(t, details, 2)

	detail := details[perm.ID]
	require.Equal(t, "READ", detail.ActionCode)
	require.Equal(t, "REPORT", detail.ResourceCode)
	require.Equal(t, "Read", detail.ActionName)
	require.Equal(t, "Reports", detail.ResourceName)
	require.Equal(t, "READ:REPORT", detail.Code().String())

	// Missing vocabulary rows leave names blank rather than failing.
	detail = details[bare.ID]
	require.Equal(t, "EXPORT", detail.ActionCode)
	require.Empty(t, detail.ActionName)
	require.Equal(t, "Reports", detail.ResourceName)

	require.NotContains(t, details, "missing-perm")
}

func TestResourceActionDetailKeepsNamespacesApart(t *testing.T) {
	db := setupAuthzTestDB(t)

	platform := &models.Permission{ActionCode: "READ", ResourceCode: "REPORT"}
	tenant := &models.TenantPermission{ActionCode: "READ", ResourceCode: "REPORT"}
	require.NoError(t, db.Create(platform).Error)
	require.NoError(t, db.Create(tenant).Error)

	store, err := NewGrantStore(db)
	require.NoError(t, err)

	details, err := store.ResourceActionDetail(context.Background(), []string{platform.ID}, ScopeTenant)
	require.NoError(t, err)
	require.NotContains(t, details, platform.ID)

	details, err = store.ResourceActionDetail(context.Background(), []string{tenant.ID}, ScopeTenant)
	require.NoError(t, err)
	require.Contains(t, details, tenant.ID)
}

func TestPagesForPermissions(t *testing.T) {
	db := setupAuthzTestDB(t)

	perm := &models.Permission{ActionCode: "READ", ResourceCode: "REPORT"}
	require.NoError(t, db.Create(perm).Error)

	overview := &models.Page{Code: "RPT_OVERVIEW", Name: "Overview", Path: "/reports/overview"}
	archive := &models.Page{Code: "RPT_ARCHIVE", Name: "Archive", Path: "/reports/archive"}
	require.NoError(t, db.Create(overview).Error)
	require.NoError(t, db.Create(archive).Error)
	require.NoError(t, db.Model(overview).Association("Permissions").Append(perm))
	require.NoError(t, db.Model(archive).Association("Permissions").Append(perm))

	store, err := NewGrantStore(db)
	require.NoError(t, err)

	byPerm, err := store.PagesForPermissions(context.Background(), []string{perm.ID}, ScopePlatform)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{overview.ID, archive.ID}, byPerm[perm.ID])

	// The same id queried in the tenant scope unlocks nothing.
	byPerm, err = store.PagesForPermissions(context.Background(), []string{perm.ID}, ScopeTenant)
	require.NoError(t, err)
	require.Empty(t, byPerm[perm.ID])
}

func TestNewGrantStoreRequiresDB(t *testing.T) {
	_, err := NewGrantStore(nil)
	require.Error(t, err)
}
