package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
)

func TestRoleServiceLifecycle(t *testing.T) {
	db := openServiceTestDB(t)
	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)

	roleSvc, err := NewRoleService(db, auditSvc)
	require.NoError(t, err)

	ctx := context.Background()
	actor := authz.Principal{UserID: "operator-1"}

	role, err := roleSvc.Create(ctx, actor, CreateRoleInput{
		Name:        "Analyst",
		Description: "Read-only analytics",
	})
	require.NoError(t, err)
	require.NotEmpty(t, role.ID)

	// Duplicate names are rejected.
	_, err = roleSvc.Create(ctx, actor, CreateRoleInput{Name: "Analyst"})
	require.Error(t, err)

	name := "Senior Analyst"
	updated, err := roleSvc.Update(ctx, actor, role.ID, UpdateRoleInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)

	require.NoError(t, roleSvc.Delete(ctx, actor, role.ID))

	_, err = roleSvc.Get(ctx, role.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRoleServiceProtectsSystemRoles(t *testing.T) {
	db := openServiceTestDB(t)
	roleSvc, err := NewRoleService(db, nil)
	require.NoError(t, err)

	system := &models.Role{Name: "Administrator", IsSystem: true}
	require.NoError(t, db.Create(system).Error)

	ctx := context.Background()
	actor := authz.Principal{UserID: "operator-1"}

	name := "Renamed"
	_, err = roleSvc.Update(ctx, actor, system.ID, UpdateRoleInput{Name: &name})
	require.ErrorIs(t, err, ErrSystemRoleImmutable)

	require.ErrorIs(t, roleSvc.Delete(ctx, actor, system.ID), ErrSystemRoleImmutable)
	require.ErrorIs(t, roleSvc.AssignPermissions(ctx, actor, system.ID, nil), ErrSystemRoleImmutable)
}

func TestRoleServiceAssignPermissions(t *testing.T) {
	db := openServiceTestDB(t)
	roleSvc, err := NewRoleService(db, nil)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Action{Code: "READ", Name: "Read"}).Error)
	require.NoError(t, db.Create(&models.Resource{Code: "ROLE", Name: "Roles"}).Error)

	perm := &models.Permission{ActionCode: "READ", ResourceCode: "ROLE"}
	require.NoError(t, db.Create(perm).Error)

	role := &models.Role{Name: "Viewer"}
	require.NoError(t, db.Create(role).Error)

	ctx := context.Background()
	actor := authz.Principal{UserID: "operator-1"}

	// Unknown ids reject the whole request.
	err = roleSvc.AssignPermissions(ctx, actor, role.ID, []string{perm.ID, "bogus"})
	require.ErrorIs(t, err, ErrUnknownPermission)

	require.NoError(t, roleSvc.AssignPermissions(ctx, actor, role.ID, []string{perm.ID, perm.ID}))

	view, err := roleSvc.Get(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, view.Permissions, 1)
	require.Equal(t, "READ:ROLE", view.Permissions[0].Code().String())

	// Replacing with an empty set clears the assignments.
	require.NoError(t, roleSvc.AssignPermissions(ctx, actor, role.ID, nil))
	view, err = roleSvc.Get(ctx, role.ID)
	require.NoError(t, err)
	require.Empty(t, view.Permissions)
}

func TestRoleServiceListPaginatesAndSearches(t *testing.T) {
	db := openServiceTestDB(t)
	roleSvc, err := NewRoleService(db, nil)
	require.NoError(t, err)

	for _, name := range []string{"Alpha", "Beta", "Gamma", "Alpha Two"} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	ctx := context.Background()

	page, err := roleSvc.List(ctx, ListOptions{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 4, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	require.Equal(t, "Alpha", page.Items[0].Name)
	require.Equal(t, "Alpha Two", page.Items[1].Name)

	page, err = roleSvc.List(ctx, ListOptions{Search: "Alpha"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	page, err = roleSvc.List(ctx, ListOptions{SortBy: "name", SortDesc: true, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, "Gamma", page.Items[0].Name)
}

func TestRoleServiceListPermissions(t *testing.T) {
	db := openServiceTestDB(t)
	roleSvc, err := NewRoleService(db, nil)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Permission{ActionCode: "READ", ResourceCode: "ROLE"}).Error)
	require.NoError(t, db.Create(&models.Permission{ActionCode: "CREATE", ResourceCode: "ROLE"}).Error)
	require.NoError(t, db.Create(&models.TenantPermission{ActionCode: "READ", ResourceCode: "ROLE"}).Error)

	details, err := roleSvc.ListPermissions(context.Background())
	require.NoError(t, err)
	// The tenant-namespace twin is not part of the platform vocabulary.
	require.Len(t, details, 2)
	require.Equal(t, "CREATE:ROLE", details[0].Code().String())
	require.Equal(t, "READ:ROLE", details[1].Code().String())
}
