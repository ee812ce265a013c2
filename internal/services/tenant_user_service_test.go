package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
)

func TestTenantUserServiceLifecycle(t *testing.T) {
	db := openServiceTestDB(t)
	createTestTenant(t, db, "tenant-1")

	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)

	userSvc, err := NewTenantUserService(db, auditSvc)
	require.NoError(t, err)

	ctx := context.Background()
	actor := authz.Principal{UserID: "operator-1"}

	user, err := userSvc.Create(ctx, actor, "tenant-1", CreateTenantUserInput{
		Username: "tuser",
		Email:    "tuser@tenant.example.com",
		Password: "tuser-pass-1",
		Name:     "Tenant User",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "tenant-1", user.TenantID)
	require.NotEqual(t, "tuser-pass-1", user.Password)

	suspended := true
	updated, err := userSvc.Update(ctx, actor, "tenant-1", user.ID, UpdateTenantUserInput{IsSuspended: &suspended})
	require.NoError(t, err)
	require.Equal(t, user.ID, updated.ID)

	var stored models.TenantUser
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.True(t, stored.IsSuspended)

	require.NoError(t, userSvc.Delete(ctx, actor, "tenant-1", user.ID))

	_, err = userSvc.Get(ctx, "tenant-1", user.ID)
	require.ErrorIs(t, err, ErrTenantUserNotFound)
}

func TestTenantUserServiceScopesByTenant(t *testing.T) {
	db := openServiceTestDB(t)
	createTestTenant(t, db, "tenant-1")
	createTestTenant(t, db, "tenant-2")

	userSvc, err := NewTenantUserService(db, nil)
	require.NoError(t, err)

	user := &models.TenantUser{TenantID: "tenant-1", Username: "tuser", Email: "tuser@tenant.example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	ctx := context.Background()

	// Accounts of other tenants are unreachable.
	_, err = userSvc.Get(ctx, "tenant-2", user.ID)
	require.ErrorIs(t, err, ErrTenantUserNotFound)

	// Unknown tenants are reported before any list runs.
	_, err = userSvc.List(ctx, "tenant-3", ListOptions{})
	require.ErrorIs(t, err, ErrTenantNotFound)

	page, err := userSvc.List(ctx, "tenant-1", ListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
}

func TestTenantUserServiceAssignRoles(t *testing.T) {
	db := openServiceTestDB(t)
	createTestTenant(t, db, "tenant-1")
	createTestTenant(t, db, "tenant-2")

	userSvc, err := NewTenantUserService(db, nil)
	require.NoError(t, err)

	user := &models.TenantUser{TenantID: "tenant-1", Username: "tuser", Email: "tuser@tenant.example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	own := &models.TenantRole{TenantID: "tenant-1", Name: "Readers"}
	require.NoError(t, db.Create(own).Error)
	foreign := &models.TenantRole{TenantID: "tenant-2", Name: "Readers"}
	require.NoError(t, db.Create(foreign).Error)

	ctx := context.Background()
	actor := authz.Principal{UserID: "operator-1"}

	// Roles of another tenant reject the whole request.
	err = userSvc.AssignRoles(ctx, actor, "tenant-1", user.ID, []string{own.ID, foreign.ID})
	require.ErrorIs(t, err, ErrUnknownRole)

	require.NoError(t, userSvc.AssignRoles(ctx, actor, "tenant-1", user.ID, []string{own.ID}))

	loaded, err := userSvc.Get(ctx, "tenant-1", user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)
	require.Equal(t, "Readers", loaded.Roles[0].Name)

	require.NoError(t, userSvc.AssignRoles(ctx, actor, "tenant-1", user.ID, nil))
	loaded, err = userSvc.Get(ctx, "tenant-1", user.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Roles)
}

func TestTenantUserServiceCreateWithRoles(t *testing.T) {
	db := openServiceTestDB(t)
	createTestTenant(t, db, "tenant-1")
	createTestTenant(t, db, "tenant-2")

	userSvc, err := NewTenantUserService(db, nil)
	require.NoError(t, err)

	role := &models.TenantRole{TenantID: "tenant-1", Name: "Readers"}
	require.NoError(t, db.Create(role).Error)
	foreign := &models.TenantRole{TenantID: "tenant-2", Name: "Writers"}
	require.NoError(t, db.Create(foreign).Error)

	ctx := context.Background()
	actor := authz.Principal{UserID: "operator-1"}

	user, err := userSvc.Create(ctx, actor, "tenant-1", CreateTenantUserInput{
		Username: "tuser",
		Email:    "tuser@tenant.example.com",
		Password: "tuser-pass-1",
		RoleIDs:  []string{role.ID},
	})
	require.NoError(t, err)

	loaded, err := userSvc.Get(ctx, "tenant-1", user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)

	// A role of another tenant fails before the account is created.
	_, err = userSvc.Create(ctx, actor, "tenant-1", CreateTenantUserInput{
		Username: "other",
		Email:    "other@tenant.example.com",
		Password: "other-pass-1",
		RoleIDs:  []string{foreign.ID},
	})
	require.ErrorIs(t, err, ErrUnknownRole)

	var count int64
	require.NoError(t, db.Model(&models.TenantUser{}).Where("username = ?", "other").Count(&count).Error)
	require.Zero(t, count)
}
