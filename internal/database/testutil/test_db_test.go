package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argussec/argus/internal/models"
)

func TestMustOpenTestDBBare(t *testing.T) {
	db := MustOpenTestDB(t)

	require.False(t, db.Migrator().HasTable(&models.User{}))
}

func TestMustOpenTestDBWithAutoMigrate(t *testing.T) {
	db := MustOpenTestDB(t, WithAutoMigrate())

	require.True(t, db.Migrator().HasTable(&models.User{}))
	require.True(t, db.Migrator().HasTable(&models.TenantPermission{}))

	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.Zero(t, roles)
}

func TestMustOpenTestDBWithSeedData(t *testing.T) {
	db := MustOpenTestDB(t, WithSeedData())

	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.EqualValues(t, 2, roles)
}
