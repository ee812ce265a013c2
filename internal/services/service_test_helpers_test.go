package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/database/testutil"
	"github.com/argussec/argus/internal/models"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func createTestTenant(t *testing.T, db *gorm.DB, id string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		BaseModel: models.BaseModel{ID: id},
		Code:      id,
		Name:      id,
		IsActive:  true,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}
