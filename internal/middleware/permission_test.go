package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/database/testutil"
	"github.com/argussec/argus/internal/models"
)

func setupMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func grantPlatform(t *testing.T, db *gorm.DB, userID, action, resource string) {
	t.Helper()

	user := &models.User{
		BaseModel: models.BaseModel{ID: userID},
		Username:  userID,
		Email:     userID + "@example.com",
		Password:  "secret",
	}
	require.NoError(t, db.FirstOrCreate(user, "id = ?", userID).Error)

	perm := &models.Permission{ActionCode: action, ResourceCode: resource}
	require.NoError(t, db.Where(models.Permission{ActionCode: action, ResourceCode: resource}).FirstOrCreate(perm).Error)

	role := &models.Role{Name: userID + "-" + action + "-" + resource}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	require.NoError(t, db.Model(user).Association("Roles").Append(role))
}

func asPrincipal(p authz.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxPrincipalKey, p)
		c.Set(CtxUserIDKey, p.UserID)
		c.Next()
	}
}

func TestRequirePermissionWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)
	resolver, err := authz.NewResolver(db)
	require.NoError(t, err)

	req := authz.Requirement{Operation: "cases.read", Platform: "READ:CASE_FILE"}

	r := gin.New()
	r.GET("/secure", RequirePermission(resolver, req), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermissionAllowsAndDenies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)
	grantPlatform(t, db, "user-a", "READ", "CASE_FILE")

	resolver, err := authz.NewResolver(db)
	require.NoError(t, err)

	req := authz.Requirement{Operation: "cases.read", Platform: "READ:CASE_FILE"}

	r := gin.New()
	r.GET("/cases",
		asPrincipal(authz.Principal{UserID: "user-a"}),
		RequirePermission(resolver, req),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	r.GET("/cases-as-other",
		asPrincipal(authz.Principal{UserID: "user-b"}),
		RequirePermission(resolver, req),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cases", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cases-as-other", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireTenantPermissionFallsBackToPlatform(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)

	// The operator has no tenant grant, only the platform fallback.
	grantPlatform(t, db, "operator-1", "READ", "TENANT_REPORT")

	resolver, err := authz.NewResolver(db)
	require.NoError(t, err)

	req := authz.Requirement{
		Operation: "tenant_reports.list",
		Tenant:    "READ:REPORT",
		Platform:  "READ:TENANT_REPORT",
	}

	r := gin.New()
	r.GET("/tenants/:tenantId/reports",
		asPrincipal(authz.Principal{UserID: "operator-1"}),
		RequireTenantPermission(resolver, req, "tenantId"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenants/tenant-1/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTenantPermissionTenantGrant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)

	tenant := &models.Tenant{BaseModel: models.BaseModel{ID: "tenant-1"}, Code: "tenant-1", Name: "Tenant One"}
	require.NoError(t, db.Create(tenant).Error)

	user := &models.TenantUser{
		BaseModel: models.BaseModel{ID: "tuser-1"},
		TenantID:  "tenant-1",
		Username:  "tuser-1",
		Email:     "tuser-1@tenant.example.com",
		Password:  "secret",
	}
	require.NoError(t, db.Create(user).Error)

	perm := &models.TenantPermission{ActionCode: "READ", ResourceCode: "REPORT"}
	require.NoError(t, db.Create(perm).Error)

	role := &models.TenantRole{TenantID: "tenant-1", Name: "Report Reader"}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	require.NoError(t, db.Model(user).Association("Roles").Append(role))

	resolver, err := authz.NewResolver(db)
	require.NoError(t, err)

	req := authz.Requirement{
		Operation: "tenant_reports.list",
		Tenant:    "READ:REPORT",
		Platform:  "READ:TENANT_REPORT",
	}

	r := gin.New()
	r.GET("/tenants/:tenantId/reports",
		asPrincipal(authz.Principal{UserID: "tuser-1", TenantID: "tenant-1"}),
		RequireTenantPermission(resolver, req, "tenantId"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	// Matching claim and path tenant -> tenant grant allows.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenants/tenant-1/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
