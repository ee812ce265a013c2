package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// SeedData populates the authorization reference data: the permission
// vocabulary in both namespaces, navigation page groups and pages, the
// page-permission links, and the built-in system roles.
func SeedData(db *gorm.DB) error {
	if err := seedVocabulary(db); err != nil {
		return err
	}
	if err := seedPermissions(db); err != nil {
		return err
	}
	if err := seedNavigation(db); err != nil {
		return err
	}
	return seedRoles(db)
}

var seedActions = []models.Action{
	{Code: "READ", Name: "Read"},
	{Code: "CREATE", Name: "Create"},
	{Code: "UPDATE", Name: "Update"},
	{Code: "DELETE", Name: "Delete"},
}

var seedResources = []models.Resource{
	{Code: "THREAT_ANALYTICS", Name: "Threat Analytics"},
	{Code: "THREAT_EVENT", Name: "Threat Events"},
	{Code: "MALWARE_FAMILY", Name: "Malware Families"},
	{Code: "PROTOCOL", Name: "Protocols"},
	{Code: "ASN_REGISTRY", Name: "ASN Registries"},
	{Code: "COUNTRY", Name: "Countries"},
	{Code: "ROLE", Name: "Roles"},
	{Code: "USER", Name: "Users"},
	{Code: "TENANT", Name: "Tenants"},
	{Code: "TENANT_ROLE", Name: "Tenant Roles"},
	{Code: "TENANT_USER", Name: "Tenant Users"},
	{Code: "TENANT_ANALYTICS", Name: "Tenant Analytics"},
	{Code: "TENANT_THREAT_EVENT", Name: "Tenant Threat Events"},
	{Code: "AUDIT_LOG", Name: "Audit Logs"},
}

// platformPermissionPairs lists ACTION, RESOURCE pairs in the platform
// namespace. Tenant-namespace pairs are declared separately; the two sets
// are independent even where the codes coincide.
var platformPermissionPairs = [][2]string{
	{"READ", "THREAT_ANALYTICS"},
	{"READ", "THREAT_EVENT"},
	{"READ", "MALWARE_FAMILY"},
	{"READ", "PROTOCOL"},
	{"READ", "ASN_REGISTRY"},
	{"READ", "COUNTRY"},
	{"READ", "ROLE"},
	{"CREATE", "ROLE"},
	{"UPDATE", "ROLE"},
	{"DELETE", "ROLE"},
	{"READ", "USER"},
	{"CREATE", "USER"},
	{"UPDATE", "USER"},
	{"DELETE", "USER"},
	{"READ", "TENANT"},
	{"CREATE", "TENANT"},
	{"UPDATE", "TENANT"},
	{"DELETE", "TENANT"},
	{"READ", "TENANT_ROLE"},
	{"CREATE", "TENANT_ROLE"},
	{"UPDATE", "TENANT_ROLE"},
	{"DELETE", "TENANT_ROLE"},
	{"READ", "TENANT_USER"},
	{"CREATE", "TENANT_USER"},
	{"UPDATE", "TENANT_USER"},
	{"DELETE", "TENANT_USER"},
	{"READ", "TENANT_ANALYTICS"},
	{"READ", "TENANT_THREAT_EVENT"},
	{"READ", "AUDIT_LOG"},
}

var tenantPermissionPairs = [][2]string{
	{"READ", "THREAT_ANALYTICS"},
	{"READ", "THREAT_EVENT"},
	{"READ", "ROLE"},
	{"CREATE", "ROLE"},
	{"UPDATE", "ROLE"},
	{"DELETE", "ROLE"},
	{"READ", "TENANT_USER"},
	{"CREATE", "TENANT_USER"},
	{"UPDATE", "TENANT_USER"},
	{"DELETE", "TENANT_USER"},
}

func seedVocabulary(db *gorm.DB) error {
	for _, action := range seedActions {
		if err := db.Where(models.Action{Code: action.Code}).Attrs(action).FirstOrCreate(&models.Action{}).Error; err != nil {
			return fmt.Errorf("seed action %s: %w", action.Code, err)
		}
	}
	for _, resource := range seedResources {
		if err := db.Where(models.Resource{Code: resource.Code}).Attrs(resource).FirstOrCreate(&models.Resource{}).Error; err != nil {
			return fmt.Errorf("seed resource %s: %w", resource.Code, err)
		}
	}
	return nil
}

func seedPermissions(db *gorm.DB) error {
	for _, pair := range platformPermissionPairs {
		perm := models.Permission{ActionCode: pair[0], ResourceCode: pair[1]}
		if err := db.Where(perm).FirstOrCreate(&models.Permission{}).Error; err != nil {
			return fmt.Errorf("seed permission %s:%s: %w", pair[0], pair[1], err)
		}
	}
	for _, pair := range tenantPermissionPairs {
		perm := models.TenantPermission{ActionCode: pair[0], ResourceCode: pair[1]}
		if err := db.Where(perm).FirstOrCreate(&models.TenantPermission{}).Error; err != nil {
			return fmt.Errorf("seed tenant permission %s:%s: %w", pair[0], pair[1], err)
		}
	}
	return nil
}

var seedPageGroups = []models.PageGroup{
	{Code: "DASHBOARD", Name: "Dashboard", Icon: "dashboard"},
	{Code: "THREAT_ANALYTICS", Name: "Threat Analytics", Icon: "activity"},
	{Code: "THREAT_EVENTS", Name: "Threat Events", Icon: "pulse"},
	{Code: "NETWORK", Name: "Network Intelligence", Icon: "network"},
	{Code: "GEO", Name: "Geography", Icon: "globe"},
	{Code: "TENANT_ADMIN", Name: "Tenant Administration", Icon: "building"},
	{Code: "USER_ADMIN", Name: "Users & Roles", Icon: "users"},
	{Code: "TENANT_ANALYTICS", Name: "Tenant Analytics", Icon: "activity"},
	{Code: "TENANT_SECURITY", Name: "Tenant Security", Icon: "users-cog"},
}

type seedPage struct {
	Code       string
	Name       string
	Path       string
	Group      string
	Permission [2]string // platform ACTION, RESOURCE; empty action means no platform link
	TenantPerm [2]string // tenant-namespace ACTION, RESOURCE
}

var seedPages = []seedPage{
	{Code: "DASHBOARD_HOME", Name: "Dashboard", Path: "/dashboard", Group: "DASHBOARD", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TA_OVERVIEW", Name: "Overview", Path: "/threat-analytics/overview", Group: "THREAT_ANALYTICS", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TA_SUMMARY", Name: "Summary", Path: "/threat-analytics/summary", Group: "THREAT_ANALYTICS", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TA_TIMELINE", Name: "Timeline", Path: "/threat-analytics/timeline", Group: "THREAT_ANALYTICS", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TA_PROTOCOL_DISTRIBUTION", Name: "Protocol Distribution", Path: "/threat-analytics/protocols/distribution", Group: "THREAT_ANALYTICS", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TA_TOP_ASNS", Name: "Top ASNs", Path: "/threat-analytics/asns/top", Group: "THREAT_ANALYTICS", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TA_TOP_SOURCE_COUNTRIES", Name: "Top Source Countries", Path: "/threat-analytics/countries/source/top", Group: "THREAT_ANALYTICS", Permission: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TE_LIST", Name: "Threat Events", Path: "/threat-events", Group: "THREAT_EVENTS", Permission: [2]string{"READ", "THREAT_EVENT"}},
	{Code: "NET_PROTOCOLS", Name: "Protocols", Path: "/network/protocols", Group: "NETWORK", Permission: [2]string{"READ", "PROTOCOL"}},
	{Code: "NET_ASN_REGISTRIES", Name: "ASN Registries", Path: "/network/asn-registries", Group: "NETWORK", Permission: [2]string{"READ", "ASN_REGISTRY"}},
	{Code: "GEO_COUNTRIES", Name: "Countries", Path: "/geo/countries", Group: "GEO", Permission: [2]string{"READ", "COUNTRY"}},
	{Code: "TEN_TENANTS", Name: "Tenants", Path: "/tenants", Group: "TENANT_ADMIN", Permission: [2]string{"READ", "TENANT"}},
	{Code: "TEN_TENANT_ROLES", Name: "Tenant Roles", Path: "/tenants/{id}/roles", Group: "TENANT_ADMIN", Permission: [2]string{"READ", "TENANT_ROLE"}},
	{Code: "UR_USERS", Name: "Users", Path: "/users", Group: "USER_ADMIN", Permission: [2]string{"READ", "USER"}},
	{Code: "UR_ROLES", Name: "Roles", Path: "/roles", Group: "USER_ADMIN", Permission: [2]string{"READ", "ROLE"}},
	{Code: "TTA_OVERVIEW", Name: "Tenant Overview", Path: "/tenants/{tenantId}/analytics/overview", Group: "TENANT_ANALYTICS", TenantPerm: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TTA_TIMELINE", Name: "Tenant Timeline", Path: "/tenants/{tenantId}/analytics/timeline", Group: "TENANT_ANALYTICS", TenantPerm: [2]string{"READ", "THREAT_ANALYTICS"}},
	{Code: "TD_THREAT_EVENTS", Name: "Tenant Threat Events", Path: "/tenants/{tenantId}/threat-events", Group: "TENANT_ANALYTICS", TenantPerm: [2]string{"READ", "THREAT_EVENT"}},
	{Code: "TS_ROLES", Name: "Tenant Roles", Path: "/tenants/{tenantId}/roles", Group: "TENANT_SECURITY", TenantPerm: [2]string{"READ", "ROLE"}},
	{Code: "TS_USERS", Name: "Tenant Users", Path: "/tenants/{tenantId}/users", Group: "TENANT_SECURITY", TenantPerm: [2]string{"READ", "TENANT_USER"}},
}

func seedNavigation(db *gorm.DB) error {
	groups := make(map[string]string, len(seedPageGroups))
	for _, group := range seedPageGroups {
		var row models.PageGroup
		if err := db.Where(models.PageGroup{Code: group.Code}).Attrs(group).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed page group %s: %w", group.Code, err)
		}
		groups[group.Code] = row.ID
	}

	for _, page := range seedPages {
		groupID := groups[page.Group]
		var row models.Page
		attrs := models.Page{
			Code: page.Code,
			Name: page.Name,
			Path: page.Path,
		}
		if groupID != "" {
			attrs.PageGroupID = &groupID
		}
		if err := db.Where(models.Page{Code: page.Code}).Attrs(attrs).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed page %s: %w", page.Code, err)
		}

		if page.Permission[0] != "" {
			var perm models.Permission
			if err := db.Where(models.Permission{ActionCode: page.Permission[0], ResourceCode: page.Permission[1]}).First(&perm).Error; err != nil {
				return fmt.Errorf("seed page %s: missing permission %s:%s: %w", page.Code, page.Permission[0], page.Permission[1], err)
			}
			if err := db.Model(&row).Association("Permissions").Append(&perm); err != nil {
				return fmt.Errorf("seed page %s: link permission: %w", page.Code, err)
			}
		}
		if page.TenantPerm[0] != "" {
			var perm models.TenantPermission
			if err := db.Where(models.TenantPermission{ActionCode: page.TenantPerm[0], ResourceCode: page.TenantPerm[1]}).First(&perm).Error; err != nil {
				return fmt.Errorf("seed page %s: missing tenant permission %s:%s: %w", page.Code, page.TenantPerm[0], page.TenantPerm[1], err)
			}
			if err := db.Model(&row).Association("TenantPermissions").Append(&perm); err != nil {
				return fmt.Errorf("seed page %s: link tenant permission: %w", page.Code, err)
			}
		}
	}

	return nil
}

func seedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{Name: "Administrator", Description: "Full platform access", IsSystem: true},
		{Name: "Analyst", Description: "Read-only threat analytics access", IsSystem: true},
	}

	for _, role := range roles {
		if err := db.Where(models.Role{Name: role.Name}).Attrs(role).FirstOrCreate(&models.Role{}).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}

	// The administrator role holds every platform permission.
	var admin models.Role
	if err := db.First(&admin, "name = ?", "Administrator").Error; err != nil {
		return err
	}
	var allPerms []models.Permission
	if err := db.Find(&allPerms).Error; err != nil {
		return err
	}
	if len(allPerms) > 0 {
		if err := db.Model(&admin).Association("Permissions").Replace(allPerms); err != nil {
			return fmt.Errorf("seed administrator grants: %w", err)
		}
	}

	var analyst models.Role
	if err := db.First(&analyst, "name = ?", "Analyst").Error; err != nil {
		return err
	}
	var readPerms []models.Permission
	if err := db.Where("action_code = ? AND resource_code IN ?", "READ", []string{"THREAT_ANALYTICS", "THREAT_EVENT", "MALWARE_FAMILY", "PROTOCOL", "ASN_REGISTRY", "COUNTRY"}).Find(&readPerms).Error; err != nil {
		return err
	}
	if len(readPerms) > 0 {
		if err := db.Model(&analyst).Association("Permissions").Replace(readPerms); err != nil {
			return fmt.Errorf("seed analyst grants: %w", err)
		}
	}

	return nil
}
