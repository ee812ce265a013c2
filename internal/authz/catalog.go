package authz

func init() {
	reqs := []Requirement{
		// Global analytics reads.
		{Operation: "analytics.overview", Platform: "READ:THREAT_ANALYTICS"},
		{Operation: "analytics.summary", Platform: "READ:THREAT_ANALYTICS"},
		{Operation: "analytics.timeline", Platform: "READ:THREAT_ANALYTICS"},
		{Operation: "analytics.protocol_distribution", Platform: "READ:THREAT_ANALYTICS"},
		{Operation: "analytics.top_source_countries", Platform: "READ:THREAT_ANALYTICS"},
		{Operation: "analytics.top_asns", Platform: "READ:THREAT_ANALYTICS"},

		// Threat events.
		{Operation: "threat_events.list", Platform: "READ:THREAT_EVENT"},

		// Platform role management.
		{Operation: "roles.list", Platform: "READ:ROLE"},
		{Operation: "roles.get", Platform: "READ:ROLE"},
		{Operation: "roles.create", Platform: "CREATE:ROLE"},
		{Operation: "roles.update", Platform: "UPDATE:ROLE"},
		{Operation: "roles.delete", Platform: "DELETE:ROLE"},
		{Operation: "roles.assign_permissions", Platform: "UPDATE:ROLE"},
		{Operation: "permissions.list", Platform: "READ:ROLE"},

		// Platform user management.
		{Operation: "users.list", Platform: "READ:USER"},
		{Operation: "users.get", Platform: "READ:USER"},
		{Operation: "users.create", Platform: "CREATE:USER"},
		{Operation: "users.update", Platform: "UPDATE:USER"},
		{Operation: "users.delete", Platform: "DELETE:USER"},
		{Operation: "users.assign_roles", Platform: "UPDATE:USER"},

		// Tenant directory management.
		{Operation: "tenants.list", Platform: "READ:TENANT"},
		{Operation: "tenants.get", Platform: "READ:TENANT"},
		{Operation: "tenants.create", Platform: "CREATE:TENANT"},
		{Operation: "tenants.update", Platform: "UPDATE:TENANT"},
		{Operation: "tenants.delete", Platform: "DELETE:TENANT"},

		// Audit trail.
		{Operation: "audit.list", Platform: "READ:AUDIT_LOG"},

		// Tenant role management. The tenant code names the capability in
		// the tenant namespace; the platform code is the distinct
		// TENANT_-prefixed fallback capability held by platform operators.
		{Operation: "tenant_roles.list", Tenant: "READ:ROLE", Platform: "READ:TENANT_ROLE"},
		{Operation: "tenant_roles.get", Tenant: "READ:ROLE", Platform: "READ:TENANT_ROLE"},
		{Operation: "tenant_roles.create", Tenant: "CREATE:ROLE", Platform: "CREATE:TENANT_ROLE"},
		{Operation: "tenant_roles.update", Tenant: "UPDATE:ROLE", Platform: "UPDATE:TENANT_ROLE"},
		{Operation: "tenant_roles.delete", Tenant: "DELETE:ROLE", Platform: "DELETE:TENANT_ROLE"},
		{Operation: "tenant_roles.assign_permissions", Tenant: "UPDATE:ROLE", Platform: "UPDATE:TENANT_ROLE"},
		{Operation: "tenant_permissions.list", Tenant: "READ:ROLE", Platform: "READ:TENANT_ROLE"},

		// Tenant user management.
		{Operation: "tenant_users.list", Tenant: "READ:TENANT_USER", Platform: "READ:TENANT_USER"},
		{Operation: "tenant_users.get", Tenant: "READ:TENANT_USER", Platform: "READ:TENANT_USER"},
		{Operation: "tenant_users.create", Tenant: "CREATE:TENANT_USER", Platform: "CREATE:TENANT_USER"},
		{Operation: "tenant_users.update", Tenant: "UPDATE:TENANT_USER", Platform: "UPDATE:TENANT_USER"},
		{Operation: "tenant_users.delete", Tenant: "DELETE:TENANT_USER", Platform: "DELETE:TENANT_USER"},
		{Operation: "tenant_users.assign_roles", Tenant: "UPDATE:TENANT_USER", Platform: "UPDATE:TENANT_USER"},

		// Tenant-scoped analytics reads.
		{Operation: "tenant_analytics.overview", Tenant: "READ:THREAT_ANALYTICS", Platform: "READ:TENANT_ANALYTICS"},
		{Operation: "tenant_analytics.summary", Tenant: "READ:THREAT_ANALYTICS", Platform: "READ:TENANT_ANALYTICS"},
		{Operation: "tenant_analytics.timeline", Tenant: "READ:THREAT_ANALYTICS", Platform: "READ:TENANT_ANALYTICS"},
		{Operation: "tenant_threat_events.list", Tenant: "READ:THREAT_EVENT", Platform: "READ:TENANT_THREAT_EVENT"},
	}

	for _, req := range reqs {
		if err := Register(req); err != nil {
			panic(err)
		}
	}
}
