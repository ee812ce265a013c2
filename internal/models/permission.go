package models

// Resource is one half of the permission vocabulary (e.g. THREAT_EVENT).
type Resource struct {
	BaseModel

	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `json:"name"`
}

// Action is the other half of the permission vocabulary (e.g. READ).
type Action struct {
	BaseModel

	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `json:"name"`
}

// Permission composes an action and a resource code in the platform namespace.
// The pair is unique; permissions reference the vocabulary by code, not by
// foreign key, so equality is always a code-pair comparison.
type Permission struct {
	BaseModel

	ResourceCode string `gorm:"not null;index;uniqueIndex:idx_permissions_pair" json:"resource_code"`
	ActionCode   string `gorm:"not null;index;uniqueIndex:idx_permissions_pair" json:"action_code"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
}

// TenantPermission is the tenant-namespace twin of Permission. The same
// textual code pair may exist in both namespaces with distinct identifiers;
// the namespaces are never merged.
type TenantPermission struct {
	BaseModel

	ResourceCode string `gorm:"not null;index;uniqueIndex:idx_tenant_permissions_pair" json:"resource_code"`
	ActionCode   string `gorm:"not null;index;uniqueIndex:idx_tenant_permissions_pair" json:"action_code"`

	TenantRoles []TenantRole `gorm:"many2many:tenant_role_permissions;" json:"tenant_roles,omitempty"`
}
