package models

// Role is a platform-scoped role holding platform permissions.
type Role struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`

	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_roles;" json:"users,omitempty"`
}

// TenantRole is scoped to exactly one tenant and holds tenant permissions.
type TenantRole struct {
	BaseModel

	TenantID    string `gorm:"type:uuid;not null;index;uniqueIndex:idx_tenant_roles_name" json:"tenant_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_tenant_roles_name" json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`

	Permissions []TenantPermission `gorm:"many2many:tenant_role_permissions;" json:"permissions,omitempty"`
	TenantUsers []TenantUser       `gorm:"many2many:tenant_user_roles;" json:"tenant_users,omitempty"`
}
