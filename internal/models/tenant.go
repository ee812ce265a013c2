package models

import "time"

// Tenant represents one isolated customer of the platform.
type Tenant struct {
	BaseModel

	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	TenantUsers []TenantUser `gorm:"foreignKey:TenantID" json:"tenant_users,omitempty"`
	TenantRoles []TenantRole `gorm:"foreignKey:TenantID" json:"tenant_roles,omitempty"`
}

// TenantUser is a user account scoped to a single tenant.
type TenantUser struct {
	BaseModel

	TenantID string  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant   *Tenant `json:"tenant,omitempty"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Name        string `json:"name"`
	IsSuspended bool   `gorm:"default:false" json:"is_suspended"`

	Roles []TenantRole `gorm:"many2many:tenant_user_roles;" json:"roles,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at"`
}
