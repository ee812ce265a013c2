package models

// PageGroup owns the pages shown under one navigation heading.
type PageGroup struct {
	BaseModel

	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null" json:"name"`
	Icon string `json:"icon"`

	Pages []Page `gorm:"foreignKey:PageGroupID" json:"pages,omitempty"`
}

// Page is a navigable UI unit. Accessibility is permission-derived only:
// a page is reachable when the viewer holds a permission linked to it in
// either namespace.
type Page struct {
	BaseModel

	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null" json:"name"`
	Path string `gorm:"not null" json:"path"`

	ParentID    *string `gorm:"type:uuid;index" json:"parent_id"`
	PageGroupID *string `gorm:"type:uuid;index" json:"page_group_id"`

	Permissions       []Permission       `gorm:"many2many:page_permissions;" json:"permissions,omitempty"`
	TenantPermissions []TenantPermission `gorm:"many2many:page_tenant_permissions;" json:"tenant_permissions,omitempty"`
}
