package models

import "time"

// ThreatEvent is a single observed attack or indicator hit. Analytics
// endpoints run filtered, aggregated reads over this table.
type ThreatEvent struct {
	BaseModel

	TenantID *string `gorm:"type:uuid;index" json:"tenant_id"`

	Category      string `gorm:"index" json:"category"`
	MalwareFamily string `gorm:"index" json:"malware_family"`
	Protocol      string `gorm:"index" json:"protocol"`

	SourceAddress  string `gorm:"index" json:"source_address"`
	SourceCountry  string `gorm:"index" json:"source_country"`
	DestinationASN string `gorm:"index" json:"destination_asn"`

	Severity string `gorm:"index" json:"severity"`

	ObservedAt time.Time `gorm:"index;not null" json:"observed_at"`
}
