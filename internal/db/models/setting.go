// Package models contains database model definitions.
package models

import "time"

// SettingType classifies an organization setting for grouping and filtering.
// It is a category, not the data type of the stored value.
type SettingType string

const (
	// SettingTypeSecurity groups authentication and access related settings.
	SettingTypeSecurity SettingType = "security"
	// SettingTypeEmail groups outbound mail settings.
	SettingTypeEmail SettingType = "email"
	// SettingTypePlatform groups platform wide switches such as maintenance mode.
	SettingTypePlatform SettingType = "platform"
	// SettingTypeContent groups forum, gallery, insight and newsletter switches.
	SettingTypeContent SettingType = "content"
	// SettingTypePayment groups payment provider settings.
	SettingTypePayment SettingType = "payment"
	// SettingTypeOrganization groups organization profile settings.
	SettingTypeOrganization SettingType = "organization"
	// SettingTypeBusiness groups marketplace and trading rules.
	SettingTypeBusiness SettingType = "business"
)

// SettingTypes returns all valid setting types in display order.
func SettingTypes() []SettingType {
	return []SettingType{
		SettingTypeSecurity,
		SettingTypeEmail,
		SettingTypePlatform,
		SettingTypeContent,
		SettingTypePayment,
		SettingTypeOrganization,
		SettingTypeBusiness,
	}
}

// Valid reports whether t is one of the known setting types.
func (t SettingType) Valid() bool {
	for _, known := range SettingTypes() {
		if t == known {
			return true
		}
	}

	return false
}

// Setting is one organization setting row.
// Value holds ciphertext when IsSensitive is set, plaintext otherwise.
type Setting struct {
	ID          uint64      `gorm:"primaryKey" json:"id"`
	Key         string      `gorm:"column:setting_key;uniqueIndex;size:191;not null" json:"key"`
	Value       *string     `gorm:"type:text" json:"value"`
	Type        SettingType `gorm:"type:varchar(32);not null;index" json:"type"`
	Description *string     `gorm:"type:text" json:"description"`
	IsSensitive bool        `gorm:"not null;default:false" json:"is_sensitive"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "organization_settings"
}
