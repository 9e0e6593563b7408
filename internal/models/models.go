package models

import (
	"encoding/json"
	"time"
)

// Organization represents a landlord organization (tenant of the SaaS).
// Third-party integration settings are stored as a JSON document in the
// third_parties column, mirroring the organization record shape used by
// the portal services.
type Organization struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	ThirdParties string    `gorm:"type:text" json:"third_parties"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// ThirdPartyConfig is the parsed view of Organization.ThirdParties.
type ThirdPartyConfig struct {
	WhatsApp *WhatsAppSettings `json:"whatsapp,omitempty"`
}

// WhatsAppSettings is the per-organization WhatsApp channel override.
type WhatsAppSettings struct {
	IsActive        bool              `json:"isActive"`
	AccessToken     string            `json:"accessToken"`
	PhoneNumberID   string            `json:"phoneNumberId"`
	APIURL          string            `json:"apiUrl,omitempty"`
	DefaultLanguage string            `json:"defaultLanguage,omitempty"`
	Templates       map[string]string `json:"templates,omitempty"` // template type -> approved template name
}

// WhatsAppOverride parses the organization's third-party settings and
// returns its WhatsApp section, or nil if absent or malformed.
func (o *Organization) WhatsAppOverride() *WhatsAppSettings {
	if o.ThirdParties == "" {
		return nil
	}
	var tp ThirdPartyConfig
	if err := json.Unmarshal([]byte(o.ThirdParties), &tp); err != nil {
		return nil
	}
	return tp.WhatsApp
}

// DeliveryLog is the append-only audit trail of dispatch attempts.
// Recipients are never stored raw, only masked plus a fingerprint.
type DeliveryLog struct {
	ID                   string    `gorm:"primaryKey" json:"id"`
	OrganizationID       string    `gorm:"index" json:"organization_id"`
	TemplateType         string    `gorm:"type:varchar(50)" json:"template_type"`
	RecipientMasked      string    `gorm:"type:varchar(32)" json:"recipient_masked"`
	RecipientFingerprint string    `gorm:"type:varchar(64);index" json:"recipient_fingerprint"`
	Method               string    `gorm:"type:varchar(20)" json:"method"`
	Outcome              string    `gorm:"type:varchar(20)" json:"outcome"`
	Detail               string    `gorm:"type:text" json:"detail"`
	CreatedAt            time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (DeliveryLog) TableName() string {
	return "delivery_logs"
}
