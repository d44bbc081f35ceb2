package model

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// settingsRecordKey is the fixed ID of the single platform_settings row.
const settingsRecordKey = "current"

// PlatformSettingsRow mirrors the single-row 'platform_settings' table.
type PlatformSettingsRow struct {
	ID                        *models.RecordID `json:"id,omitempty"`
	UserRegistrationEnabled   bool             `json:"user_registration_enabled"`
	EmailNotificationsEnabled bool             `json:"email_notifications_enabled"`
	AutoApprovePromotions     bool             `json:"auto_approve_promotions"`
	MaintenanceMode           bool             `json:"maintenance_mode"`
	CommissionRate            float64          `json:"commission_rate"`
	MinimumOrderValue         float64          `json:"minimum_order_value"`
	MaxProductsPerWholesaler  int              `json:"max_products_per_wholesaler"`
	SupportResponseTime       int              `json:"support_response_time"`
	TwoFactorRequired         bool             `json:"two_factor_required"`
	DataEncryptionEnabled     bool             `json:"data_encryption_enabled"`
	AuditLoggingEnabled       bool             `json:"audit_logging_enabled"`
}

// SettingsRecordID returns the record ID of the settings row.
func SettingsRecordID() models.RecordID {
	return models.NewRecordID("platform_settings", settingsRecordKey)
}

// ToEntity maps the row back to a pure domain entity.
func (r PlatformSettingsRow) ToEntity() entity.PlatformSettings {
	return entity.PlatformSettings{
		UserRegistrationEnabled:   r.UserRegistrationEnabled,
		EmailNotificationsEnabled: r.EmailNotificationsEnabled,
		AutoApprovePromotions:     r.AutoApprovePromotions,
		MaintenanceMode:           r.MaintenanceMode,
		CommissionRate:            r.CommissionRate,
		MinimumOrderValue:         r.MinimumOrderValue,
		MaxProductsPerWholesaler:  r.MaxProductsPerWholesaler,
		SupportResponseTime:       r.SupportResponseTime,
		TwoFactorRequired:         r.TwoFactorRequired,
		DataEncryptionEnabled:     r.DataEncryptionEnabled,
		AuditLoggingEnabled:       r.AuditLoggingEnabled,
	}
}

// FromPlatformSettings maps a domain entity onto the settings row.
func FromPlatformSettings(s entity.PlatformSettings) PlatformSettingsRow {
	id := SettingsRecordID()

	return PlatformSettingsRow{
		ID:                        &id,
		UserRegistrationEnabled:   s.UserRegistrationEnabled,
		EmailNotificationsEnabled: s.EmailNotificationsEnabled,
		AutoApprovePromotions:     s.AutoApprovePromotions,
		MaintenanceMode:           s.MaintenanceMode,
		CommissionRate:            s.CommissionRate,
		MinimumOrderValue:         s.MinimumOrderValue,
		MaxProductsPerWholesaler:  s.MaxProductsPerWholesaler,
		SupportResponseTime:       s.SupportResponseTime,
		TwoFactorRequired:         s.TwoFactorRequired,
		DataEncryptionEnabled:     s.DataEncryptionEnabled,
		AuditLoggingEnabled:       s.AuditLoggingEnabled,
	}
}
