package entity

// PlatformSettings is the single process-wide configuration record mutated
// by admin actions. It is initialized to defaults at store creation and can
// be reset to defaults as one atomic action.
type PlatformSettings struct {
	UserRegistrationEnabled   bool    `json:"user_registration_enabled"`   // Whether self-registration is open.
	EmailNotificationsEnabled bool    `json:"email_notifications_enabled"` // Whether email fan-out is enabled.
	AutoApprovePromotions     bool    `json:"auto_approve_promotions"`     // Whether promotions skip admin review.
	MaintenanceMode           bool    `json:"maintenance_mode"`            // Whether the platform is in maintenance mode.
	CommissionRate            float64 `json:"commission_rate"`             // Platform commission percentage per order.
	MinimumOrderValue         float64 `json:"minimum_order_value"`         // Smallest accepted order total.
	MaxProductsPerWholesaler  int     `json:"max_products_per_wholesaler"` // Catalog size cap per wholesaler.
	SupportResponseTime       int     `json:"support_response_time"`       // Target first-response time in hours.
	TwoFactorRequired         bool    `json:"two_factor_required"`         // Whether 2FA is mandatory at login.
	DataEncryptionEnabled     bool    `json:"data_encryption_enabled"`     // Whether at-rest encryption is advertised.
	AuditLoggingEnabled       bool    `json:"audit_logging_enabled"`       // Whether admin actions are audit-logged.
}

// PlatformSettingsPatch carries a partial settings update. Nil fields are
// left untouched by the shallow merge.
type PlatformSettingsPatch struct {
	UserRegistrationEnabled   *bool    `json:"user_registration_enabled"`
	EmailNotificationsEnabled *bool    `json:"email_notifications_enabled"`
	AutoApprovePromotions     *bool    `json:"auto_approve_promotions"`
	MaintenanceMode           *bool    `json:"maintenance_mode"`
	CommissionRate            *float64 `json:"commission_rate"`
	MinimumOrderValue         *float64 `json:"minimum_order_value"`
	MaxProductsPerWholesaler  *int     `json:"max_products_per_wholesaler"`
	SupportResponseTime       *int     `json:"support_response_time"`
	TwoFactorRequired         *bool    `json:"two_factor_required"`
	DataEncryptionEnabled     *bool    `json:"data_encryption_enabled"`
	AuditLoggingEnabled       *bool    `json:"audit_logging_enabled"`
}

// DefaultPlatformSettings returns the settings the store starts with and the
// record ResetPlatformSettings restores.
func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		UserRegistrationEnabled:   true,
		EmailNotificationsEnabled: true,
		AutoApprovePromotions:     false,
		MaintenanceMode:           false,
		CommissionRate:            5,
		MinimumOrderValue:         100,
		MaxProductsPerWholesaler:  500,
		SupportResponseTime:       24,
		TwoFactorRequired:         false,
		DataEncryptionEnabled:     true,
		AuditLoggingEnabled:       true,
	}
}

// Merge applies the non-nil fields of the patch and returns the result.
func (s PlatformSettings) Merge(p PlatformSettingsPatch) PlatformSettings {
	if p.UserRegistrationEnabled != nil {
		s.UserRegistrationEnabled = *p.UserRegistrationEnabled
	}
	if p.EmailNotificationsEnabled != nil {
		s.EmailNotificationsEnabled = *p.EmailNotificationsEnabled
	}
	if p.AutoApprovePromotions != nil {
		s.AutoApprovePromotions = *p.AutoApprovePromotions
	}
	if p.MaintenanceMode != nil {
		s.MaintenanceMode = *p.MaintenanceMode
	}
	if p.CommissionRate != nil {
		s.CommissionRate = *p.CommissionRate
	}
	if p.MinimumOrderValue != nil {
		s.MinimumOrderValue = *p.MinimumOrderValue
	}
	if p.MaxProductsPerWholesaler != nil {
		s.MaxProductsPerWholesaler = *p.MaxProductsPerWholesaler
	}
	if p.SupportResponseTime != nil {
		s.SupportResponseTime = *p.SupportResponseTime
	}
	if p.TwoFactorRequired != nil {
		s.TwoFactorRequired = *p.TwoFactorRequired
	}
	if p.DataEncryptionEnabled != nil {
		s.DataEncryptionEnabled = *p.DataEncryptionEnabled
	}
	if p.AuditLoggingEnabled != nil {
		s.AuditLoggingEnabled = *p.AuditLoggingEnabled
	}

	return s
}
