package model

import "time"

// Well-known setting keys read by the invoice renderer.
const (
	SettingCenterName     = "center_name"
	SettingCenterAddress  = "center_address"
	SettingCurrencySymbol = "currency_symbol"
)

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
