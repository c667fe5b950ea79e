package entities

import "time"

// SettingPreferredLanguage is the settings key every client row carries.
const SettingPreferredLanguage = "preferred_language"

// Client is a conversation participant scoped to exactly one company.
// (company_id, telegram_id) is unique at the storage layer.
type Client struct {
	ID                int               `json:"id"`
	CompanyID         int               `json:"company_id"`
	TelegramID        int64             `json:"telegram_id"`
	Username          string            `json:"username"`
	FirstName         string            `json:"first_name"`
	Settings          map[string]string `json:"settings"`
	IsRegularCustomer bool              `json:"is_regular_customer"`
	PersonalDiscount  float64           `json:"personal_discount"`
	CreatedAt         time.Time         `json:"created_at"`
}

// PreferredLanguage returns the client's reply language, falling back to
// Russian when the setting is missing.
func (c *Client) PreferredLanguage() string {
	if c.Settings != nil {
		if lang := c.Settings[SettingPreferredLanguage]; lang != "" {
			return lang
		}
	}
	return "ru"
}

// DisplayName picks the most human-friendly identifier available.
func (c *Client) DisplayName() string {
	if c.FirstName != "" {
		return c.FirstName
	}
	if c.Username != "" {
		return "@" + c.Username
	}
	return "клиент"
}
