package entities

import "encoding/json"

// Company is a tenant. The core only reads companies; provisioning happens
// through external tooling.
type Company struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	TelegramToken string          `json:"-"` // inbound webhook auth token
	IsActive      bool            `json:"is_active"`
	Policy        json.RawMessage `json:"policy"` // raw, possibly partial policy document
}
