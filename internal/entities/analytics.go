package entities

import "time"

// DailyAnalytics is the derived per-company rollup for one calendar day.
// Rows are recomputed idempotently (upsert by company+date); the core never
// rewrites past dates.
type DailyAnalytics struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Date      time.Time `json:"date"`

	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	NewUsers    int `json:"new_users"`

	TotalMessages int `json:"total_messages"`
	UserMessages  int `json:"user_messages"`
	BotMessages   int `json:"bot_messages"`

	// Response-time aggregates over messages with a non-null response time.
	MinResponseTime *time.Duration `json:"min_response_time,omitempty"`
	AvgResponseTime *time.Duration `json:"avg_response_time,omitempty"`
	MaxResponseTime *time.Duration `json:"max_response_time,omitempty"`

	EngagementRate float64 `json:"engagement_rate"` // messages per user
	ResponseRate   float64 `json:"response_rate"`   // bot / user messages
}
