package entities

import (
	"strings"
	"time"
)

// Policy is the fully resolved per-company configuration. Every field is
// populated after resolution; downstream components never see missing
// values.
type Policy struct {
	CompanyName      string         `json:"company"`
	Language         string         `json:"language"`
	Timezone         string         `json:"timezone"`
	WorkingHours     WorkingHours   `json:"working_hours"`
	Messages         PolicyMessages `json:"messages"`
	AllowedTopics    []string       `json:"allowed_topics"`
	RestrictedTopics []string       `json:"restricted_topics"`
	HandoffTriggers  []string       `json:"handoff_triggers"`
	AdminSettings    AdminSettings  `json:"admin_settings"`
	CompanyInfo      CompanyInfo    `json:"company_info"`
}

// WorkingHours maps lowercase weekday names to "HH:MM-HH:MM" ranges.
// An absent or empty entry means closed that day.
type WorkingHours map[string]string

// PolicyMessages are the tenant's canned bot texts.
type PolicyMessages struct {
	Welcome  string `json:"welcome"`
	Fallback string `json:"fallback"`
	Handoff  string `json:"handoff"`
	OffHours string `json:"off_hours"`
	Thanks   string `json:"thanks"`
	Error    string `json:"error"`
}

// AdminSettings control escalation notifications. AdminID 0 means no admin
// is configured.
type AdminSettings struct {
	AdminID              int64 `json:"admin_id"`
	NotificationsEnabled bool  `json:"notifications_enabled"`
}

// CompanyInfo holds the free-form company facts exposed to the prompt.
type CompanyInfo struct {
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
}

// Empty reports whether no company fact is set.
func (ci CompanyInfo) Empty() bool {
	return ci.Description == "" && ci.Address == "" && ci.Phone == "" &&
		ci.Email == "" && ci.Website == ""
}

// OpenAt reports whether t falls within the working hours for its weekday,
// evaluated in the given timezone. Overnight ranges (22:00-06:00) wrap past
// midnight. An unknown timezone resolves to open so that a misconfigured
// tenant never silences its bot; a malformed range closes only that day.
func (wh WorkingHours) OpenAt(t time.Time, tzName string) bool {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return true
	}
	local := t.In(loc)
	day := strings.ToLower(local.Weekday().String())
	spec, ok := wh[day]
	if !ok || strings.TrimSpace(spec) == "" {
		return false
	}
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return false
	}
	start, err1 := parseClock(parts[0])
	end, err2 := parseClock(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	now := local.Hour()*60 + local.Minute()
	if end < start {
		return now >= start || now <= end
	}
	return now >= start && now <= end
}

// parseClock turns "H:MM" / "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	tm, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		// Single-digit hours like "9:00" are common in stored policies.
		tm, err = time.Parse("3:04", strings.TrimSpace(s))
		if err != nil {
			return 0, err
		}
	}
	return tm.Hour()*60 + tm.Minute(), nil
}
