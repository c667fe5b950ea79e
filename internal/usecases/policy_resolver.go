package usecases

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

// Hard policy defaults. A company with no stored policy document behaves
// exactly like one configured with these values.
const (
	DefaultLanguage = "ru"
	DefaultTimezone = "Asia/Almaty"

	defaultWelcomeMessage  = "Здравствуйте! Чем я могу вам помочь?"
	defaultFallbackMessage = "Произошла ошибка при обработке запроса. Пожалуйста, попробуйте позже."
	defaultHandoffMessage  = "Позвольте мне передать ваш вопрос нашему специалисту. Ожидайте, пожалуйста."
	defaultOffHoursMessage = "Сейчас нерабочее время. Мы ответим вам в рабочие часы."
	defaultThanksMessage   = "Спасибо за обращение!"
	defaultErrorMessage    = "Произошла ошибка. Пожалуйста, попробуйте позже."
)

// rawPolicy mirrors the loosely-typed stored document. Pointers and maps
// distinguish "absent" from "set to zero" during the merge.
type rawPolicy struct {
	Company          *string           `json:"company"`
	Language         *string           `json:"language"`
	Timezone         *string           `json:"timezone"`
	WorkingHours     map[string]string `json:"working_hours"`
	Messages         map[string]string `json:"messages"`
	AllowedTopics    []string          `json:"allowed_topics"`
	RestrictedTopics []string          `json:"restricted_topics"`
	HandoffTriggers  []string          `json:"handoff_triggers"`
	// Older documents use the singular key.
	HandoffTrigger []string          `json:"handoff_trigger"`
	AdminSettings  *rawAdminSettings `json:"admin_settings"`
	CompanyInfo    map[string]string `json:"company_info"`
}

type rawAdminSettings struct {
	AdminID              json.RawMessage `json:"admin_id"`
	NotificationsEnabled *bool           `json:"notifications_enabled"`
}

func defaultPolicy(companyName string) entities.Policy {
	return entities.Policy{
		CompanyName:  companyName,
		Language:     DefaultLanguage,
		Timezone:     DefaultTimezone,
		WorkingHours: entities.WorkingHours{},
		Messages: entities.PolicyMessages{
			Welcome:  defaultWelcomeMessage,
			Fallback: defaultFallbackMessage,
			Handoff:  defaultHandoffMessage,
			OffHours: defaultOffHoursMessage,
			Thanks:   defaultThanksMessage,
			Error:    defaultErrorMessage,
		},
		AllowedTopics:    []string{"support"},
		RestrictedTopics: []string{"confidential"},
		HandoffTriggers:  []string{"help"},
		AdminSettings:    entities.AdminSettings{},
		CompanyInfo:      entities.CompanyInfo{},
	}
}

// ResolvePolicy normalizes a company's raw policy document into a fully
// populated value. Absent, partial, or malformed documents never propagate
// downstream: every consumer sees the merged result. Never fails.
func ResolvePolicy(company *entities.Company) entities.Policy {
	policy := defaultPolicy(company.Name)
	if len(company.Policy) == 0 || bytes.Equal(bytes.TrimSpace(company.Policy), []byte("null")) {
		return policy
	}

	var raw rawPolicy
	if err := json.Unmarshal(company.Policy, &raw); err != nil {
		return policy
	}

	if raw.Company != nil && *raw.Company != "" {
		policy.CompanyName = *raw.Company
	}
	if raw.Language != nil && *raw.Language != "" {
		policy.Language = *raw.Language
	}
	if raw.Timezone != nil && *raw.Timezone != "" {
		policy.Timezone = *raw.Timezone
	}
	if raw.WorkingHours != nil {
		policy.WorkingHours = entities.WorkingHours(raw.WorkingHours)
	}
	if raw.Messages != nil {
		mergeMessage(raw.Messages, "welcome", &policy.Messages.Welcome)
		mergeMessage(raw.Messages, "fallback", &policy.Messages.Fallback)
		mergeMessage(raw.Messages, "handoff", &policy.Messages.Handoff)
		mergeMessage(raw.Messages, "off_hours", &policy.Messages.OffHours)
		mergeMessage(raw.Messages, "thanks", &policy.Messages.Thanks)
		mergeMessage(raw.Messages, "error", &policy.Messages.Error)
	}
	if raw.AllowedTopics != nil {
		policy.AllowedTopics = raw.AllowedTopics
	}
	if raw.RestrictedTopics != nil {
		policy.RestrictedTopics = raw.RestrictedTopics
	}
	switch {
	case raw.HandoffTriggers != nil:
		policy.HandoffTriggers = raw.HandoffTriggers
	case raw.HandoffTrigger != nil:
		policy.HandoffTriggers = raw.HandoffTrigger
	}
	if raw.AdminSettings != nil {
		policy.AdminSettings.AdminID = parseAdminID(raw.AdminSettings.AdminID)
		if raw.AdminSettings.NotificationsEnabled != nil {
			policy.AdminSettings.NotificationsEnabled = *raw.AdminSettings.NotificationsEnabled
		}
	}
	if raw.CompanyInfo != nil {
		policy.CompanyInfo = entities.CompanyInfo{
			Description: raw.CompanyInfo["description"],
			Address:     raw.CompanyInfo["address"],
			Phone:       raw.CompanyInfo["phone"],
			Email:       raw.CompanyInfo["email"],
			Website:     raw.CompanyInfo["website"],
		}
	}
	return policy
}

func mergeMessage(src map[string]string, key string, dst *string) {
	if v, ok := src[key]; ok && v != "" {
		*dst = v
	}
}

// parseAdminID accepts the admin chat id as a JSON number, a numeric
// string, or null. Anything else resolves to 0 (no admin configured).
func parseAdminID(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if id, err := strconv.ParseInt(asString, 10, 64); err == nil {
			return id
		}
	}
	return 0
}
