package usecases

import (
	"fmt"
	"strings"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

// History depths are fixed, policy-independent constants. The narrative
// summary embedded in the system block is shorter than the turn list handed
// to the provider.
const (
	summaryHistoryDepth  = 5
	providerHistoryDepth = 10
)

// Weekday order for the working-hours block; map iteration order would
// scramble the schedule.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayLabels = map[string]string{
	"monday":    "Понедельник",
	"tuesday":   "Вторник",
	"wednesday": "Среда",
	"thursday":  "Четверг",
	"friday":    "Пятница",
	"saturday":  "Суббота",
	"sunday":    "Воскресенье",
}

// BuildPrompt assembles the provider request for one inbound message:
// a policy-constrained system block, a chronological replay of recent
// history with roles taken strictly from the stored direction flag, and the
// current message last. Deterministic for identical inputs.
func BuildPrompt(policy entities.Policy, text string, history []entities.Message, client *entities.Client) entities.ChatRequest {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Ты — чат-бот компании «%s».\n", policy.CompanyName)
	sb.WriteString("Ты вежливый и профессиональный ассистент, который помогает клиентам с их вопросами.\n")

	if len(policy.WorkingHours) > 0 {
		sb.WriteString("\nЧасы работы:\n")
		for _, day := range weekdays {
			hours := policy.WorkingHours[day]
			if hours == "" {
				hours = "Выходной"
			}
			fmt.Fprintf(&sb, "- %s: %s\n", weekdayLabels[day], hours)
		}
	}

	if info := policy.CompanyInfo; !info.Empty() {
		sb.WriteString("\nО компании:\n")
		if info.Description != "" {
			sb.WriteString(info.Description + "\n")
		}
		if info.Address != "" {
			fmt.Fprintf(&sb, "Адрес: %s\n", info.Address)
		}
		if info.Phone != "" {
			fmt.Fprintf(&sb, "Телефон: %s\n", info.Phone)
		}
		if info.Email != "" {
			fmt.Fprintf(&sb, "Email: %s\n", info.Email)
		}
		if info.Website != "" {
			fmt.Fprintf(&sb, "Сайт: %s\n", info.Website)
		}
	}

	if client.IsRegularCustomer || client.PersonalDiscount > 0 {
		sb.WriteString("\nИнформация о клиенте:\n")
		fmt.Fprintf(&sb, "Имя: %s\n", client.DisplayName())
		if client.IsRegularCustomer {
			sb.WriteString("Постоянный клиент: да\n")
		}
		if client.PersonalDiscount > 0 {
			fmt.Fprintf(&sb, "Персональная скидка: %.0f%%\n", client.PersonalDiscount)
		}
	}

	if len(policy.AllowedTopics) > 0 {
		fmt.Fprintf(&sb, "\nРазрешённые темы: %s\n", strings.Join(policy.AllowedTopics, ", "))
	}
	if len(policy.RestrictedTopics) > 0 {
		fmt.Fprintf(&sb, "Запрещённые темы: %s\n", strings.Join(policy.RestrictedTopics, ", "))
	}

	if summary := tail(history, summaryHistoryDepth); len(summary) > 0 {
		sb.WriteString("\nИстория переписки:\n")
		for _, msg := range summary {
			fmt.Fprintf(&sb, "%s: %s\n", historyLabel(msg.Direction), msg.Text)
		}
	}

	fmt.Fprintf(&sb, `
Инструкции:
1. Отвечай на языке клиента (%s).
2. Отвечай только на разрешённые темы и не затрагивай запрещённые.
3. Если не уверен в ответе, скажи: «%s»
`, client.PreferredLanguage(), policy.Messages.Handoff)

	turns := make([]entities.Turn, 0, providerHistoryDepth+1)
	for _, msg := range tail(history, providerHistoryDepth) {
		turns = append(turns, entities.Turn{Role: turnRole(msg.Direction), Content: msg.Text})
	}
	turns = append(turns, entities.Turn{Role: entities.RoleUser, Content: text})

	return entities.ChatRequest{
		System: sb.String(),
		Turns:  turns,
	}
}

func tail(history []entities.Message, n int) []entities.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func turnRole(direction string) string {
	if direction == entities.DirectionOutbound {
		return entities.RoleAssistant
	}
	return entities.RoleUser
}

func historyLabel(direction string) string {
	if direction == entities.DirectionOutbound {
		return "Ассистент"
	}
	return "Пользователь"
}
