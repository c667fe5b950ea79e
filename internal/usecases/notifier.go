package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

// NotifyOutcome is the dispatcher's result. Failures here are reflected in
// the webhook status only; they never block reply delivery and are never
// retried within the request.
type NotifyOutcome string

const (
	NotifySent                 NotifyOutcome = "sent"
	NotifyInvalidAdminSettings NotifyOutcome = "invalid_admin_settings"
	NotifyDeliveryFailed       NotifyOutcome = "notification_error"
)

// AdminNotifier alerts a company's administrator about an escalation.
type AdminNotifier struct {
	messenger interfaces.Messenger
	now       func() time.Time
	log       *slog.Logger
}

func NewAdminNotifier(messenger interfaces.Messenger, log *slog.Logger) *AdminNotifier {
	return &AdminNotifier{messenger: messenger, now: time.Now, log: log}
}

// Notify sends the escalation alert. Preconditions are checked before any
// delivery attempt: without a configured admin id and enabled
// notifications, nothing is sent.
func (n *AdminNotifier) Notify(ctx context.Context, policy entities.Policy, client *entities.Client, question string) NotifyOutcome {
	admin := policy.AdminSettings
	if admin.AdminID == 0 || !admin.NotificationsEnabled {
		n.log.Warn("handoff requested but admin settings are unusable",
			"company", policy.CompanyName,
			"admin_id", admin.AdminID,
			"notifications_enabled", admin.NotificationsEnabled)
		return NotifyInvalidAdminSettings
	}

	alert := formatAdminAlert(policy, client, question, n.now())
	if err := n.messenger.SendMessage(ctx, admin.AdminID, alert); err != nil {
		n.log.Error("admin notification delivery failed",
			"company", policy.CompanyName, "admin_id", admin.AdminID, "error", err)
		return NotifyDeliveryFailed
	}
	return NotifySent
}

func formatAdminAlert(policy entities.Policy, client *entities.Client, question string, at time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Требуется оператор — %s\n\n", policy.CompanyName)
	fmt.Fprintf(&sb, "Клиент: %s (id %d)\n", client.DisplayName(), client.TelegramID)
	if client.Username != "" {
		fmt.Fprintf(&sb, "Telegram: @%s\n", client.Username)
	}
	fmt.Fprintf(&sb, "\nВопрос:\n%s\n", question)
	if !policy.WorkingHours.OpenAt(at, policy.Timezone) {
		sb.WriteString("\n(Обращение поступило в нерабочее время.)")
	}
	return sb.String()
}
