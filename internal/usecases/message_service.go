package usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

// Webhook response statuses. Business outcomes ride on a 200 response;
// only tenant resolution maps to HTTP failure codes.
const (
	StatusOK              = "ok"
	StatusHandoffRequired = "handoff_required"
	StatusHandoffFailed   = "handoff_failed"
	StatusError           = "error"
	StatusCritical        = "critical_error"
)

// Result is the webhook's business outcome for one handled update.
type Result struct {
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	ServiceUsed string `json:"service_used,omitempty"`
}

// IncomingMessage is the normalized inbound payload.
type IncomingMessage struct {
	ChatID    int64
	FromID    int64
	Username  string
	FirstName string
	Text      string
}

// MessageService orchestrates the full pipeline for one inbound message:
// session resolution, command short-circuit, policy resolution, prompt
// assembly, provider chain, handoff decision, admin notification, reply
// delivery and recording.
type MessageService struct {
	companies interfaces.CompanyStore
	clients   interfaces.ClientStore
	messages  interfaces.MessageStore
	messenger interfaces.Messenger
	responder *Responder
	handoff   *HandoffDetector
	notifier  *AdminNotifier
	recorder  *Recorder
	commands  *CommandHandler
	guard     *LanguageGuard
	log       *slog.Logger
}

func NewMessageService(
	companies interfaces.CompanyStore,
	clients interfaces.ClientStore,
	messages interfaces.MessageStore,
	messenger interfaces.Messenger,
	responder *Responder,
	handoff *HandoffDetector,
	notifier *AdminNotifier,
	recorder *Recorder,
	commands *CommandHandler,
	guard *LanguageGuard,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		companies: companies,
		clients:   clients,
		messages:  messages,
		messenger: messenger,
		responder: responder,
		handoff:   handoff,
		notifier:  notifier,
		recorder:  recorder,
		commands:  commands,
		guard:     guard,
		log:       log,
	}
}

// ResolveCompany maps an inbound webhook token to an active company.
// No side effects.
func (s *MessageService) ResolveCompany(ctx context.Context, token string) (*entities.Company, error) {
	company, err := s.companies.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}
	return company, nil
}

// Process handles one inbound message end to end and always returns a
// Result; internal failures degrade to a status, never to a panic or an
// exposed error string. Reply delivery is unconditional once a reply
// exists — its failure is the one outcome reported as "error", because the
// user received nothing.
func (s *MessageService) Process(ctx context.Context, company *entities.Company, in IncomingMessage) Result {
	policy := ResolvePolicy(company)

	client, created, err := s.clients.GetOrCreate(ctx, company.ID, in.FromID, in.Username, in.FirstName, policy.Language)
	if err != nil {
		s.log.Error("client persistence failed",
			"company_id", company.ID, "telegram_id", in.FromID, "error", err)
		return Result{Status: StatusCritical}
	}
	if created {
		s.log.Info("new client registered",
			"company_id", company.ID, "client_id", client.ID, "telegram_id", in.FromID)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		// Stickers, photos and other non-text updates are acknowledged
		// without processing.
		return Result{Status: StatusOK}
	}

	if reply, handled, err := s.commands.Execute(ctx, client, text); handled {
		if err != nil {
			s.log.Error("command execution failed", "client_id", client.ID, "error", err)
			return Result{Status: StatusCritical}
		}
		if err := s.messenger.SendMessage(ctx, in.ChatID, reply); err != nil {
			s.log.Error("command reply delivery failed", "chat_id", in.ChatID, "error", err)
			return Result{Status: StatusError}
		}
		return Result{Status: StatusOK}
	}

	history, err := s.messages.History(ctx, company.ID, client.ID, providerHistoryDepth)
	if err != nil {
		// Answering without context beats not answering.
		s.log.Warn("history load failed, answering without context",
			"client_id", client.ID, "error", err)
		history = nil
	}

	req := BuildPrompt(policy, text, history, client)
	reply, providerID := s.responder.Generate(ctx, req)
	reply = s.guard.Fix(ctx, text, reply)

	status, reason := StatusOK, ""
	if needed, trigger := s.handoff.Detect(reply, policy.HandoffTriggers); needed {
		s.log.Info("handoff triggered",
			"company_id", company.ID, "client_id", client.ID, "trigger", trigger)
		if outcome := s.notifier.Notify(ctx, policy, client, text); outcome == NotifySent {
			status = StatusHandoffRequired
		} else {
			status, reason = StatusHandoffFailed, string(outcome)
		}
	}

	deliveryErr := s.messenger.SendMessage(ctx, in.ChatID, reply)
	if deliveryErr != nil {
		s.log.Error("reply delivery failed", "chat_id", in.ChatID, "error", deliveryErr)
	}

	// The exchange happened; record it even when delivery failed so the
	// thread and analytics stay consistent.
	if err := s.recorder.Record(ctx, company.ID, client.ID, text, reply, providerID); err != nil {
		s.log.Error("failed to record exchange",
			"company_id", company.ID, "client_id", client.ID, "error", err)
	}

	if deliveryErr != nil {
		return Result{Status: StatusError}
	}
	return Result{Status: status, Reason: reason, ServiceUsed: providerID}
}
