package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

type serviceFixture struct {
	service   *MessageService
	companies *fakeCompanyStore
	clients   *fakeClientStore
	messages  *fakeMessageStore
	analytics *fakeAnalyticsStore
	messenger *fakeMessenger
	provider  *fakeProvider
	company   *entities.Company
}

func newServiceFixture(t *testing.T, policyDoc string) *serviceFixture {
	t.Helper()

	company := &entities.Company{
		ID:            1,
		Name:          "Acme",
		TelegramToken: "token-1",
		IsActive:      true,
		Policy:        json.RawMessage(policyDoc),
	}

	f := &serviceFixture{
		companies: &fakeCompanyStore{companies: map[string]*entities.Company{"token-1": company}},
		clients:   newFakeClientStore(),
		messages:  &fakeMessageStore{},
		analytics: &fakeAnalyticsStore{},
		messenger: &fakeMessenger{errFor: map[int64]error{}},
		provider:  &fakeProvider{id: "openai", reply: "Мы работаем с 9 до 18."},
		company:   company,
	}

	log := discardLogger()
	responder := NewResponder([]interfaces.Provider{f.provider}, time.Second, 500, 0.7, "", log)
	f.service = NewMessageService(
		f.companies,
		f.clients,
		f.messages,
		f.messenger,
		responder,
		NewHandoffDetector(nil),
		NewAdminNotifier(f.messenger, log),
		NewRecorder(f.messages, f.analytics, log),
		NewCommandHandler(f.clients),
		nil,
		log,
	)
	return f
}

func incoming(text string) IncomingMessage {
	return IncomingMessage{ChatID: 100, FromID: 100, Username: "aigerim", FirstName: "Айгерим", Text: text}
}

func TestResolveCompany(t *testing.T) {
	f := newServiceFixture(t, "{}")

	company, err := f.service.ResolveCompany(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)

	_, err = f.service.ResolveCompany(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	f.company.IsActive = false
	_, err = f.service.ResolveCompany(context.Background(), "token-1")
	assert.ErrorIs(t, err, ErrCompanyInactive)
}

func TestResolveCompanyStoreError(t *testing.T) {
	f := newServiceFixture(t, "{}")
	f.companies.err = errors.New("db down")

	_, err := f.service.ResolveCompany(context.Background(), "token-1")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCompanyNotFound)
}

func TestProcessHappyPath(t *testing.T) {
	f := newServiceFixture(t, "{}")

	result := f.service.Process(context.Background(), f.company, incoming("Привет! Когда вы работаете?"))

	assert.Equal(t, StatusOK, result.Status)
	assert.Empty(t, result.Reason)
	assert.Equal(t, "openai", result.ServiceUsed)

	// One client created, the reply delivered to their chat.
	assert.Len(t, f.clients.clients, 1)
	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, int64(100), f.messenger.sent[0].chatID)
	assert.Equal(t, "Мы работаем с 9 до 18.", f.messenger.sent[0].text)

	// Both turns recorded, rollup refreshed.
	require.Len(t, f.messages.messages, 2)
	assert.Equal(t, entities.DirectionInbound, f.messages.messages[0].Direction)
	assert.Equal(t, entities.DirectionOutbound, f.messages.messages[1].Direction)
	assert.Equal(t, "openai", f.messages.messages[1].Provider)
	assert.Equal(t, 1, f.analytics.rebuilds)
}

func TestProcessSecondMessageReusesClient(t *testing.T) {
	f := newServiceFixture(t, "{}")

	f.service.Process(context.Background(), f.company, incoming("Привет"))
	f.service.Process(context.Background(), f.company, incoming("Ещё вопрос"))

	assert.Len(t, f.clients.clients, 1)
	assert.Len(t, f.messages.messages, 4)

	// The second prompt carries the first exchange as history.
	require.GreaterOrEqual(t, len(f.provider.lastReq.Turns), 3)
	assert.Equal(t, "Привет", f.provider.lastReq.Turns[0].Content)
}

func TestProcessEmptyTextIsNoOp(t *testing.T) {
	f := newServiceFixture(t, "{}")

	result := f.service.Process(context.Background(), f.company, incoming("   "))

	assert.Equal(t, StatusOK, result.Status)
	assert.Zero(t, f.provider.calls)
	assert.Empty(t, f.messenger.sent)
	assert.Empty(t, f.messages.messages)
	// The client row is still created: first contact may be a sticker.
	assert.Len(t, f.clients.clients, 1)
}

func TestProcessClientStoreFailure(t *testing.T) {
	f := newServiceFixture(t, "{}")
	f.clients.err = errors.New("db down")

	result := f.service.Process(context.Background(), f.company, incoming("Привет"))

	assert.Equal(t, StatusCritical, result.Status)
	assert.Empty(t, f.messenger.sent)
}

func TestProcessCommandShortCircuits(t *testing.T) {
	f := newServiceFixture(t, "{}")

	result := f.service.Process(context.Background(), f.company, incoming("report my id"))

	assert.Equal(t, StatusOK, result.Status)
	assert.Empty(t, result.ServiceUsed)
	assert.Zero(t, f.provider.calls)
	assert.Empty(t, f.messages.messages, "commands are not recorded as conversation turns")
	require.Len(t, f.messenger.sent, 1)
	assert.Contains(t, f.messenger.sent[0].text, "идентификатор")
}

func TestProcessHandoffWithValidAdmin(t *testing.T) {
	f := newServiceFixture(t, `{"admin_settings": {"admin_id": 500, "notifications_enabled": true}}`)
	f.provider.reply = "К сожалению, я не могу ответить на этот вопрос."

	result := f.service.Process(context.Background(), f.company, incoming("Сложный вопрос"))

	assert.Equal(t, StatusHandoffRequired, result.Status)
	assert.Equal(t, "openai", result.ServiceUsed)

	// Admin alert first, then the client reply.
	require.Len(t, f.messenger.sent, 2)
	assert.Equal(t, int64(500), f.messenger.sent[0].chatID)
	assert.Contains(t, f.messenger.sent[0].text, "Сложный вопрос")
	assert.Equal(t, int64(100), f.messenger.sent[1].chatID)

	assert.Len(t, f.messages.messages, 2)
}

func TestProcessHandoffWithInvalidAdmin(t *testing.T) {
	f := newServiceFixture(t, "{}")
	f.provider.reply = "Я не знаю."

	result := f.service.Process(context.Background(), f.company, incoming("Сложный вопрос"))

	assert.Equal(t, StatusHandoffFailed, result.Status)
	assert.Equal(t, string(NotifyInvalidAdminSettings), result.Reason)

	// The client still receives the generated reply.
	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, int64(100), f.messenger.sent[0].chatID)
}

func TestProcessHandoffNotificationDeliveryFailure(t *testing.T) {
	f := newServiceFixture(t, `{"admin_settings": {"admin_id": 500, "notifications_enabled": true}}`)
	f.provider.reply = "Я не знаю."
	f.messenger.errFor[500] = errors.New("admin blocked the bot")

	result := f.service.Process(context.Background(), f.company, incoming("Вопрос"))

	assert.Equal(t, StatusHandoffFailed, result.Status)
	assert.Equal(t, string(NotifyDeliveryFailed), result.Reason)
	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, int64(100), f.messenger.sent[0].chatID)
}

func TestProcessReplyDeliveryFailure(t *testing.T) {
	f := newServiceFixture(t, "{}")
	f.messenger.errFor[100] = errors.New("client blocked the bot")

	result := f.service.Process(context.Background(), f.company, incoming("Привет"))

	assert.Equal(t, StatusError, result.Status)
	// The exchange is still recorded.
	assert.Len(t, f.messages.messages, 2)
}

func TestProcessProviderChainExhausted(t *testing.T) {
	f := newServiceFixture(t, "{}")
	f.provider.err = errors.New("provider down")

	result := f.service.Process(context.Background(), f.company, incoming("Привет"))

	// The apology is delivered and recorded with the fallback label; the
	// apology text itself does not trip the handoff heuristic.
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, FallbackProviderID, result.ServiceUsed)
	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, DefaultApology, f.messenger.sent[0].text)
	assert.Equal(t, FallbackProviderID, f.messages.messages[1].Provider)
}

func TestProcessHistoryFailureStillAnswers(t *testing.T) {
	f := newServiceFixture(t, "{}")
	f.service.Process(context.Background(), f.company, incoming("Привет"))
	f.messages.historyErr = errors.New("db hiccup")

	result := f.service.Process(context.Background(), f.company, incoming("Ещё вопрос"))

	// Recording also fails, but both failures only degrade, never abort.
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, 2, f.provider.calls, "the provider is still consulted without history")
	require.Len(t, f.messenger.sent, 2)
}
