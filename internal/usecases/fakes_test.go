package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProvider struct {
	id      string
	reply   string
	err     error
	calls   int
	lastReq entities.ChatRequest
}

func (p *fakeProvider) ID() string { return p.id }

func (p *fakeProvider) Complete(_ context.Context, req entities.ChatRequest) (string, error) {
	p.calls++
	p.lastReq = req
	return p.reply, p.err
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	sent   []sentMessage
	err    error
	errFor map[int64]error
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string) error {
	if err, ok := m.errFor[chatID]; ok {
		return err
	}
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeCompanyStore struct {
	companies map[string]*entities.Company
	err       error
}

func (s *fakeCompanyStore) GetByToken(_ context.Context, token string) (*entities.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.companies[token], nil
}

type clientKey struct {
	companyID  int
	telegramID int64
}

type fakeClientStore struct {
	clients   map[clientKey]*entities.Client
	nextID    int
	err       error
	langErr   error
	langCalls map[int]string
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{
		clients:   make(map[clientKey]*entities.Client),
		nextID:    1,
		langCalls: make(map[int]string),
	}
}

func (s *fakeClientStore) GetOrCreate(_ context.Context, companyID int, telegramID int64, username, firstName, defaultLanguage string) (*entities.Client, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	key := clientKey{companyID: companyID, telegramID: telegramID}
	if c, ok := s.clients[key]; ok {
		c.Username = username
		c.FirstName = firstName
		return c, false, nil
	}
	c := &entities.Client{
		ID:         s.nextID,
		CompanyID:  companyID,
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		Settings:   map[string]string{entities.SettingPreferredLanguage: defaultLanguage},
		CreatedAt:  time.Now(),
	}
	s.nextID++
	s.clients[key] = c
	return c, true, nil
}

func (s *fakeClientStore) SetPreferredLanguage(_ context.Context, clientID int, lang string) error {
	if s.langErr != nil {
		return s.langErr
	}
	s.langCalls[clientID] = lang
	return nil
}

type fakeMessageStore struct {
	messages   []entities.Message
	nextID     int
	insertErr  error
	historyErr error
}

func (s *fakeMessageStore) Insert(_ context.Context, msg *entities.Message) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.nextID++
	msg.ID = s.nextID
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeMessageStore) LastInThread(_ context.Context, companyID, clientID int) (*entities.Message, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].CompanyID == companyID && s.messages[i].ClientID == clientID {
			msg := s.messages[i]
			return &msg, nil
		}
	}
	return nil, nil
}

func (s *fakeMessageStore) History(_ context.Context, companyID, clientID, limit int) ([]entities.Message, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	var thread []entities.Message
	for _, msg := range s.messages {
		if msg.CompanyID == companyID && msg.ClientID == clientID {
			thread = append(thread, msg)
		}
	}
	if len(thread) > limit {
		thread = thread[len(thread)-limit:]
	}
	return thread, nil
}

type fakeAnalyticsStore struct {
	rebuilds int
	err      error
}

func (s *fakeAnalyticsStore) RebuildDay(_ context.Context, _ int, _ time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.rebuilds++
	return nil
}
