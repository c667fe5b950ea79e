package interfaces

import (
	"context"
	"time"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

// Provider is one interchangeable AI backend. Implementations live in
// infrastructure; the response engine iterates them as an explicit ordered
// list.
type Provider interface {
	// ID returns the provider label stored on outbound messages
	// (e.g. "openai", "nebius", "anthropic").
	ID() string
	Complete(ctx context.Context, req entities.ChatRequest) (string, error)
}

// Messenger delivers text to a chat. Used for both client replies and admin
// alerts.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// CompanyStore resolves tenants. Not-found is reported as (nil, nil).
type CompanyStore interface {
	GetByToken(ctx context.Context, token string) (*entities.Company, error)
}

// ClientStore owns the per-tenant participant rows.
type ClientStore interface {
	// GetOrCreate resolves the client for (companyID, telegramID), creating
	// it with default settings on first contact and idempotently refreshing
	// mutable display fields otherwise. The boolean reports creation.
	GetOrCreate(ctx context.Context, companyID int, telegramID int64, username, firstName, defaultLanguage string) (*entities.Client, bool, error)
	SetPreferredLanguage(ctx context.Context, clientID int, lang string) error
}

// MessageStore appends and reads conversation turns.
type MessageStore interface {
	Insert(ctx context.Context, msg *entities.Message) error
	// LastInThread returns the newest message of the (company, client)
	// thread, or nil when the thread is empty.
	LastInThread(ctx context.Context, companyID, clientID int) (*entities.Message, error)
	// History returns up to limit newest messages in chronological order.
	History(ctx context.Context, companyID, clientID, limit int) ([]entities.Message, error)
}

// AnalyticsStore maintains the derived daily rollups.
type AnalyticsStore interface {
	// RebuildDay recomputes the rollup for the calendar day of `day`.
	// The operation is an idempotent upsert.
	RebuildDay(ctx context.Context, companyID int, day time.Time) error
}
