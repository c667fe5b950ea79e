package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

// Recorder persists a handled turn (one inbound + one outbound message)
// and refreshes the company's daily rollup.
type Recorder struct {
	messages  interfaces.MessageStore
	analytics interfaces.AnalyticsStore
	now       func() time.Time
	log       *slog.Logger
}

func NewRecorder(messages interfaces.MessageStore, analytics interfaces.AnalyticsStore, log *slog.Logger) *Recorder {
	return &Recorder{messages: messages, analytics: analytics, now: time.Now, log: log}
}

// ResponseTimeSince derives a message's response time from the thread's
// previous message: the delta when the previous message was authored by the
// other direction, nil when the thread is empty or the previous message has
// the same direction.
func ResponseTimeSince(prev *entities.Message, direction string, at time.Time) *time.Duration {
	if prev == nil || prev.Direction == direction {
		return nil
	}
	d := at.Sub(prev.Timestamp)
	if d < 0 {
		d = 0
	}
	return &d
}

// Record appends the inbound message first, then the outbound reply with
// the just-created inbound as its predecessor, then rebuilds today's
// analytics. A failed rebuild is logged but does not fail the turn: the
// rollup is derived data and the next turn recomputes it.
func (r *Recorder) Record(ctx context.Context, companyID, clientID int, question, reply, provider string) error {
	inboundAt := r.now()
	prev, err := r.messages.LastInThread(ctx, companyID, clientID)
	if err != nil {
		return fmt.Errorf("load thread tail: %w", err)
	}

	inbound := &entities.Message{
		CompanyID:    companyID,
		ClientID:     clientID,
		Text:         question,
		Direction:    entities.DirectionInbound,
		ResponseTime: ResponseTimeSince(prev, entities.DirectionInbound, inboundAt),
		Timestamp:    inboundAt,
	}
	if err := r.messages.Insert(ctx, inbound); err != nil {
		return fmt.Errorf("persist inbound message: %w", err)
	}

	outboundAt := r.now()
	outbound := &entities.Message{
		CompanyID:    companyID,
		ClientID:     clientID,
		Text:         reply,
		Direction:    entities.DirectionOutbound,
		Provider:     provider,
		ResponseTime: ResponseTimeSince(inbound, entities.DirectionOutbound, outboundAt),
		Timestamp:    outboundAt,
	}
	if err := r.messages.Insert(ctx, outbound); err != nil {
		return fmt.Errorf("persist outbound message: %w", err)
	}

	if err := r.analytics.RebuildDay(ctx, companyID, inboundAt); err != nil {
		r.log.Error("daily analytics rebuild failed", "company_id", companyID, "error", err)
	}
	return nil
}
