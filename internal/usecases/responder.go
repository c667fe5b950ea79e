package usecases

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

// FallbackProviderID labels a reply that no provider produced.
const FallbackProviderID = "none"

// DefaultApology is sent when every provider fails.
const DefaultApology = "Произошла ошибка при обработке запроса. Пожалуйста, попробуйте позже."

// Responder obtains a reply from an ordered chain of providers. It never
// fails outward: an exhausted chain degrades to the fixed apology text.
type Responder struct {
	providers   []interfaces.Provider
	timeout     time.Duration
	maxTokens   int
	temperature float64
	apology     string
	log         *slog.Logger
}

func NewResponder(providers []interfaces.Provider, timeout time.Duration, maxTokens int, temperature float64, apology string, log *slog.Logger) *Responder {
	if apology == "" {
		apology = DefaultApology
	}
	return &Responder{
		providers:   providers,
		timeout:     timeout,
		maxTokens:   maxTokens,
		temperature: temperature,
		apology:     apology,
		log:         log,
	}
}

// Generate tries providers strictly in order and returns the first
// successful completion together with its provider label. Each call is
// bounded by the per-call timeout, so the worst case is len(providers) ×
// timeout. Outputs from different providers are never merged.
func (r *Responder) Generate(ctx context.Context, req entities.ChatRequest) (string, string) {
	req.MaxTokens = r.maxTokens
	req.Temperature = r.temperature

	for _, p := range r.providers {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		text, err := p.Complete(callCtx, req)
		cancel()

		if err != nil {
			r.log.Warn("provider call failed, advancing chain",
				"provider", p.ID(), "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			r.log.Warn("provider returned an empty completion, advancing chain",
				"provider", p.ID())
			continue
		}
		return text, p.ID()
	}

	r.log.Error("all providers exhausted, using apology text",
		"providers", len(r.providers))
	return r.apology, FallbackProviderID
}
