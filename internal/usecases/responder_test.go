package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

func newTestResponder(providers ...interfaces.Provider) *Responder {
	return NewResponder(providers, time.Second, 500, 0.7, "", discardLogger())
}

func TestGenerateFirstProviderWins(t *testing.T) {
	first := &fakeProvider{id: "openai", reply: "Здравствуйте!"}
	second := &fakeProvider{id: "nebius", reply: "другой ответ"}

	reply, provider := newTestResponder(first, second).Generate(context.Background(), entities.ChatRequest{})

	assert.Equal(t, "Здравствуйте!", reply)
	assert.Equal(t, "openai", provider)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls, "fallback must not run after a success")
}

func TestGenerateFallsThroughOnError(t *testing.T) {
	first := &fakeProvider{id: "openai", err: errors.New("rate limited")}
	second := &fakeProvider{id: "nebius", reply: "ответ"}

	reply, provider := newTestResponder(first, second).Generate(context.Background(), entities.ChatRequest{})

	assert.Equal(t, "ответ", reply)
	assert.Equal(t, "nebius", provider)
}

func TestGenerateSkipsEmptyReply(t *testing.T) {
	first := &fakeProvider{id: "openai", reply: "   \n"}
	second := &fakeProvider{id: "anthropic", reply: "содержательный ответ"}

	reply, provider := newTestResponder(first, second).Generate(context.Background(), entities.ChatRequest{})

	assert.Equal(t, "содержательный ответ", reply)
	assert.Equal(t, "anthropic", provider)
}

func TestGenerateExhaustedChain(t *testing.T) {
	first := &fakeProvider{id: "openai", err: errors.New("down")}
	second := &fakeProvider{id: "nebius", err: errors.New("down too")}

	reply, provider := newTestResponder(first, second).Generate(context.Background(), entities.ChatRequest{})

	assert.Equal(t, DefaultApology, reply)
	assert.Equal(t, FallbackProviderID, provider)
}

func TestGenerateEmptyChain(t *testing.T) {
	reply, provider := newTestResponder().Generate(context.Background(), entities.ChatRequest{})

	assert.Equal(t, DefaultApology, reply)
	assert.Equal(t, FallbackProviderID, provider)
}

func TestGenerateCustomApology(t *testing.T) {
	r := NewResponder(nil, time.Second, 500, 0.7, "Сервис недоступен.", discardLogger())

	reply, provider := r.Generate(context.Background(), entities.ChatRequest{})

	assert.Equal(t, "Сервис недоступен.", reply)
	assert.Equal(t, FallbackProviderID, provider)
}

func TestGenerateAppliesTuning(t *testing.T) {
	p := &fakeProvider{id: "openai", reply: "ок"}

	newTestResponder(p).Generate(context.Background(), entities.ChatRequest{
		Turns: []entities.Turn{{Role: entities.RoleUser, Content: "привет"}},
	})

	assert.Equal(t, 500, p.lastReq.MaxTokens)
	assert.InDelta(t, 0.7, p.lastReq.Temperature, 1e-9)
}
