package entities

import "time"

// Message directions. Role alternation in prompts is derived from this flag
// only, never from message text.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message is one stored conversation turn. Rows are append-only.
type Message struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"company_id"`
	ClientID  int    `json:"client_id"`
	Text      string `json:"text"`
	Direction string `json:"direction"`
	// Provider labels which AI backend produced an outbound message.
	Provider string `json:"provider,omitempty"`
	// ResponseTime is the delta to the previous message of the opposite
	// direction in the same thread; nil when there is none.
	ResponseTime *time.Duration `json:"response_time,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Chat roles for provider requests.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged entry of a provider request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the fully assembled input for an AI provider call.
type ChatRequest struct {
	System      string  `json:"system,omitempty"`
	Turns       []Turn  `json:"turns"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}
