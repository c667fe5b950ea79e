package usecases

import (
	"context"
	"unicode"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

// DetectLanguage is a cheap script-based guess: text with more Cyrillic
// than Latin letters is Russian, everything else English. Good enough to
// decide whether a reply drifted into the wrong language.
func DetectLanguage(text string) string {
	cyrillic, latin := scriptCounts(text)
	if cyrillic > latin {
		return "ru"
	}
	return "en"
}

// LooksEnglish reports whether text contains Latin letters and no Cyrillic
// ones.
func LooksEnglish(text string) bool {
	cyrillic, latin := scriptCounts(text)
	return cyrillic == 0 && latin > 0
}

func scriptCounts(text string) (cyrillic, latin int) {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case r < 128 && unicode.IsLetter(r):
			latin++
		}
	}
	return cyrillic, latin
}

// LanguageGuard is the optional post-processing stage: when the inbound
// message is Russian but the generated reply drifted into English, one
// extra provider round-trip translates the reply. Disabled by default.
type LanguageGuard struct {
	responder *Responder
	enabled   bool
}

func NewLanguageGuard(responder *Responder, enabled bool) *LanguageGuard {
	return &LanguageGuard{responder: responder, enabled: enabled}
}

// Fix returns the reply, translated when the guard is enabled and the
// languages disagree. A failed translation keeps the original reply.
func (g *LanguageGuard) Fix(ctx context.Context, inbound, reply string) string {
	if g == nil || !g.enabled {
		return reply
	}
	if DetectLanguage(inbound) != "ru" || !LooksEnglish(reply) {
		return reply
	}
	translated, provider := g.responder.Generate(ctx, entities.ChatRequest{
		System: "Переведи текст пользователя на русский язык. В ответе верни только перевод.",
		Turns:  []entities.Turn{{Role: entities.RoleUser, Content: reply}},
	})
	if provider == FallbackProviderID {
		return reply
	}
	return translated
}
