package usecases

import (
	"strings"
	"unicode/utf8"
)

// Stock phrases signalling the model does not know the answer. Overridable
// through configuration; the defaults match the Russian-speaking audience
// the bot serves.
var defaultUncertaintyPhrases = []string{
	"не знаю",
	"не уверен",
	"не могу ответить",
	"не располагаю информацией",
	"не могу помочь",
	"извините, но я не могу",
	"к сожалению, я не могу",
}

// Hedge markers that make a suspiciously short reply escalate.
var defaultHedgeMarkers = []string{"извините", "понимаю", "попробуйте"}

const shortReplyThreshold = 10 // runes

// HandoffDetector classifies whether a generated reply needs a human
// operator. Deliberately over-sensitive: an unnecessary handoff is cheaper
// than a missed one.
type HandoffDetector struct {
	uncertaintyPhrases []string
	hedgeMarkers       []string
}

// NewHandoffDetector builds a detector. Pass nil phrases to use the
// defaults.
func NewHandoffDetector(uncertaintyPhrases []string) *HandoffDetector {
	if len(uncertaintyPhrases) == 0 {
		uncertaintyPhrases = defaultUncertaintyPhrases
	}
	return &HandoffDetector{
		uncertaintyPhrases: uncertaintyPhrases,
		hedgeMarkers:       defaultHedgeMarkers,
	}
}

// Detect returns whether the reply must be escalated and, for diagnostics,
// the trigger that matched. Never fails; an empty reply never escalates.
func (d *HandoffDetector) Detect(reply string, triggers []string) (bool, string) {
	if reply == "" {
		return false, ""
	}
	lower := strings.ToLower(reply)

	for _, trigger := range triggers {
		if trigger == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(trigger)) {
			return true, trigger
		}
	}

	for _, phrase := range d.uncertaintyPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true, phrase
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(reply)) < shortReplyThreshold {
		for _, marker := range d.hedgeMarkers {
			if strings.Contains(lower, marker) {
				return true, marker
			}
		}
	}

	return false, ""
}
