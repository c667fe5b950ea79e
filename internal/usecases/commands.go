package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
)

// Literal command prefixes recognized before any AI processing. A matched
// command short-circuits the pipeline: no prompt, no provider call, no
// stored messages.
const (
	commandReportID    = "report my id"
	commandSetLanguage = "set language "
)

// CommandHandler executes the fixed inline command set.
type CommandHandler struct {
	clients interfaces.ClientStore
}

func NewCommandHandler(clients interfaces.ClientStore) *CommandHandler {
	return &CommandHandler{clients: clients}
}

// Execute checks text against the command set. When handled is true the
// returned reply must be delivered verbatim and the rest of the pipeline
// skipped. Errors are persistence failures only.
func (h *CommandHandler) Execute(ctx context.Context, client *entities.Client, text string) (reply string, handled bool, err error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if lower == commandReportID {
		return fmt.Sprintf("Ваш идентификатор клиента: %d", client.ID), true, nil
	}

	if strings.HasPrefix(lower, commandSetLanguage) {
		code := strings.TrimSpace(strings.TrimPrefix(lower, commandSetLanguage))
		if !validLanguageCode(code) {
			return "Укажите двухбуквенный код языка, например: set language ru", true, nil
		}
		if err := h.clients.SetPreferredLanguage(ctx, client.ID, code); err != nil {
			return "", true, fmt.Errorf("set preferred language: %w", err)
		}
		if client.Settings == nil {
			client.Settings = map[string]string{}
		}
		client.Settings[entities.SettingPreferredLanguage] = code
		return fmt.Sprintf("Язык ответов изменён на «%s».", code), true, nil
	}

	return "", false, nil
}

func validLanguageCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
