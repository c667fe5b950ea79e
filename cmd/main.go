package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Hearmic/chatbot-mvp/internal/config"
	"github.com/Hearmic/chatbot-mvp/internal/infrastructure"
	"github.com/Hearmic/chatbot-mvp/internal/interfaces"
	httpiface "github.com/Hearmic/chatbot-mvp/internal/interfaces/http"
	"github.com/Hearmic/chatbot-mvp/internal/repository"
	"github.com/Hearmic/chatbot-mvp/internal/usecases"
)

func main() {
	// Missing .env is fine in containers, everything comes from real env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	pgClient, err := infrastructure.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()

	telegramClient, err := infrastructure.NewTelegramClient(cfg.TelegramBotToken)
	if err != nil {
		log.Error("telegram bot initialization failed", "error", err)
		os.Exit(1)
	}
	log.Info("telegram bot connected", "username", telegramClient.BotUsername())

	companyRepo := repository.NewCompanyRepository(pgClient.Pool)
	clientRepo := repository.NewClientRepository(pgClient.Pool)
	messageRepo := repository.NewMessageRepository(pgClient.Pool)
	analyticsRepo := repository.NewAnalyticsRepository(pgClient.Pool)

	providers := buildProviders(cfg, log)
	responder := usecases.NewResponder(providers, cfg.ProviderTimeout, cfg.MaxTokens, cfg.Temperature, cfg.ApologyText, log)

	service := usecases.NewMessageService(
		companyRepo,
		clientRepo,
		messageRepo,
		telegramClient,
		responder,
		usecases.NewHandoffDetector(cfg.UncertaintyPhrases),
		usecases.NewAdminNotifier(telegramClient, log),
		usecases.NewRecorder(messageRepo, analyticsRepo, log),
		usecases.NewCommandHandler(clientRepo),
		usecases.NewLanguageGuard(responder, cfg.TranslateReplies),
		log,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	httpiface.SetupRoutes(r, service)

	log.Info("starting http server", "addr", cfg.ListenAddr, "providers", len(providers))
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}

// buildProviders assembles the fallback chain in the configured order,
// skipping providers without an API key. An empty chain is allowed: the
// responder then always answers with the apology text.
func buildProviders(cfg *config.Config, log *slog.Logger) []interfaces.Provider {
	var providers []interfaces.Provider
	for _, id := range cfg.ProviderOrder {
		switch id {
		case "openai":
			if cfg.OpenAIAPIKey != "" {
				providers = append(providers, infrastructure.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel))
			}
		case "nebius":
			if cfg.NebiusAPIKey != "" {
				providers = append(providers, infrastructure.NewNebiusProvider(cfg.NebiusAPIKey, cfg.NebiusBaseURL, cfg.NebiusModel))
			}
		case "anthropic":
			if cfg.AnthropicAPIKey != "" {
				providers = append(providers, infrastructure.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel))
			}
		default:
			log.Warn("unknown provider in PROVIDER_ORDER", "provider", id)
		}
	}
	if len(providers) == 0 {
		log.Warn("no AI providers configured, every reply will be the apology text")
	}
	return providers
}
