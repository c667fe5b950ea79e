package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
	"github.com/Hearmic/chatbot-mvp/internal/usecases"
)

// Pipeline is the slice of MessageService the webhook needs.
type Pipeline interface {
	ResolveCompany(ctx context.Context, token string) (*entities.Company, error)
	Process(ctx context.Context, company *entities.Company, in usecases.IncomingMessage) usecases.Result
}

type Handler struct {
	pipeline Pipeline
}

func NewHandler(pipeline Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

func SetupRoutes(r *gin.Engine, pipeline Pipeline) {
	h := NewHandler(pipeline)

	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20))
	r.Use(RequestLogger())

	r.GET("/health", h.Health)
	r.POST("/webhook/:company_token", h.HandleWebhook)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// webhookPayload mirrors the subset of a Telegram update the pipeline
// consumes. Updates without a message (edits, callbacks) bind with a nil
// Message and are acknowledged without processing.
type webhookPayload struct {
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			ID        int64  `json:"id"`
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
		} `json:"from"`
	} `json:"message"`
}

// HandleWebhook is the single tenant entry point. The path token selects
// the company; tenant resolution failures are the only business outcomes
// that surface as HTTP error codes.
func (h *Handler) HandleWebhook(c *gin.Context) {
	token := c.Param("company_token")

	company, err := h.pipeline.ResolveCompany(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, usecases.ErrCompanyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		case errors.Is(err, usecases.ErrCompanyInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "company is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}
	if payload.Message == nil {
		c.JSON(http.StatusOK, usecases.Result{Status: usecases.StatusOK})
		return
	}

	result := h.pipeline.Process(c.Request.Context(), company, usecases.IncomingMessage{
		ChatID:    payload.Message.Chat.ID,
		FromID:    payload.Message.From.ID,
		Username:  payload.Message.From.Username,
		FirstName: payload.Message.From.FirstName,
		Text:      payload.Message.Text,
	})
	c.JSON(http.StatusOK, result)
}
