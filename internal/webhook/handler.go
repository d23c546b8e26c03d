package webhook

import (
	"log"
	"net/http"

	"invite-gateway/internal/config"
	"invite-gateway/internal/pipeline"
	"invite-gateway/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Config   *config.Config
	Pipeline *pipeline.Pipeline
}

func NewHandler(cfg *config.Config, p *pipeline.Pipeline) *Handler {
	return &Handler{
		Config:   cfg,
		Pipeline: p,
	}
}

func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token != "" {
		if mode == "subscribe" && token == h.Config.VerifyToken {
			log.Println("Webhook verified successfully!")
			c.String(http.StatusOK, challenge)
		} else {
			c.Status(http.StatusForbidden)
		}
	} else {
		c.Status(http.StatusBadRequest)
	}
}

// HandleMessage acknowledges the provider immediately; the reply pipeline
// runs detached so downstream latency can never trigger redelivery storms.
func (h *Handler) HandleMessage(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Error binding JSON: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	if ev, ok := extractEvent(&payload); ok {
		go h.Pipeline.Handle(ev)
	}

	c.Status(http.StatusOK)
}

// extractEvent flattens the nested webhook payload into an InboundEvent.
// Payloads without a message and a contact (status updates and the like) are
// acknowledged and dropped.
func extractEvent(payload *models.WebhookPayload) (pipeline.InboundEvent, bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return pipeline.InboundEvent{}, false
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 || len(value.Contacts) == 0 {
		return pipeline.InboundEvent{}, false
	}

	message := value.Messages[0]
	phone := value.Contacts[0].WaID
	if phone == "" {
		phone = "Unknown"
	}

	var text string
	switch message.Type {
	case "text":
		text = message.Text.Body
	case "button":
		if message.Button != nil {
			text = message.Button.Text
		}
	case "interactive":
		if message.Interactive != nil {
			if message.Interactive.ButtonReply != nil {
				text = message.Interactive.ButtonReply.Title
			} else if message.Interactive.ListReply != nil {
				text = message.Interactive.ListReply.Title
			}
		}
	default:
		text = "[" + message.Type + " message received]"
	}

	return pipeline.InboundEvent{
		MessageID: message.ID,
		From:      phone,
		Type:      message.Type,
		Text:      text,
	}, true
}
