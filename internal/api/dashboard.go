package api

import (
	"log"
	"net/http"

	"invite-gateway/internal/msglog"
	"invite-gateway/internal/pipeline"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Sender pipeline.MessageSender
	Log    *msglog.Log
}

func NewDashboardHandler(sender pipeline.MessageSender, l *msglog.Log) *DashboardHandler {
	return &DashboardHandler{Sender: sender, Log: l}
}

// GetMessages returns the most recent 50 processed-message records.
func (h *DashboardHandler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, h.Log.Recent(50))
}

type ReplyRequest struct {
	Number       string `json:"number"`
	ReplyMessage string `json:"replyMessage"`
}

// ManualReply sends an operator-written text message and records it.
func (h *DashboardHandler) ManualReply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Number == "" || req.ReplyMessage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing number or replyMessage"})
		return
	}

	if err := h.Sender.SendMessage(req.Number, req.ReplyMessage); err != nil {
		log.Printf("Error sending manual reply to %s: %v", req.Number, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	log.Printf("Manual reply sent to %s: %s", req.Number, req.ReplyMessage)
	h.Log.Append(msglog.Entry{
		Name:        "Admin",
		Number:      req.Number,
		Message:     req.ReplyMessage,
		ReplyStatus: "Manual Reply",
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reply sent"})
}
