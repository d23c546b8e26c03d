package main

import (
	"context"
	"log"
	"time"

	"invite-gateway/internal/api"
	"invite-gateway/internal/badge"
	"invite-gateway/internal/config"
	"invite-gateway/internal/directory"
	"invite-gateway/internal/msglog"
	"invite-gateway/internal/pipeline"
	"invite-gateway/internal/sheets"
	"invite-gateway/internal/webhook"
	"invite-gateway/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	dir, err := directory.Load(cfg.RecipientsCSV)
	if err != nil {
		log.Fatalf("Failed to load recipients: %v", err)
	}
	log.Printf("Loaded %d recipients from %s", len(dir.All()), cfg.RecipientsCSV)

	store, err := badge.NewStore(cfg.PublicDir, cfg.ExternalHostname, cfg.BadgeTTL)
	if err != nil {
		log.Fatalf("Failed to prepare badge store: %v", err)
	}
	store.StartSweeper(context.Background(), time.Hour)

	whatsappClient := whatsapp.NewClient(cfg)
	badgeService := badge.NewService(cfg, store)
	sheetLogger := sheets.NewLogger(cfg.SheetWebhookURL)
	messageLog := msglog.New(msglog.DefaultCapacity)

	replyPipeline := pipeline.New(dir, whatsappClient, badgeService, sheetLogger, messageLog)
	webhookHandler := webhook.NewHandler(cfg, replyPipeline)
	dashboardHandler := api.NewDashboardHandler(whatsappClient, messageLog)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Webhook Routes
	r.GET("/webhook", webhookHandler.VerifyWebhook)
	r.POST("/webhook", webhookHandler.HandleMessage)

	// Reply/Log API Routes
	r.POST("/reply", dashboardHandler.ManualReply)
	r.GET("/messages", dashboardHandler.GetMessages)

	// Generated badges are served from the public directory
	r.Static("/public", cfg.PublicDir)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
