package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	VerifyToken      string
	WhatsAppToken    string
	PhoneNumberID    string
	ExternalHostname string
	SheetWebhookURL  string
	RecipientsCSV    string
	FramePath        string
	PublicDir        string
	QRServiceURL     string
	BadgeTTL         time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		VerifyToken:      getEnv("VERIFY_TOKEN", ""),
		WhatsAppToken:    getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:    getEnv("PHONE_NUMBER_ID", ""),
		ExternalHostname: getEnv("EXTERNAL_HOSTNAME", "localhost:8080"),
		SheetWebhookURL:  getEnv("SHEET_WEBHOOK_URL", ""),
		RecipientsCSV:    getEnv("RECIPIENTS_CSV", "./recipients.csv"),
		FramePath:        getEnv("FRAME_PATH", "./assets/frame.png"),
		PublicDir:        getEnv("PUBLIC_DIR", "./public"),
		QRServiceURL:     getEnv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/"),
		BadgeTTL:         getDurationEnv("BADGE_TTL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s, using default: %v", key, err)
		return fallback
	}
	return d
}
