// Bulk-sends the attendance-reminder template to confirmed guests. Each
// message carries that guest's QR entry code as a dynamic header image,
// linked straight from the QR service.
package main

import (
	"flag"
	"log"

	"invite-gateway/internal/badge"
	"invite-gateway/internal/config"
	"invite-gateway/internal/directory"
	"invite-gateway/internal/whatsapp"
)

func main() {
	csvPath := flag.String("csv", "./attending.csv", "attending recipients CSV")
	template := flag.String("template", "attending_reminder2", "approved template name")
	lang := flag.String("lang", "en", "template language code")
	flag.Parse()

	cfg := config.LoadConfig()

	dir, err := directory.Load(*csvPath)
	if err != nil {
		log.Fatalf("Failed to load attending recipients: %v", err)
	}
	log.Printf("CSV file processed. Found %d recipients.", len(dir.All()))

	client := whatsapp.NewClient(cfg)

	sent := 0
	for _, rec := range dir.All() {
		log.Printf("Sending reminder to %s", rec.Number)

		components := []whatsapp.ComponentObj{
			{
				Type: "header",
				Parameters: []whatsapp.ParameterObj{
					{Type: "image", Image: &whatsapp.MediaObj{Link: badge.QRURL(cfg.QRServiceURL, rec.Number)}},
				},
			},
		}

		if err := client.SendTemplateMessage(rec.Number, *template, *lang, components); err != nil {
			log.Printf("Failed to send reminder to %s: %v", rec.Number, err)
			continue
		}
		sent++
	}

	log.Printf("All reminders processed: %d/%d sent", sent, len(dir.All()))
}
