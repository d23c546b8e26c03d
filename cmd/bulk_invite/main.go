// Bulk-sends the approved invitation template to every recipient in the CSV.
// The template carries a static header image and the guest first name as its
// one body parameter.
package main

import (
	"flag"
	"log"

	"invite-gateway/internal/config"
	"invite-gateway/internal/directory"
	"invite-gateway/internal/whatsapp"
)

func main() {
	csvPath := flag.String("csv", "", "recipients CSV (default: RECIPIENTS_CSV)")
	template := flag.String("template", "talabat_vip_inv", "approved template name")
	headerImage := flag.String("header-image", "https://raw.githubusercontent.com/Sirkil/talabat_partners_event/main/E-Invittation_V2%20(AR%26EN)%20.jpg", "template header image URL")
	lang := flag.String("lang", "en", "template language code")
	flag.Parse()

	cfg := config.LoadConfig()
	if *csvPath == "" {
		*csvPath = cfg.RecipientsCSV
	}

	dir, err := directory.Load(*csvPath)
	if err != nil {
		log.Fatalf("Failed to load recipients: %v", err)
	}

	client := whatsapp.NewClient(cfg)

	sent := 0
	for _, rec := range dir.All() {
		log.Printf("Sending template to %s (%s)", rec.Number, rec.FirstName)

		components := []whatsapp.ComponentObj{
			{
				Type: "header",
				Parameters: []whatsapp.ParameterObj{
					{Type: "image", Image: &whatsapp.MediaObj{Link: *headerImage}},
				},
			},
			{
				Type: "body",
				Parameters: []whatsapp.ParameterObj{
					{Type: "text", Text: rec.FirstName},
				},
			},
		}

		if err := client.SendTemplateMessage(rec.Number, *template, *lang, components); err != nil {
			log.Printf("Failed to send template to %s: %v", rec.Number, err)
			continue
		}
		sent++
	}

	log.Printf("All messages processed: %d/%d sent", sent, len(dir.All()))
}
