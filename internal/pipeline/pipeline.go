// Package pipeline implements the webhook reply flow: classify an inbound
// RSVP message, send the matching reply, and record the outcome. Each event
// runs straight through Received → Classified → Responding → Logged; no
// conversation state is kept between messages.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"invite-gateway/internal/directory"
	"invite-gateway/internal/msglog"
)

// Reply classification is exact-match and case-sensitive on the extracted
// text; these are the two button titles of the invite template.
const (
	ReplyAttending    = "Attending"
	ReplyNotAttending = "Not Attending"
)

// Outcome markers, mirrored to the sheet and the /messages log.
const (
	StatusBadgeSent   = "✅ QR Code with Frame and Name sent successfully"
	StatusBadgeFailed = "❌ QR Code creation failed"
	StatusDeclineSent = "✅ Thanks message sent successfully"
	StatusSendFailed  = "❌ Reply failed to send"
	StatusNoReply     = "ℹ️ No logical reply found"
)

const declineBody = "Thank you for letting us know. We will truly miss your presence."

const badgeCaption = `Hello %s, Thank you for confirming your attendance to *talabat Egypt’s Annual Partners Event*.

Please use this QR code at the entrance gate.

📅 5 Oct 2025
📍 Grand Egyptian Museum
⏰ 6:00 PM
Dress code: Business formal attire

Please note that this is a non-transferable personal invite.`

// dedupCapacity bounds the provider-message-id cache that suppresses
// duplicate webhook deliveries.
const dedupCapacity = 512

// InboundEvent is the flattened view of one webhook message.
type InboundEvent struct {
	MessageID string
	From      string
	Type      string
	Text      string
}

type MessageSender interface {
	SendMessage(to, body string) error
	SendImageMessage(to, imageURL, caption string) error
}

type PassCreator interface {
	CreatePass(ctx context.Context, phone, name string) (string, error)
}

type SheetAppender interface {
	Append(ctx context.Context, entry msglog.Entry) error
}

type Pipeline struct {
	Directory *directory.Directory
	Sender    MessageSender
	Badges    PassCreator
	Sheet     SheetAppender
	Log       *msglog.Log

	mu        sync.Mutex
	seen      map[string]struct{}
	seenOrder []string
}

func New(dir *directory.Directory, sender MessageSender, badges PassCreator, sheet SheetAppender, l *msglog.Log) *Pipeline {
	return &Pipeline{
		Directory: dir,
		Sender:    sender,
		Badges:    badges,
		Sheet:     sheet,
		Log:       l,
		seen:      make(map[string]struct{}),
	}
}

// Handle processes one inbound event to completion. The webhook handler runs
// it on its own goroutine, so nothing here can delay the transport ack; every
// failure is logged and absorbed.
func (p *Pipeline) Handle(ev InboundEvent) {
	if p.isDuplicate(ev.MessageID) {
		log.Printf("Skipping duplicate webhook delivery %s from %s", ev.MessageID, ev.From)
		return
	}

	name := p.Directory.DisplayName(ev.From)
	log.Printf("New message from %s (%s): %s", name, ev.From, ev.Text)

	var status string
	switch ev.Text {
	case ReplyAttending:
		status = p.sendBadge(ev.From, name)
	case ReplyNotAttending:
		status = p.sendDecline(ev.From)
	default:
		status = StatusNoReply
	}

	entry := msglog.Entry{
		Name:        name,
		Number:      ev.From,
		Message:     ev.Text,
		ReplyStatus: status,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.Sheet.Append(ctx, entry); err != nil {
		log.Printf("Error updating sheet for %s: %v", ev.From, err)
	}

	p.Log.Append(entry)
}

func (p *Pipeline) sendBadge(phone, name string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	imageURL, err := p.Badges.CreatePass(ctx, phone, name)
	if err != nil {
		log.Printf("Error creating framed QR for %s: %v", phone, err)
		return StatusBadgeFailed
	}

	caption := fmt.Sprintf(badgeCaption, name)
	if err := p.Sender.SendImageMessage(phone, imageURL, caption); err != nil {
		log.Printf("Error sending QR pass to %s: %v", phone, err)
		return StatusSendFailed
	}

	return StatusBadgeSent
}

func (p *Pipeline) sendDecline(phone string) string {
	if err := p.Sender.SendMessage(phone, declineBody); err != nil {
		log.Printf("Error sending decline reply to %s: %v", phone, err)
		return StatusSendFailed
	}
	return StatusDeclineSent
}

// isDuplicate records the provider message id and reports whether it was
// already seen. The cache is FIFO-bounded; events without an id are never
// deduplicated.
func (p *Pipeline) isDuplicate(messageID string) bool {
	if messageID == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[messageID]; ok {
		return true
	}
	p.seen[messageID] = struct{}{}
	p.seenOrder = append(p.seenOrder, messageID)
	if len(p.seenOrder) > dedupCapacity {
		oldest := p.seenOrder[0]
		p.seenOrder = p.seenOrder[1:]
		delete(p.seen, oldest)
	}
	return false
}
