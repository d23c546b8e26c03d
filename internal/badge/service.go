package badge

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"invite-gateway/internal/config"
)

// Service ties the QR fetch, the frame composition and the public store into
// the one operation the reply pipeline needs.
type Service struct {
	QRServiceURL string
	FramePath    string
	Store        *Store
	http         *http.Client
}

func NewService(cfg *config.Config, store *Store) *Service {
	return &Service{
		QRServiceURL: cfg.QRServiceURL,
		FramePath:    cfg.FramePath,
		Store:        store,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

// CreatePass builds the entry pass for one guest and returns its public URL.
// Any step failing means no image is published and no partial badge can ever
// be sent.
func (s *Service) CreatePass(ctx context.Context, phone, name string) (string, error) {
	qr, err := FetchQR(ctx, s.http, s.QRServiceURL, phone)
	if err != nil {
		return "", err
	}

	frame, err := os.ReadFile(s.FramePath)
	if err != nil {
		return "", fmt.Errorf("read frame asset: %w", err)
	}

	img, err := Compose(frame, qr, name)
	if err != nil {
		return "", err
	}

	return s.Store.Save(phone, img)
}
