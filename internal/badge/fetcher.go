package badge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TicketPrefix namespaces entry-pass QR payloads so a scanned code is
// distinguishable from any other QR use.
const TicketPrefix = "T"

const qrPixelSize = "200x200"

// QRURL builds the public QR-service URL for a phone number. The reminder
// template uses this link directly as its header image.
func QRURL(serviceURL, phone string) string {
	return fmt.Sprintf("%s?size=%s&data=%s",
		strings.TrimSuffix(serviceURL, "?"), qrPixelSize, url.QueryEscape(TicketPrefix+phone))
}

// FetchQR downloads the rendered QR PNG for a phone number.
func FetchQR(ctx context.Context, client *http.Client, serviceURL, phone string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", QRURL(serviceURL, phone), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch qr: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch qr: unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
