// Package sheets appends outcome rows to a Google Apps Script web app. The
// sheet is an operator convenience: callers treat every append as best-effort
// and must not fail the reply flow on error.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invite-gateway/internal/msglog"
)

type Logger struct {
	URL  string
	http *http.Client
}

func NewLogger(url string) *Logger {
	return &Logger{
		URL:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Append posts one row to the sheet endpoint. A Logger with an empty URL is
// disabled and appends are no-ops.
func (l *Logger) Append(ctx context.Context, entry msglog.Entry) error {
	if l.URL == "" {
		return nil
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", l.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheet append failed: %s - %s", resp.Status, string(body))
	}

	return nil
}
