package badge

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store writes composed badges into the public directory so the static file
// server can hand them out, and sweeps expired ones.
type Store struct {
	Dir      string
	Hostname string
	TTL      time.Duration
}

func NewStore(dir, hostname string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create badge dir: %w", err)
	}
	return &Store{Dir: dir, Hostname: hostname, TTL: ttl}, nil
}

// Save writes the PNG under a per-request unique name and returns its
// cache-busted public URL. The nonce keeps two badges for the same phone from
// ever colliding or serving a stale CDN copy.
func (s *Store) Save(phone string, png []byte) (string, error) {
	nonce := strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("qr_%s_%d_%s.png", phone, time.Now().UnixMilli(), nonce)

	if err := os.WriteFile(filepath.Join(s.Dir, name), png, 0o644); err != nil {
		return "", fmt.Errorf("write badge: %w", err)
	}

	return fmt.Sprintf("https://%s/public/%s?t=%s", s.Hostname, name, nonce), nil
}

// Sweep deletes generated badges older than the TTL and reports how many were
// removed. Only qr_*.png files are touched; anything else in the public
// directory is left alone.
func (s *Store) Sweep() int {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "qr_*.png"))
	if err != nil {
		log.Printf("Error sweeping badge dir: %v", err)
		return 0
	}

	cutoff := time.Now().Add(-s.TTL)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Printf("Error removing expired badge %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed
}

// StartSweeper sweeps periodically until the context is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Printf("Removed %d expired badge(s)", n)
				}
			}
		}
	}()
}
