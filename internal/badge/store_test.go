package badge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"invite-gateway/internal/config"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesFileAndBuildsURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "event.example.com", time.Hour)
	require.NoError(t, err)

	url, err := s.Save("201000000001", []byte("png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://event.example.com/public/qr_201000000001_"), url)
	assert.Contains(t, url, "?t=")

	files, err := filepath.Glob(filepath.Join(dir, "qr_201000000001_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSaveNamesNeverCollide(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "event.example.com", time.Hour)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		url, err := s.Save("201000000001", []byte("png"))
		require.NoError(t, err)
		assert.False(t, seen[url], "duplicate badge URL %s", url)
		seen[url] = true
	}

	files, err := filepath.Glob(filepath.Join(dir, "qr_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 20)
}

func TestSweepRemovesOnlyExpiredBadges(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "event.example.com", time.Hour)
	require.NoError(t, err)

	_, err = s.Save("201000000001", []byte("old"))
	require.NoError(t, err)
	_, err = s.Save("201000000002", []byte("fresh"))
	require.NoError(t, err)

	// Not a generated badge; the sweeper must leave it alone.
	other := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(other, []byte("<html>"), 0o644))

	files, err := filepath.Glob(filepath.Join(dir, "qr_201000000001_*.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(files[0], stale, stale))

	assert.Equal(t, 1, s.Sweep())

	remaining, err := filepath.Glob(filepath.Join(dir, "qr_*.png"))
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.FileExists(t, other)
}

func TestCreatePass(t *testing.T) {
	qr, err := qrcode.Encode("T201000000001", qrcode.Medium, 200)
	require.NoError(t, err)

	qrSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(qr)
	}))
	defer qrSrv.Close()

	framePath := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(framePath, testFrame(t), 0o644))

	dir := t.TempDir()
	store, err := NewStore(dir, "event.example.com", time.Hour)
	require.NoError(t, err)

	svc := NewService(&config.Config{QRServiceURL: qrSrv.URL, FramePath: framePath}, store)

	url, err := svc.CreatePass(context.Background(), "201000000001", "Omar")
	require.NoError(t, err)
	assert.Contains(t, url, "event.example.com/public/qr_201000000001_")

	files, err := filepath.Glob(filepath.Join(dir, "qr_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestCreatePassQRServiceDown(t *testing.T) {
	qrSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer qrSrv.Close()

	framePath := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(framePath, testFrame(t), 0o644))

	store, err := NewStore(t.TempDir(), "event.example.com", time.Hour)
	require.NoError(t, err)

	svc := NewService(&config.Config{QRServiceURL: qrSrv.URL, FramePath: framePath}, store)

	_, err = svc.CreatePass(context.Background(), "201000000001", "Omar")
	assert.Error(t, err)
}

func TestCreatePassMissingFrame(t *testing.T) {
	qrSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	}))
	defer qrSrv.Close()

	store, err := NewStore(t.TempDir(), "event.example.com", time.Hour)
	require.NoError(t, err)

	svc := NewService(&config.Config{
		QRServiceURL: qrSrv.URL,
		FramePath:    filepath.Join(t.TempDir(), "missing.png"),
	}, store)

	_, err = svc.CreatePass(context.Background(), "201000000001", "Omar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read frame asset")
}
