package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"invite-gateway/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(&config.Config{WhatsAppToken: "test-token", PhoneNumberID: "12345"})
	c.BaseURL = srv.URL
	return c
}

func TestSendMessageWireShape(t *testing.T) {
	var got map[string]interface{}
	var auth, path string

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	})

	err := c.SendMessage("201000000001", "hello")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", auth)
	assert.Equal(t, "/12345/messages", path)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "201000000001", got["to"])
	assert.Equal(t, "text", got["type"])
	assert.Equal(t, "hello", got["text"].(map[string]interface{})["body"])
}

func TestSendImageMessageWireShape(t *testing.T) {
	var got map[string]interface{}

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{}`))
	})

	err := c.SendImageMessage("201000000001", "https://example.com/qr.png", "your pass")
	require.NoError(t, err)

	assert.Equal(t, "image", got["type"])
	img := got["image"].(map[string]interface{})
	assert.Equal(t, "https://example.com/qr.png", img["link"])
	assert.Equal(t, "your pass", img["caption"])
	_, hasText := got["text"]
	assert.False(t, hasText)
}

func TestSendTemplateMessageWireShape(t *testing.T) {
	var got map[string]interface{}

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{}`))
	})

	components := []ComponentObj{
		{
			Type: "header",
			Parameters: []ParameterObj{
				{Type: "image", Image: &MediaObj{Link: "https://example.com/header.jpg"}},
			},
		},
		{
			Type: "body",
			Parameters: []ParameterObj{
				{Type: "text", Text: "Omar"},
			},
		},
	}
	err := c.SendTemplateMessage("201000000001", "event_invite", "en", components)
	require.NoError(t, err)

	assert.Equal(t, "template", got["type"])
	tmpl := got["template"].(map[string]interface{})
	assert.Equal(t, "event_invite", tmpl["name"])
	assert.Equal(t, "en", tmpl["language"].(map[string]interface{})["code"])

	comps := tmpl["components"].([]interface{})
	require.Len(t, comps, 2)
	header := comps[0].(map[string]interface{})
	assert.Equal(t, "header", header["type"])
	body := comps[1].(map[string]interface{})
	params := body["parameters"].([]interface{})
	assert.Equal(t, "Omar", params[0].(map[string]interface{})["text"])
}

func TestProviderErrorPropagates(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad token"}}`))
	})

	err := c.SendMessage("201000000001", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad token")
}
