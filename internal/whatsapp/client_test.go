package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/config"
)

func newTestClient(url string) Client {
	return NewClient(config.WhatsAppConfig{
		ServiceURL: url,
		SecretKey:  "gateway-secret",
		Timeout:    time.Second,
	})
}

func TestSendMessagePostsPayload(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send-message", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	require.NoError(t, client.SendMessage(context.Background(), "628123456789", "Hai"))

	assert.Equal(t, "gateway-secret", got.Secret)
	assert.Equal(t, "628123456789", got.Number)
	assert.Equal(t, "Hai", got.Message)
}

func TestSendMessageGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), "628123456789", "Hai")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendMessageBreakerOpensOnRepeatedFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 5; i++ {
		assert.Error(t, client.SendMessage(context.Background(), "628123456789", "Hai"))
	}

	// The breaker is open now, so the gateway is no longer called.
	assert.Error(t, client.SendMessage(context.Background(), "628123456789", "Hai"))
	assert.Equal(t, 5, calls)
}
