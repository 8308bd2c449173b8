package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/config"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/circuitbreaker"
)

// Client sends messages through the WhatsApp gateway microservice.
type Client interface {
	SendMessage(ctx context.Context, number, message string) error
}

type httpClient struct {
	baseURL string
	secret  string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient builds a gateway client with a bounded request timeout. A
// circuit breaker fails fast when the gateway keeps erroring, so receipt
// dispatch does not pile up goroutines waiting on a dead endpoint.
func NewClient(cfg config.WhatsAppConfig) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: cfg.ServiceURL,
		secret:  cfg.SecretKey,
		client:  &http.Client{Timeout: timeout},
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "whatsapp-gateway",
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		}),
	}
}

type sendMessageRequest struct {
	Secret  string `json:"secret"`
	Number  string `json:"number"`
	Message string `json:"message"`
}

func (c *httpClient) SendMessage(ctx context.Context, number, message string) error {
	return c.breaker.Execute(func() error {
		return c.send(ctx, number, message)
	})
}

func (c *httpClient) send(ctx context.Context, number, message string) error {
	payload, err := json.Marshal(sendMessageRequest{
		Secret:  c.secret,
		Number:  number,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/send-message", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call WhatsApp service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("WhatsApp service returned status %d", resp.StatusCode)
	}
	return nil
}
