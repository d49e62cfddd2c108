package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/phone"
)

const (
	gatewayTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

// GatewayError is a non-2xx answer from the WhatsApp gateway.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("whatsapp gateway returned %d: %s", e.Status, e.Body)
}

// Client sends text messages through a GOWA (go-whatsapp-web-multidevice)
// gateway paired with the firm's WhatsApp number.
type Client struct {
	endpoint  string
	authValue string
	deviceID  string
	http      *http.Client
	log       *logger.Logger
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Results struct {
		MessageID string `json:"message_id"`
		Status    string `json:"status"`
	} `json:"results"`
}

// NewClient returns nil when WHATSAPP_URL is unset.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	base := strings.TrimRight(cfg.GetWhatsAppURL(), "/")
	if base == "" {
		return nil
	}
	c := &Client{
		endpoint: base + "/send/message",
		deviceID: cfg.GetWhatsAppDeviceID(),
		http:     &http.Client{Timeout: gatewayTimeout},
		log:      log,
	}
	if key := cfg.GetWhatsAppKey(); key != "" {
		c.authValue = formatAuthHeader(key)
	}
	return c
}

// SendMessage delivers message to phoneNumber and returns the gateway's
// message id, which may be empty on older gateway builds.
func (c *Client) SendMessage(ctx context.Context, phoneNumber, message string) (string, error) {
	to := phone.GatewayDigits(phoneNumber)
	payload, err := json.Marshal(sendMessageRequest{Phone: to, Message: message})
	if err != nil {
		return "", fmt.Errorf("encode whatsapp message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authValue != "" {
		req.Header.Set("Authorization", c.authValue)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBodyLen {
			text = text[:maxErrorBodyLen]
		}
		return "", &GatewayError{Status: resp.StatusCode, Body: text}
	}

	var out sendMessageResponse
	if len(body) > 0 {
		_ = json.Unmarshal(body, &out)
	}
	c.log.Info("whatsapp message accepted", "to", to, "messageId", out.Results.MessageID)
	return out.Results.MessageID, nil
}

// formatAuthHeader accepts either a ready "Basic ..." value or raw
// "user:pass" credentials.
func formatAuthHeader(key string) string {
	if strings.HasPrefix(strings.ToLower(key), "basic ") {
		return key
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(key))
}
