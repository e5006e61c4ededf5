package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppGateway posts OTP messages to the hosted WhatsApp API.
type WhatsAppGateway struct {
	apiURL string
	token  string
	client *http.Client
}

func NewWhatsAppGateway(apiURL, token string) *WhatsAppGateway {
	return &WhatsAppGateway{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type whatsAppPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type whatsAppResponse struct {
	MessageID string `json:"messageId"`
}

func (g *WhatsAppGateway) Send(ctx context.Context, phoneE164, message string) (string, error) {
	if g.apiURL == "" || g.token == "" {
		return "", fmt.Errorf("whatsapp gateway not configured")
	}

	body, err := json.Marshal(whatsAppPayload{Phone: phoneE164, Message: message})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", g.token))
	req.Header.Add("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("whatsapp API error: %d", res.StatusCode)
	}

	var out whatsAppResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", nil // sent, but no message id in response
	}
	return out.MessageID, nil
}
