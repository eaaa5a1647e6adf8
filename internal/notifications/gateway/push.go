package gateway

import (
	"context"
	"fmt"
	"net/http"

	"fixhub/pkg/client"
	"fixhub/pkg/config"
)

// SendResult is the gateway's verdict for one token. Results align
// positionally with the token slice passed to SendMulticast.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PushGateway issues one multicast send covering all of a user's tokens.
type PushGateway interface {
	SendMulticast(ctx context.Context, tokens []string, title, body, link string) ([]SendResult, error)
}

type multicastRequest struct {
	Tokens []string `json:"tokens"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Link   string   `json:"link,omitempty"`
}

type multicastResponse struct {
	Responses []SendResult `json:"responses"`
}

type httpPushGateway struct {
	httpClient *client.HttpClient
}

func NewHTTPPushGateway(cfg *config.Config) PushGateway {
	httpClient := client.NewHttpClient(cfg.PushGatewayURL).
		WithTimeout(cfg.PushSendTimeout)
	if cfg.PushGatewayKey != "" {
		httpClient = httpClient.WithHeader("Authorization", "Bearer "+cfg.PushGatewayKey)
	}
	return &httpPushGateway{httpClient: httpClient}
}

func (g *httpPushGateway) SendMulticast(ctx context.Context, tokens []string, title, body, link string) ([]SendResult, error) {
	resp, err := g.httpClient.POST(ctx, "/v1/messages:multicast", multicastRequest{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Link:   link,
	})
	if err != nil {
		return nil, fmt.Errorf("push gateway send failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	var decoded multicastResponse
	if err := resp.DecodeJSON(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode push gateway response: %w", err)
	}

	if len(decoded.Responses) != len(tokens) {
		return nil, fmt.Errorf("push gateway returned %d results for %d tokens", len(decoded.Responses), len(tokens))
	}

	return decoded.Responses, nil
}
