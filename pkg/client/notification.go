package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"fixhub/pkg/model"
)

type NotificationClient struct {
	httpClient *HttpClient
}

func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *NotificationClient) Dispatch(ctx context.Context, notification model.Notification) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/notifications/dispatch", notification)
}

func (c *NotificationClient) RegisterToken(ctx context.Context, userID, token string) (*Response, error) {
	path := "/api/v1/users/" + url.PathEscape(userID) + "/tokens"
	return c.httpClient.POST(ctx, path, model.TokenRegistration{Token: token})
}

func (c *NotificationClient) DecodeResult(resp *Response) (*model.DispatchResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode dispatch wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var result model.DispatchResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode dispatch result:\n%+v\n%s", resp.ToString(), err)
	}

	return &result, nil
}
