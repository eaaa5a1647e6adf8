package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"fixhub/pkg/model"
)

// MatchingClient talks to the matching service. The notifications worker
// uses it to resolve eligible partners for a freshly created booking.
type MatchingClient struct {
	httpClient *HttpClient
}

func NewMatchingClient(baseURL string) *MatchingClient {
	return &MatchingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *MatchingClient) PartnersForService(ctx context.Context, serviceID string, filters model.MatchFilters, sortBy string) (*Response, error) {
	q := url.Values{}
	if filters.OnlyOnline {
		q.Set("only_online", "true")
	}
	if filters.MinRating != nil {
		q.Set("min_rating", strconv.FormatFloat(*filters.MinRating, 'f', -1, 64))
	}
	if sortBy != "" {
		q.Set("sort_by", sortBy)
	}

	path := "/api/v1/services/" + url.PathEscape(serviceID) + "/partners"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.httpClient.GET(ctx, path)
}

func (c *MatchingClient) DecodePartners(resp *Response) ([]*model.MatchedPartner, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode partners wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var partners []*model.MatchedPartner
	if err := json.Unmarshal(wrapper.Data, &partners); err != nil {
		return nil, fmt.Errorf("could not decode partner list:\n%+v\n%s", resp.ToString(), err)
	}

	return partners, nil
}
