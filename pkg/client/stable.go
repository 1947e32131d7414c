package client

import (
	"context"
	"fmt"
	"net/http"

	apperrors "paddock/pkg/errors"
	"paddock/pkg/model"
)

// StableClient fetches stable documents from the stables service.
type StableClient struct {
	http *HttpClient
}

func NewStableClient(baseURL string) *StableClient {
	return &StableClient{http: NewHttpClient(baseURL)}
}

type stableEnvelope struct {
	Data model.Stable `json:"data"`
}

func (c *StableClient) GetStable(ctx context.Context, stableID string) (*model.Stable, error) {
	resp, err := c.http.Get(ctx, fmt.Sprintf("/api/v1/stables/id/%s", stableID), nil)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.NotFoundWithID("stable", stableID)
	default:
		return nil, apperrors.New(apperrors.CodeUnavailable,
			fmt.Sprintf("stables service returned status %d", resp.StatusCode),
			http.StatusBadGateway)
	}

	var envelope stableEnvelope
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
