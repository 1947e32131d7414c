package client

import (
	"context"
	"fmt"
	"net/http"

	apperrors "paddock/pkg/errors"
	"paddock/pkg/model"
)

// FacilityClient fetches facility documents from the facilities service.
type FacilityClient struct {
	http *HttpClient
}

func NewFacilityClient(baseURL string) *FacilityClient {
	return &FacilityClient{http: NewHttpClient(baseURL)}
}

type facilityEnvelope struct {
	Data model.Facility `json:"data"`
}

func (c *FacilityClient) GetFacility(ctx context.Context, facilityID string) (*model.Facility, error) {
	resp, err := c.http.Get(ctx, fmt.Sprintf("/api/v1/facilities/id/%s", facilityID), nil)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.NotFoundWithID("facility", facilityID)
	default:
		return nil, apperrors.New(apperrors.CodeUnavailable,
			fmt.Sprintf("facilities service returned status %d", resp.StatusCode),
			http.StatusBadGateway)
	}

	var envelope facilityEnvelope
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
