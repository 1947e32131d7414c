package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "paddock/pkg/errors"
)

const defaultHTTPTimeout = 10 * time.Second

// Metadata carries extra headers attached to outgoing requests.
type Metadata map[string]string

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) ToString() string {
	return string(r.Body)
}

func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to decode response body", http.StatusInternalServerError)
	}
	return nil
}

// HttpClient is a thin JSON client used for service-to-service calls.
type HttpClient struct {
	baseURL string
	client  *http.Client
}

func NewHttpClient(baseURL string) *HttpClient {
	return &HttpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (h *HttpClient) Get(ctx context.Context, path string, metadata Metadata) (*Response, error) {
	return h.do(ctx, http.MethodGet, path, nil, metadata)
}

func (h *HttpClient) Post(ctx context.Context, path string, body any, metadata Metadata) (*Response, error) {
	return h.do(ctx, http.MethodPost, path, body, metadata)
}

func (h *HttpClient) Patch(ctx context.Context, path string, body any, metadata Metadata) (*Response, error) {
	return h.do(ctx, http.MethodPatch, path, body, metadata)
}

func (h *HttpClient) Delete(ctx context.Context, path string, metadata Metadata) (*Response, error) {
	return h.do(ctx, http.MethodDelete, path, nil, metadata)
}

func (h *HttpClient) do(ctx context.Context, method, path string, body any, metadata Metadata) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to marshal request body", http.StatusInternalServerError)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build request", http.StatusInternalServerError)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range metadata {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable,
			fmt.Sprintf("request to %s failed", h.baseURL), http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to read response body", http.StatusInternalServerError)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
