package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxErrorBody caps how much of a failed response ends up in an error.
const maxErrorBody = 512

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s: %s", e.URL, e.Code, http.StatusText(e.Code), e.Body)
}

// HttpClient fetches JSON documents. Response bodies are always drained
// and closed.
type HttpClient struct {
	client *http.Client
}

// WrapHttpClient reuses the transport of base, for instance one that adds
// OAuth2 credentials to every request.
func WrapHttpClient(base *http.Client, timeout time.Duration) *HttpClient {
	return &HttpClient{
		client: &http.Client{
			Transport: base.Transport,
			Timeout:   timeout,
		},
	}
}

// GetJSON requests endpoint with query and decodes the response into out.
func (hc *HttpClient) GetJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.client.Do(req)
	if err != nil {
		return fmt.Errorf("client error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: endpoint, Code: resp.StatusCode, Body: string(body)}
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}
