package gopher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the production Gopher AI data API endpoint.
const DefaultBaseURL = "https://data.gopher-ai.com/api/v1"

const requestTimeout = 30 * time.Second

// Client talks to the Gopher AI live search API. Searches are
// asynchronous: StartSearch registers a job and returns its uuid,
// FetchResult retrieves the job's current result body.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// liveSearchRequest is the JSON body for POST /search/live.
type liveSearchRequest struct {
	Type      string          `json:"type"`
	Arguments searchArguments `json:"arguments"`
}

type searchArguments struct {
	Type       string `json:"type"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// StartSearch registers a live search job and returns its uuid. A
// non-success transport status yields *InitiationError, an error field
// inside a success body yields *APIError, and a success body without a
// uuid yields ErrMalformedResponse.
func (c *Client) StartSearch(ctx context.Context, platform, searchType, query string, maxResults int) (string, error) {
	body, err := json.Marshal(liveSearchRequest{
		Type: platform,
		Arguments: searchArguments{
			Type:       searchType,
			Query:      query,
			MaxResults: maxResults,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search/live", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating search request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Op: "search initiation", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Op: "search initiation", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &InitiationError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 500)}
	}

	parsed := gjson.ParseBytes(raw)
	if errField := parsed.Get("error"); errField.Exists() && errField.String() != "" {
		return "", &APIError{Message: errField.String()}
	}

	jobID := parsed.Get("uuid").String()
	if jobID == "" {
		return "", ErrMalformedResponse
	}
	return jobID, nil
}

// FetchResult retrieves the current result body for a job. The raw body
// and transport status are returned undecoded; classification is the
// decoder's concern, and retry policy on non-success statuses is the
// caller's. A transport fault yields *NetworkError.
func (c *Client) FetchResult(ctx context.Context, jobID string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/live/result/"+jobID, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating result request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Op: "result fetch", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &NetworkError{Op: "result fetch", Err: err}
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
