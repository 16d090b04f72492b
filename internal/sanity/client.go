// Package sanity is a minimal read-only client for the Sanity.io query API.
package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	defaultAPIVersion = "2024-01-01"
	defaultTimeout    = 30 * time.Second
)

// ErrNotConfigured is returned by New when the project id or dataset is missing.
var ErrNotConfigured = errors.New("sanity: project id and dataset are required")

// Config identifies a Sanity project and dataset.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	// BaseURL overrides the computed API host, e.g. for tests.
	BaseURL string
}

// APIError is the error body returned by the query endpoint.
type APIError struct {
	StatusCode  int    `json:"-"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sanity: status %d", e.StatusCode)
	}
	return fmt.Sprintf("sanity: status %d: %s (%s)", e.StatusCode, e.Description, e.Type)
}

// Client queries a single dataset.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// New creates a client. It fails with ErrNotConfigured if credentials are absent.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, ErrNotConfigured
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	base := cfg.BaseURL
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN && cfg.Token == "" {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}
	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// ProjectID returns the configured project id.
func (c *Client) ProjectID() string { return c.cfg.ProjectID }

// Dataset returns the configured dataset name.
func (c *Client) Dataset() string { return c.cfg.Dataset }

// QueryURL builds the GET URL for a GROQ query and its parameters.
// Parameter values are JSON encoded and passed as $name query arguments.
func (c *Client) QueryURL(query string, params map[string]any) (string, error) {
	v := url.Values{}
	v.Set("query", query)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		encoded, err := json.Marshal(params[k])
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", k, err)
		}
		v.Set("$"+strings.TrimPrefix(k, "$"), string(encoded))
	}

	return fmt.Sprintf("%s/v%s/data/query/%s?%s",
		c.baseURL, strings.TrimPrefix(c.cfg.APIVersion, "v"), url.PathEscape(c.cfg.Dataset), v.Encode()), nil
}

// Fetch runs a GROQ query and returns the raw JSON result.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any) (json.RawMessage, error) {
	u, err := c.QueryURL(query, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
			apiErr.Type = envelope.Error.Type
			apiErr.Description = envelope.Error.Description
		}
		return nil, apiErr
	}

	var out struct {
		Result json.RawMessage `json:"result"`
		MS     int             `json:"ms"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return out.Result, nil
}
