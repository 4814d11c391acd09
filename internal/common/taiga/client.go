// Package taiga is a minimal client for the Taiga REST API v1.
package taiga

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "sentry-taiga/internal/common/http"
)

const apiPrefix = "/api/v1"

// Client talks to one Taiga API host. It is not safe to share between
// users: Authenticate stores the session token on the client.
type Client struct {
	baseURL    string
	httpClient *httpclient.Client
	token      string
}

// NewClient returns a client for apiURL (e.g. https://api.taiga.io). A nil
// httpClient gets a 30s default.
func NewClient(apiURL string, httpClient *httpclient.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewClient(30 * time.Second)
	}
	return &Client{
		baseURL:    strings.TrimRight(apiURL, "/") + apiPrefix,
		httpClient: httpClient,
	}
}

// Authenticate performs a normal (username/password) login.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth", authRequest{
		Type:     "normal",
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if resp.AuthToken == "" {
		return fmt.Errorf("failed to authenticate: no auth token in response")
	}
	c.token = resp.AuthToken
	return nil
}

// ProjectBySlug resolves a project. It returns (nil, nil) when Taiga has no
// project with that slug.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	var project Project
	err := c.doJSON(ctx, http.MethodGet, "/projects/by_slug?slug="+url.QueryEscape(slug), nil, &project)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project %s: %w", slug, err)
	}
	return &project, nil
}

func (c *Client) AddIssue(ctx context.Context, issue NewIssue) (*Item, error) {
	if issue.Tags == nil {
		issue.Tags = []string{}
	}
	var item Item
	if err := c.doJSON(ctx, http.MethodPost, "/issues", issue, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) AddUserStory(ctx context.Context, story NewUserStory) (*Item, error) {
	var item Item
	if err := c.doJSON(ctx, http.MethodPost, "/userstories", story, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// errorMessage prefers Taiga's _error_message field over the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		ErrorMessage string `json:"_error_message"`
		Detail       string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.ErrorMessage != "" {
			return payload.ErrorMessage
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return strings.TrimSpace(string(body))
}
