package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Gist is the subset of the gist API payload the pipeline cares about.
type Gist struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Files       map[string]File `json:"files"`
}

// File is a single file inside a gist.
type File struct {
	Content string `json:"content"`
}

// Client handles GitHub gist API interactions.
type Client struct {
	BaseURL    string
	User       string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a new gist client authenticated as user.
func NewClient(user, token string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		User:    user,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.User != "" && c.Token != "" {
		req.Header.Set("X-Github-Username", c.User)
		req.Header.Set("Authorization", "token "+c.Token)
	}
	return req, nil
}

// List fetches all gists of the authenticated user.
func (c *Client) List(ctx context.Context) ([]Gist, error) {
	req, err := c.newRequest(ctx, "GET", fmt.Sprintf("/users/%s/gists", c.User), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list gists: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list gists", resp)
	}

	var gists []Gist
	if err := json.NewDecoder(resp.Body).Decode(&gists); err != nil {
		return nil, fmt.Errorf("failed to decode gist list: %w", err)
	}
	return gists, nil
}

// Get fetches a single gist by id, including file contents.
func (c *Client) Get(ctx context.Context, id string) (*Gist, error) {
	req, err := c.newRequest(ctx, "GET", "/gists/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gist %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetch gist", resp)
	}

	var g Gist
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode gist %s: %w", id, err)
	}
	return &g, nil
}

// Create publishes a new gist.
func (c *Client) Create(ctx context.Context, description string, public bool, files map[string]File) error {
	payload := map[string]interface{}{
		"description": description,
		"public":      public,
		"files":       files,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal gist payload: %w", err)
	}

	req, err := c.newRequest(ctx, "POST", "/gists", bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError("gist not created", resp)
	}
	return nil
}

// Edit replaces file contents of an existing gist.
func (c *Client) Edit(ctx context.Context, id string, files map[string]File) error {
	payload := map[string]interface{}{
		"files": files,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal gist payload: %w", err)
	}

	req, err := c.newRequest(ctx, "PATCH", "/gists/"+id, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to edit gist %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError("gist not edited", resp)
	}
	return nil
}

// statusError builds an error carrying the HTTP status and response body.
func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: server response was [%d] %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// FindByDescriptionPrefix returns the first gist whose description starts
// with prefix, or nil. Description-prefix matching is the only identity
// scheme used for published result sets.
func FindByDescriptionPrefix(gists []Gist, prefix string) *Gist {
	for i := range gists {
		if strings.HasPrefix(gists[i].Description, prefix) {
			return &gists[i]
		}
	}
	return nil
}
