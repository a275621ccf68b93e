package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Supabase Storage REST API with the service role key,
// which bypasses row-level security on storage objects.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey, bucket string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Object is a single entry in a bucket listing.
type Object struct {
	Name string `json:"name"`
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

// List returns the objects stored under the given prefix (folder).
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	body, err := json.Marshal(listRequest{Prefix: prefix, Limit: 1000})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("storage list returned %d: %s", resp.StatusCode, string(detail))
	}

	var objects []Object
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode storage listing: %w", err)
	}
	return objects, nil
}

type removeRequest struct {
	Prefixes []string `json:"prefixes"`
}

// Remove deletes the given object paths from the bucket.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	body, err := json.Marshal(removeRequest{Prefixes: paths})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage remove request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage remove returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Apikey", c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
}
