package gotrue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps the Supabase GoTrue admin API. Only the user deletion
// endpoint is used; everything else about authentication stays on the
// platform side.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DeleteUser removes the auth identity for the given user id.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth admin delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("auth admin delete returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
