package booksearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultAPIURL = "https://openapi.naver.com/v1/search/book.json"

	pageSize   = 10
	maxResults = 100
)

// Item is one book entry as returned by the Naver book search API. Field
// names are passed through verbatim to the mobile client.
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	Author      string `json:"author"`
	Discount    string `json:"discount"`
	Publisher   string `json:"publisher"`
	Pubdate     string `json:"pubdate"`
	ISBN        string `json:"isbn"`
	Description string `json:"description"`
}

type page struct {
	Total   int    `json:"total"`
	Start   int    `json:"start"`
	Display int    `json:"display"`
	Items   []Item `json:"items"`
}

// Client queries the Naver book search API, fetching up to 100 results
// for a query in pages of 10.
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	httpClient   *http.Client
}

func NewClient(clientID, clientSecret string, timeout time.Duration) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       defaultAPIURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Search aggregates paginated results for the query. The first page is
// fetched alone to learn the total; the remaining pages are fetched
// concurrently and joined by page index, so the result order is stable
// regardless of network completion order. The aggregate is truncated to
// 100 items; the returned total is the API's uncapped figure.
func (c *Client) Search(ctx context.Context, query string) ([]Item, int, error) {
	first, err := c.fetchPage(ctx, query, 1)
	if err != nil {
		return nil, 0, err
	}

	capped := first.Total
	if capped > maxResults {
		capped = maxResults
	}
	if capped < 0 {
		capped = 0
	}
	numPages := (capped + pageSize - 1) / pageSize
	if numPages == 0 && len(first.Items) > 0 {
		// The API sometimes undercounts; keep what the first page returned.
		numPages = 1
	}

	pages := make([][]Item, numPages)
	errs := make([]error, numPages)
	if numPages > 0 {
		pages[0] = first.Items
	}

	var wg sync.WaitGroup
	for i := 1; i < numPages; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p, err := c.fetchPage(ctx, query, idx*pageSize+1)
			if err != nil {
				errs[idx] = err
				return
			}
			pages[idx] = p.Items
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, 0, err
		}
	}

	items := make([]Item, 0, capped)
	for _, p := range pages {
		items = append(items, p...)
	}
	if len(items) > maxResults {
		items = items[:maxResults]
	}
	return items, first.Total, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, start int) (*page, error) {
	reqURL := fmt.Sprintf("%s?query=%s&display=%d&start=%d", c.apiURL, url.QueryEscape(query), pageSize, start)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("book search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("book search returned %d: %s", resp.StatusCode, string(detail))
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode book search response: %w", err)
	}
	return &p, nil
}
