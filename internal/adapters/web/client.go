package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running `acnh serve` over its JSON API. The CLI uses it
// when a server holds the storage lock.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the server bound at addr (host:port).
func NewClient(addr string) *Client {
	return &Client{
		base: "http://" + strings.TrimSpace(addr),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

// Ping reports whether the server answers its health check.
func (c *Client) Ping() bool {
	var h HealthResult
	if err := c.do(http.MethodGet, "/api/health", nil, &h); err != nil {
		return false
	}
	return h.Status == "ok"
}

// Health returns the server health.
func (c *Client) Health() (*HealthResult, error) {
	var h HealthResult
	if err := c.do(http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Search runs query on the server.
func (c *Client) Search(query string, categories []string) (*SearchResult, error) {
	q := url.Values{"q": {query}}
	for _, cat := range categories {
		q.Add("category", cat)
	}
	var res SearchResult
	if err := c.do(http.MethodGet, "/api/search", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// State returns the server's selection state.
func (c *Client) State(categories []string) (*StateResult, error) {
	q := url.Values{}
	for _, cat := range categories {
		q.Add("category", cat)
	}
	var res StateResult
	if err := c.do(http.MethodGet, "/api/state", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Mutate sends a selection change. list is "wishlist" or "catalog"; an empty
// id with DELETE resets the whole list.
func (c *Client) Mutate(method, list, id string) (*StateResult, error) {
	path := "/api/" + list
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	var res StateResult
	if err := c.do(method, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(method, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e ErrorResult
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, e.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
