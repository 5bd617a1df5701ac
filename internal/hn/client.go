// Package hn is the client for the upstream Hacker News Firebase API.
package hn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hnserve/internal/model"
)

// ErrUpstream marks transport failures and non-2xx upstream answers. A
// missing item is NOT an error: upstream answers null, which callers see as
// a zero-identity record they can filter uniformly.
var ErrUpstream = errors.New("upstream unavailable")

// Feeds are the id-list endpoints the upstream exposes.
var Feeds = map[string]bool{
	"topstories":  true,
	"newstories":  true,
	"beststories": true,
	"askstories":  true,
	"showstories": true,
	"jobstories":  true,
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches single entities and feed id lists. The underlying HTTP
// client (and its connection pool) is the only state shared across requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger.With("component", "hn"),
	}
}

// Item fetches one item by id. When withKids is false the child id list is
// stripped, so shallow views cannot accidentally trigger deep traversal.
// A deleted or never-created id yields a zero Item and no error.
func (c *Client) Item(ctx context.Context, id int, withKids bool) (model.Item, error) {
	var item model.Item
	if err := c.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", c.baseURL, id), &item); err != nil {
		return model.Item{}, err
	}
	if !withKids {
		item.Kids = nil
	}
	return item, nil
}

// User fetches a user record by handle. An unknown handle yields a zero User.
func (c *Client) User(ctx context.Context, handle string) (model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/user/%s.json", c.baseURL, handle), &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// IDs fetches the ordered id list for one of the named feeds.
func (c *Client) IDs(ctx context.Context, feed string) ([]int, error) {
	if !Feeds[feed] {
		return nil, fmt.Errorf("unknown feed %q", feed)
	}
	var ids []int
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s.json", c.baseURL, feed), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	c.logger.Debug("upstream fetch", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	// "null" bodies unmarshal into the zero value, which is exactly the
	// absent-identity record the callers filter on.
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}
