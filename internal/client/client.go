// Package client provides a Go client for the hnserve API, used by the CLI
// subcommands and the integration tests.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"hnserve/internal/model"
)

// Client is a read-only hnserve API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client against the given hnserve base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Item fetches a single item; deep selects the resolved comment tree.
// A missing item comes back as the zero Item.
func (c *Client) Item(id int, deep bool) (model.Item, error) {
	path := fmt.Sprintf("/item/%d", id)
	if deep {
		path += "?comments=1"
	}
	var item model.Item
	if err := c.getJSON(path, &item); err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// User fetches the shallow user view. A missing user comes back zero.
func (c *Client) User(handle string) (model.User, error) {
	var user model.User
	if err := c.getJSON("/user/"+url.PathEscape(handle), &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UserDetail fetches the user view with submissions resolved.
func (c *Client) UserDetail(handle string) (model.UserDetail, error) {
	var detail model.UserDetail
	if err := c.getJSON("/user/"+url.PathEscape(handle)+"?submitted=1", &detail); err != nil {
		return model.UserDetail{}, err
	}
	return detail, nil
}

// Feed fetches a feed in upstream id order.
func (c *Client) Feed(name string) ([]model.Item, error) {
	var items []model.Item
	if err := c.getJSON("/"+url.PathEscape(name), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) getJSON(path string, dest any) error {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s failed (%d): %s", path, resp.StatusCode, string(body))
	}
	// Missing entities answer 200 with an empty body; leave dest zero.
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, dest)
}
