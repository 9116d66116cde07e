// Package chat talks to the hosted chat backend. The application never
// relays messages itself; it provisions users, mints client tokens and
// proxies the unread counter.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Client struct {
	apiKey  string
	secret  string
	baseURL string
	http    *http.Client

	now func() time.Time
}

func NewClient(apiKey, secret, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		secret:  secret,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

// UserToken mints the client-side token the frontend hands to the chat SDK.
// Valid for an hour; iat is backdated a minute to absorb clock skew between
// this server and the chat backend.
func (c *Client) UserToken(userID string) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(time.Hour).Unix(),
		"iat":     now.Add(-60 * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}

// serverToken authenticates server-to-server calls.
func (c *Client) serverToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true})
	return token.SignedString([]byte(c.secret))
}

// UpsertUser creates or updates the chat-side profile for a user.
func (c *Client) UpsertUser(ctx context.Context, userID, username, name string) error {
	body := map[string]interface{}{
		"users": map[string]interface{}{
			userID: map[string]string{
				"id":       userID,
				"username": username,
				"name":     name,
			},
		},
	}
	return c.do(ctx, http.MethodPost, "/users", nil, body, nil)
}

// UnreadCount returns the user's total unread message count.
func (c *Client) UnreadCount(ctx context.Context, userID string) (int, error) {
	var out struct {
		TotalUnreadCount int `json:"total_unread_count"`
	}
	q := url.Values{"user_id": {userID}}
	if err := c.do(ctx, http.MethodGet, "/unread", q, nil, &out); err != nil {
		return 0, err
	}
	return out.TotalUnreadCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token, err := c.serverToken()
	if err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Stream-Auth-Type", "jwt")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat backend %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
