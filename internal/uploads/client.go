// Package uploads talks to the hosted upload service. File bytes never
// transit this server; the client only deletes remote files during the
// orphaned-media sweep.
package uploads

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

type Client struct {
	appID  string
	secret string
	apiURL string
	http   *http.Client
}

func NewClient(appID, secret, apiURL string) *Client {
	return &Client{
		appID:  appID,
		secret: secret,
		apiURL: apiURL,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FileKey extracts the storage key from a served file URL of the form
// https://<host>/a/<appID>/<key>. URLs that do not match fall back to the
// last path segment.
func (c *Client) FileKey(fileURL string) string {
	if parts := strings.SplitN(fileURL, "/a/"+c.appID+"/", 2); len(parts) == 2 {
		return parts[1]
	}
	if i := strings.LastIndex(fileURL, "/"); i >= 0 {
		return fileURL[i+1:]
	}
	return fileURL
}

// DeleteFiles removes files from the upload service by key.
func (c *Client) DeleteFiles(ctx context.Context, fileKeys []string) error {
	if len(fileKeys) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{"fileKeys": fileKeys})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v6/deleteFiles", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-uploadthing-api-key", c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload service deleteFiles: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
