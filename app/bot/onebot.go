// Package bot turns detected flood into moderation actions. Actions are sent to the OneBot 11 HTTP API.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"
)

// OneBotClient calls actions of OneBot 11 HTTP API, like send_group_msg or set_group_ban
type OneBotClient struct {
	url     string
	token   string
	client  *http.Client
	retries int
	delay   time.Duration
}

// OneBotResponse is a common response of OneBot actions
type OneBotResponse struct {
	Status  string          `json:"status"`
	RetCode int             `json:"retcode"`
	Msg     string          `json:"msg,omitempty"`
	Wording string          `json:"wording,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewOneBotClient makes a client for API at url, token is optional
func NewOneBotClient(url, token string, timeout time.Duration) *OneBotClient {
	return &OneBotClient{
		url:     strings.TrimSuffix(url, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		retries: 3,
		delay:   500 * time.Millisecond,
	}
}

// Call posts params to the action endpoint. Network errors and 5xx responses are retried,
// a response with status other than ok is returned as error without retries.
func (c *OneBotClient) Call(ctx context.Context, action string, params any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("can't marshal %s params: %w", action, err)
	}

	var apiErr error
	err = repeater.NewDefault(c.retries, c.delay).Do(ctx, func() error {
		resp, e := c.post(ctx, action, body)
		if e != nil {
			return e
		}
		if resp.Status != "ok" && resp.Status != "async" {
			msg := resp.Msg
			if resp.Wording != "" {
				msg = resp.Wording
			}
			apiErr = fmt.Errorf("%s rejected, status:%s, retcode:%d, %s", action, resp.Status, resp.RetCode, msg)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", action, err)
	}
	return apiErr
}

func (c *OneBotClient) post(ctx context.Context, action string, body []byte) (OneBotResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/"+action, bytes.NewReader(body))
	if err != nil {
		return OneBotResponse{}, fmt.Errorf("can't make request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return OneBotResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return OneBotResponse{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		// client errors are not retried
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return OneBotResponse{Status: "failed", RetCode: resp.StatusCode, Msg: strings.TrimSpace(string(b))}, nil
	}

	var res OneBotResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return OneBotResponse{}, fmt.Errorf("can't decode response: %w", err)
	}
	return res, nil
}
