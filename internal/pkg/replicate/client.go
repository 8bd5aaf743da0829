package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.replicate.com/v1"

var ErrMissingToken = errors.New("replicate: API token is missing")

// Runner runs a model to completion and returns its raw output.
type Runner interface {
	Run(ctx context.Context, identifier string, input map[string]any) (any, error)
}

type Options struct {
	BaseURL      string
	APIToken     string
	HTTPClient   *http.Client
	Timeout      time.Duration
	WaitSeconds  int
	PollInterval time.Duration
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	waitSeconds  int
	pollInterval time.Duration
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		client = &http.Client{Timeout: timeout}
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	return &Client{
		httpClient:   client,
		baseURL:      base,
		token:        strings.TrimSpace(opts.APIToken),
		waitSeconds:  opts.WaitSeconds,
		pollInterval: poll,
	}
}

type predictionRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// Run creates a prediction for identifier ("owner/name:version" or
// "owner/name") and blocks until it reaches a terminal status. It never retries.
func (c *Client) Run(ctx context.Context, identifier string, input map[string]any) (any, error) {
	if c == nil {
		return nil, errors.New("replicate client not configured")
	}
	if c.token == "" {
		return nil, ErrMissingToken
	}

	endpoint, payload, err := c.createTarget(identifier, input)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.waitSeconds > 0 {
		req.Header.Set("Prefer", "wait="+strconv.Itoa(c.waitSeconds))
	}

	pred, err := c.do(req)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"prediction": pred.ID,
		"status":     pred.Status,
	}).Debug("replicate prediction created")

	for !isTerminal(pred.Status) {
		if pred.URLs.Get == "" {
			pred.URLs.Get = c.baseURL + "/predictions/" + pred.ID
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		pred, err = c.get(ctx, pred.URLs.Get)
		if err != nil {
			return nil, err
		}
	}

	switch pred.Status {
	case "succeeded":
		return decodeOutput(pred.Output)
	case "canceled":
		return nil, fmt.Errorf("replicate: prediction %s was canceled", pred.ID)
	default:
		if msg := errorText(pred.Error); msg != "" {
			return nil, fmt.Errorf("replicate: %s", msg)
		}
		return nil, fmt.Errorf("replicate: prediction %s failed", pred.ID)
	}
}

func (c *Client) createTarget(identifier string, input map[string]any) (string, predictionRequest, error) {
	identifier = strings.TrimSpace(identifier)
	model, version, hasVersion := strings.Cut(identifier, ":")
	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" {
		return "", predictionRequest{}, fmt.Errorf("replicate: invalid model identifier %q", identifier)
	}
	if hasVersion {
		if version == "" {
			return "", predictionRequest{}, fmt.Errorf("replicate: invalid model identifier %q", identifier)
		}
		return c.baseURL + "/predictions", predictionRequest{Version: version, Input: input}, nil
	}
	return fmt.Sprintf("%s/models/%s/%s/predictions", c.baseURL, owner, name), predictionRequest{Input: input}, nil
}

func (c *Client) get(ctx context.Context, url string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil {
			switch {
			case apiErr.Detail != "":
				return nil, fmt.Errorf("replicate: %s (status %d)", apiErr.Detail, resp.StatusCode)
			case apiErr.Title != "":
				return nil, fmt.Errorf("replicate: %s (status %d)", apiErr.Title, resp.StatusCode)
			}
		}
		return nil, fmt.Errorf("replicate: unexpected status code: %d", resp.StatusCode)
	}

	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("replicate: failed to decode response: %w", err)
	}
	return &pred, nil
}

func isTerminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

func decodeOutput(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("replicate: failed to decode output: %w", err)
	}
	return out, nil
}

// errorText accepts both the string and the object form of a prediction error.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Detail
	}
	return strings.TrimSpace(string(raw))
}
