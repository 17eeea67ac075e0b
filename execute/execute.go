// Package execute proxies code-run requests to third-party execution
// services (JDoodle and Judge0). The relay core never looks inside these
// payloads; results travel back to other members as sync-output events
// emitted by clients.
package execute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultJDoodleURL = "https://api.jdoodle.com/v1/execute"
	defaultJudge0URL  = "https://ce.judge0.com/submissions/?base64_encoded=false&wait=true"
)

var (
	ErrUnsupportedMethod   = errors.New("unsupported compilation method")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// jdoodleVersions maps a language to the JDoodle versionIndex to request.
var jdoodleVersions = map[string]string{
	"python3": "3",
	"java":    "3",
	"cpp14":   "4",
	"cpp17":   "5",
	"c":       "4",
}

// judge0Languages maps a language to its Judge0 numeric language id.
var judge0Languages = map[string]int{
	"python3": 71,
	"java":    62,
	"cpp":     54,
	"cpp14":   52,
	"cpp17":   54,
	"c":       50,
}

// Request is the body accepted by the compile endpoint.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Method   string `json:"method"`
}

// Client forwards execution requests to the configured providers.
type Client struct {
	jdoodleURL   string
	judge0URL    string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates an execution proxy client. The credentials are the
// JDoodle API pair; Judge0's public endpoint needs none.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		jdoodleURL:   defaultJDoodleURL,
		judge0URL:    defaultJudge0URL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithJDoodleURL overrides the JDoodle endpoint.
func WithJDoodleURL(url string) Option {
	return func(c *Client) {
		c.jdoodleURL = url
	}
}

// WithJudge0URL overrides the Judge0 endpoint.
func WithJudge0URL(url string) Option {
	return func(c *Client) {
		c.judge0URL = url
	}
}

// Run forwards the request to the provider named by req.Method and returns
// the response body to pass through to the caller.
func (c *Client) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	switch req.Method {
	case "jdoodle":
		return c.runJDoodle(ctx, req)
	case "judge0":
		return c.runJudge0(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
}

func (c *Client) runJDoodle(ctx context.Context, req Request) (json.RawMessage, error) {
	version, ok := jdoodleVersions[req.Language]
	if !ok {
		return nil, fmt.Errorf("%w for jdoodle: %q", ErrUnsupportedLanguage, req.Language)
	}

	body, err := c.post(ctx, c.jdoodleURL, map[string]string{
		"script":       req.Code,
		"language":     req.Language,
		"versionIndex": version,
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	})
	if err != nil {
		return nil, err
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return nil, fmt.Errorf("jdoodle: %s", probe.Error)
	}

	return body, nil
}

func (c *Client) runJudge0(ctx context.Context, req Request) (json.RawMessage, error) {
	langID, ok := judge0Languages[req.Language]
	if !ok {
		return nil, fmt.Errorf("%w for judge0: %q", ErrUnsupportedLanguage, req.Language)
	}

	body, err := c.post(ctx, c.judge0URL, map[string]any{
		"source_code": req.Code,
		"language_id": langID,
		"stdin":       "",
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Status struct {
			Description string `json:"description"`
		} `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse judge0 response: %w", err)
	}

	output := result.Stdout
	if output == "" {
		output = result.Stderr
	}

	return json.Marshal(map[string]string{
		"output": output,
		"status": result.Status.Description,
	})
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("provider returned error status", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("provider status %d", resp.StatusCode)
	}

	return body, nil
}
