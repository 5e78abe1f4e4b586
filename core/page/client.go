package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Response is the outcome of a single page call.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Text is the raw response body.
	Text string
	// Challenge is true when the body contains a configured bot-challenge
	// marker. The call itself completed; the session is not trustworthy.
	Challenge bool
}

// Document parses the response body into a queryable document.
func (r *Response) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse response body: %w", err)
	}
	return doc, nil
}

// Client performs HTTP calls against a single marketplace site.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a page client for the configured site.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		http: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// Call performs a request against a site path and returns the raw body plus
// the bot-challenge signal. The path may be absolute or relative to the
// configured base URL; params are appended as the query string.
func (c *Client) Call(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string) (*Response, error) {
	endpoint := path
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = strings.TrimRight(c.cfg.BaseURL, "/") + path
	}
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.Cookie != "" {
		req.Header.Set("Cookie", c.cfg.Cookie)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	text := string(raw)
	challenge := c.detectChallenge(text)

	c.logger.Debug("Page call completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Bool("challenge", challenge),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Text:       text,
		Challenge:  challenge,
	}, nil
}

// Get performs a GET call.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Call(ctx, http.MethodGet, path, params, nil, "")
}

// PostForm performs a POST call with a URL-encoded form body.
func (c *Client) PostForm(ctx context.Context, path string, params url.Values, form url.Values) (*Response, error) {
	return c.Call(ctx, http.MethodPost, path, params, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// PostMultipart performs a POST call with a multipart body carrying a single
// file part plus additional plain fields.
func (c *Client) PostMultipart(ctx context.Context, path string, fieldName, filename string, blob []byte, fields map[string]string) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart file part: %w", err)
	}
	if _, err := part.Write(blob); err != nil {
		return nil, fmt.Errorf("failed to write multipart blob: %w", err)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write multipart field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return c.Call(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType())
}

// detectChallenge scans a response body for the configured markers.
func (c *Client) detectChallenge(body string) bool {
	for _, marker := range c.cfg.ChallengeMarkers {
		if marker != "" && strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
