package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"igprofile/pkg/config"
	"igprofile/pkg/errors"
	"igprofile/pkg/extract"
	"igprofile/pkg/logger"
	"igprofile/pkg/retry"
)

// maxBodySize caps how much of a response is read
const maxBodySize = 10 << 20

// Client fetches profile pages and endpoint responses as raw content for the
// extraction pipeline
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	jsonHeaders map[string]string
	baseURL     string
	retry       *retry.Config
	logger      logger.Logger
}

// NewClient creates a client from the instagram section of the configuration.
// A nil retry config means every request is attempted once.
func NewClient(cfg config.InstagramConfig, retryCfg *retry.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if retryCfg == nil {
		retryCfg = &retry.Config{MaxAttempts: 1}
	}
	if retryCfg.Logger == nil {
		retryCfg.Logger = log
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	headers := map[string]string{
		"User-Agent":      cfg.UserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Cache-Control":   "no-cache",
	}
	if cfg.UserAgent == "" {
		headers["User-Agent"] = config.DefaultConfig().Instagram.UserAgent
	}

	jsonHeaders := map[string]string{
		"Accept":           "application/json, text/plain, */*",
		"X-Requested-With": "XMLHttpRequest",
	}
	if cfg.AppID != "" {
		jsonHeaders["X-IG-App-ID"] = cfg.AppID
	}
	if cfg.ASBDID != "" {
		jsonHeaders["X-ASBD-ID"] = cfg.ASBDID
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		headers:     headers,
		jsonHeaders: jsonHeaders,
		baseURL:     strings.TrimRight(baseURL, "/"),
		retry:       retryCfg,
		logger:      log,
	}
}

// SetHeader sets a header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// ProfilePageURL returns the profile page URL for username on this client's host
func (c *Client) ProfilePageURL(username string) string {
	return ProfilePageURL(c.baseURL, username)
}

// EndpointURLs returns the endpoint URLs for username on this client's host
func (c *Client) EndpointURLs(username string) []string {
	return EndpointURLs(c.baseURL, username)
}

// FetchPage downloads the public profile page of username
func (c *Client) FetchPage(ctx context.Context, username string) (extract.RawContent, error) {
	return c.fetch(ctx, c.ProfilePageURL(username), extract.KindHTML)
}

// FetchEndpoint downloads one endpoint response
func (c *Client) FetchEndpoint(ctx context.Context, endpointURL string) (extract.RawContent, error) {
	return c.fetch(ctx, endpointURL, extract.KindJSON)
}

func (c *Client) fetch(ctx context.Context, target string, kind extract.ContentKind) (extract.RawContent, error) {
	body, err := retry.DoWithResult(ctx, func() (string, error) {
		return c.doRequest(ctx, target, kind)
	}, c.retry)
	if err != nil {
		return extract.RawContent{}, err
	}
	return extract.RawContent{Kind: kind, Body: body, Origin: target}, nil
}

// doRequest performs a single GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, target string, kind extract.ContentKind) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			URL:     target,
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if kind == extract.KindJSON {
		for key, value := range c.jsonHeaders {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":   target,
			"error": err.Error(),
		})
		return "", &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			URL:     target,
		}
	}
	defer resp.Body.Close()

	logger.LogRequest(c.logger, req.Method, target, resp.StatusCode, time.Since(start))

	if apiErr := errors.FromStatus(resp.StatusCode, target); apiErr != nil {
		return "", apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return "", &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
			URL:     target,
		}
	}

	// Logged-out visitors past their quota get redirected to the login page
	if resp.Request != nil && strings.HasPrefix(resp.Request.URL.Path, "/accounts/login") {
		return "", &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "redirected to login page",
			Code:    resp.StatusCode,
			URL:     target,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
			URL:     target,
		}
	}

	return string(data), nil
}
