// Package wiki is a minimal MediaWiki Action API client covering the
// operations the book build needs: login, export download, and single-page
// parse. Session cookies are held in the client's cookie jar.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wikibook/internal/config"
	"wikibook/internal/errors"
	"wikibook/internal/retry"
)

// Client talks to one MediaWiki instance.
type Client struct {
	base       *url.URL
	apiURL     string
	exportPage string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
	policy     retry.Policy
}

// NewClient builds a client from wiki configuration.
func NewClient(cfg config.WikiConfig, policy retry.Policy) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.ValidationFailed("wiki.base_url", err.Error())
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.InternalError("failed to create cookie jar", err)
	}

	return &Client{
		base:       base,
		apiURL:     strings.TrimSuffix(cfg.BaseURL, "/") + cfg.APIPath,
		exportPage: cfg.ExportPage,
		username:   cfg.Username,
		password:   cfg.Password,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		policy: policy,
	}, nil
}

// BaseURL returns the wiki base URL for resolving site-relative references.
func (c *Client) BaseURL() *url.URL {
	return c.base
}

// HasCredentials reports whether a username is configured.
func (c *Client) HasCredentials() bool {
	return c.username != ""
}

// Login performs the two-step clientlogin flow: fetch a login token, then
// post the credentials. Session cookies persist in the jar afterwards.
func (c *Client) Login(ctx context.Context) error {
	slog.Info("Logging into wiki", "user", c.username)

	var tokenResp struct {
		Query struct {
			Tokens struct {
				LoginToken string `json:"logintoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	params := url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"login"},
		"format": {"json"},
	}
	if err := c.getJSON(ctx, params, &tokenResp); err != nil {
		return errors.LoginFailed(c.username, err)
	}
	if tokenResp.Query.Tokens.LoginToken == "" {
		return errors.LoginFailed(c.username, fmt.Errorf("empty login token"))
	}

	var loginResp struct {
		ClientLogin struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"clientlogin"`
	}
	form := url.Values{
		"action":         {"clientlogin"},
		"username":       {c.username},
		"password":       {c.password},
		"loginreturnurl": {c.apiURL},
		"logintoken":     {tokenResp.Query.Tokens.LoginToken},
		"format":         {"json"},
	}
	body, err := c.postForm(ctx, c.apiURL, form)
	if err != nil {
		return errors.LoginFailed(c.username, err)
	}
	if err := json.Unmarshal(body, &loginResp); err != nil {
		return errors.LoginFailed(c.username, fmt.Errorf("decode response: %w", err))
	}
	if loginResp.ClientLogin.Status != "PASS" {
		return errors.LoginFailed(c.username, fmt.Errorf("status %s: %s",
			loginResp.ClientLogin.Status, loginResp.ClientLogin.Message))
	}

	slog.Debug("Wiki login succeeded", "user", c.username)
	return nil
}

// csrfToken fetches a CSRF token for the current session.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	var resp struct {
		Query struct {
			Tokens struct {
				CsrfToken string `json:"csrftoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	params := url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"format": {"json"},
	}
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return "", err
	}
	if resp.Query.Tokens.CsrfToken == "" {
		return "", errors.RequestFailed(c.apiURL, fmt.Errorf("empty csrf token"))
	}
	return resp.Query.Tokens.CsrfToken, nil
}

// DownloadExport posts to the export page and returns the XML bundle
// containing the root page/category and everything it links to, up to the
// configured page-link depth. Current revisions only, templates included.
func (c *Client) DownloadExport(ctx context.Context, root string, depth int) ([]byte, error) {
	token, err := c.csrfToken(ctx)
	if err != nil {
		return nil, err
	}

	exportURL := c.base.JoinPath("wiki", c.exportPage).String()
	form := url.Values{
		"token":          {token},
		"title":          {c.exportPage},
		"catname":        {root},
		"pages":          {root},
		"curonly":        {"1"},
		"templates":      {"1"},
		"pagelink-depth": {strconv.Itoa(depth)},
		"wpDownload":     {"1"},
	}

	slog.Info("Downloading export bundle", "root", root, "depth", depth)
	data, err := c.postForm(ctx, exportURL, form)
	if err != nil {
		return nil, err
	}
	slog.Debug("Export bundle downloaded", "bytes", len(data))
	return data, nil
}

// ParsePage returns the rendered HTML for a single page via action=parse.
func (c *Client) ParsePage(ctx context.Context, title string) (string, error) {
	var resp struct {
		Parse struct {
			Text struct {
				HTML string `json:"*"`
			} `json:"text"`
		} `json:"parse"`
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	params := url.Values{
		"action": {"parse"},
		"format": {"json"},
		"page":   {title},
	}
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", errors.RequestFailed(c.apiURL, fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Info)).
			WithContext("title", title)
	}
	if resp.Parse.Text.HTML == "" {
		return "", errors.RequestFailed(c.apiURL, fmt.Errorf("empty parse result")).
			WithContext("title", title)
	}
	return resp.Parse.Text.HTML, nil
}

// getJSON issues a GET against the Action API and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, params url.Values, out any) error {
	reqURL := c.apiURL + "?" + params.Encode()
	body, err := c.doRequest(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.RequestFailed(reqURL, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// postForm issues a form POST and returns the raw response body.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	return c.doRequest(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// doRequest executes a request under the retry policy. The request is rebuilt
// per attempt since bodies are consumed.
func (c *Client) doRequest(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	var body []byte
	err := c.policy.Do(ctx, func() error {
		req, err := build()
		if err != nil {
			return errors.InternalError("failed to create request", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.RequestFailed(req.URL.String(), err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.RequestFailed(req.URL.String(), fmt.Errorf("read response: %w", err))
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return errors.TransientHTTP(req.URL.String(), resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return errors.RequestFailed(req.URL.String(), fmt.Errorf("status %d", resp.StatusCode))
		}

		body = data
		return nil
	})
	return body, err
}
