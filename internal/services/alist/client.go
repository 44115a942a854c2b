package alist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"mediamend/internal/logging"
	"mediamend/internal/services"
)

const component = "alist"

// authRetryLimit bounds the 401 refresh-and-reissue cycle to a single retry
// per logical operation.
const authRetryLimit = 1

// errBodyLimit caps how much of an error response body is carried in errors.
const errBodyLimit = 4096

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for storage API calls.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithLogger attaches a logger for advisory-failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, component)
	}
}

// Client talks to an AList-compatible file store. A single instance may be
// shared across concurrent requests; the token cell is mutex-guarded.
type Client struct {
	baseURL  string
	username string
	password string

	http   HTTPDoer
	logger *slog.Logger

	tokenMu sync.Mutex
	token   string
}

// New constructs a client for the store at baseURL. The token may be empty
// when username/password are provided; the first authenticated call then
// triggers a login.
func New(baseURL, token, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		username: strings.TrimSpace(username),
		password: password,
		token:    strings.TrimSpace(token),
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the token currently used for authenticated calls.
func (c *Client) Token() string {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.tokenMu.Lock()
	c.token = token
	c.tokenMu.Unlock()
}

func (c *Client) canRefresh() bool {
	return c.username != "" && c.password != ""
}

// Login exchanges the configured credentials for a fresh token and stores it
// on the client for subsequent calls.
func (c *Client) Login(ctx context.Context) (string, error) {
	if !c.canRefresh() {
		return "", services.Wrap(services.ErrAuth, component, "login", "username and password are not configured", nil)
	}

	payload, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", services.Wrap(services.ErrAuth, component, "login", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", services.Wrap(services.ErrAuth, component, "login", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrAuth, component, "login", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrAuth, component, "login", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", services.Wrap(services.ErrAuth, component, "login", "decode response", err)
	}
	if env.Code != http.StatusOK {
		return "", services.Wrap(services.ErrAuth, component, "login", fmt.Sprintf("code %d: %s", env.Code, env.Message), nil)
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", services.Wrap(services.ErrAuth, component, "login", "decode token", err)
	}
	if strings.TrimSpace(data.Token) == "" {
		return "", services.Wrap(services.ErrAuth, component, "login", "response carried no token", nil)
	}

	c.setToken(data.Token)
	return data.Token, nil
}

// do issues an authenticated request built by build. On exactly one 401, when
// credentials are configured, it refreshes the token and reissues the rebuilt
// request; a failed refresh surfaces the original 401 response untouched.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	token := c.Token()
	for attempt := 0; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, services.Wrap(services.ErrRemote, component, "request", "build request", err)
		}
		req.Header.Set("Authorization", token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, services.Wrap(services.ErrRemote, component, "request", "", err)
		}

		if resp.StatusCode != http.StatusUnauthorized || attempt >= authRetryLimit || !c.canRefresh() {
			return resp, nil
		}

		fresh, loginErr := c.Login(ctx)
		if loginErr != nil {
			c.logger.Warn("token refresh failed", logging.Error(loginErr))
			return resp, nil
		}
		resp.Body.Close()
		token = fresh
	}
}

// postJSON issues an authenticated JSON POST and unwraps the AList envelope.
// The returned raw message is nil when the envelope carried no data.
func (c *Client) postJSON(ctx context.Context, apiPath string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, component, apiPath, "encode request", err)
	}

	resp, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPath, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, remoteStatusError(apiPath, resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, services.Wrap(services.ErrRemote, component, apiPath, "decode response", err)
	}
	if env.Code != http.StatusOK {
		return nil, services.Wrap(services.ErrRemote, component, apiPath, fmt.Sprintf("code %d: %s", env.Code, env.Message), nil)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, nil
	}
	return env.Data, nil
}

// ListDirectory lists entries under path.
func (c *Client) ListDirectory(ctx context.Context, dirPath string, page, perPage int) (*Listing, error) {
	data, err := c.postJSON(ctx, "/api/fs/list", listRequest{
		Path:    dirPath,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, err
	}
	listing := &Listing{}
	if data == nil {
		return listing, nil
	}
	if err := json.Unmarshal(data, listing); err != nil {
		return nil, services.Wrap(services.ErrRemote, component, "list", "decode listing", err)
	}
	return listing, nil
}

// GetFile resolves a path to file metadata including a direct download URL.
// It returns nil without error when the store reports no object at path.
func (c *Client) GetFile(ctx context.Context, filePath string) (*FileInfo, error) {
	data, err := c.postJSON(ctx, "/api/fs/get", getRequest{Path: filePath})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	info := &FileInfo{}
	if err := json.Unmarshal(data, info); err != nil {
		return nil, services.Wrap(services.ErrRemote, component, "get", "decode file info", err)
	}
	return info, nil
}

// UploadFile overwrites (or creates) the file at filePath with content. On
// success the containing directory's remote listing cache is refreshed on a
// best-effort basis.
func (c *Client) UploadFile(ctx context.Context, filePath, content string) error {
	resp, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/fs/put", strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		req.Header.Set("File-Path", url.PathEscape(filePath))
		req.Header.Set("As-Task", "false")
		req.Header.Set("Content-Type", "text/plain")
		req.ContentLength = int64(len(content))
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return remoteStatusError("/api/fs/put", resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return services.Wrap(services.ErrRemote, component, "upload", "decode response", err)
	}
	if env.Code != http.StatusOK {
		return services.Wrap(services.ErrRemote, component, "upload", fmt.Sprintf("code %d: %s", env.Code, env.Message), nil)
	}

	c.RefreshDirectory(ctx, path.Dir(filePath))
	return nil
}

// DeleteFile removes a single file by name within its containing directory.
func (c *Client) DeleteFile(ctx context.Context, filePath string) error {
	_, err := c.postJSON(ctx, "/api/fs/remove", removeRequest{
		Names: []string{path.Base(filePath)},
		Dir:   path.Dir(filePath),
	})
	return err
}

// RefreshDirectory asks the store to invalidate its own listing cache for
// dirPath. The call is advisory: failures are logged and never propagated.
func (c *Client) RefreshDirectory(ctx context.Context, dirPath string) {
	_, err := c.postJSON(ctx, "/api/fs/list", listRequest{
		Path:    dirPath,
		Refresh: true,
		Page:    1,
	})
	if err != nil {
		c.logger.Warn("directory refresh failed",
			logging.String("path", dirPath),
			logging.Error(err))
	}
}

// Download fetches the body behind a direct download URL. No Authorization
// header is attached; raw URLs are pre-signed by the store.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, component, "download", "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, component, "download", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, remoteStatusError(rawURL, resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, component, "download", "read body", err)
	}
	return body, nil
}

func remoteStatusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	detail := fmt.Sprintf("status %d", resp.StatusCode)
	if text := strings.TrimSpace(string(body)); text != "" {
		detail = fmt.Sprintf("%s: %s", detail, text)
	}
	var marker error = services.ErrRemote
	if resp.StatusCode == http.StatusUnauthorized {
		marker = services.ErrAuth
	}
	return services.Wrap(marker, component, operation, detail, nil)
}
