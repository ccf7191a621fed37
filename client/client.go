package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 2 * time.Second
)

// invalidTokenMarkers are the backend's 401 messages that mean the persisted
// session is dead and must be dropped client-side.
var invalidTokenMarkers = []string{"Token is not valid", "No token"}

// RequestOptions is per-request configuration. A request without Retry set
// is never retried: the first failure propagates immediately.
type RequestOptions struct {
	// Retry is the maximum number of retry attempts after the initial try.
	Retry int
	// RetryDelay is the base delay; the wait before retry k is k × RetryDelay.
	// Zero means the 2s default.
	RetryDelay time.Duration
	// Header entries are added to the outgoing request.
	Header http.Header
}

// Response is the raw outcome of a request. Non-2xx statuses are returned
// here, not as errors, so callers can branch on them.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out interface{}) error {
	return json.Unmarshal(r.Body, out)
}

// envelope is the backend's conventional {success, data|message} wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is the one shared request object the rest of the SDK goes through,
// so auth header injection and failure handling are applied uniformly.
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore

	// sleep is swapped out in tests to observe retry delays.
	sleep func(context.Context, time.Duration) error
}

// New builds a client for the given API base URL. store may be nil for
// callers that never authenticate (e.g. outbound gateway requests).
func New(baseURL string, store SessionStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do sends one logical request. Transient failures (503, timeout, or no
// response at all) are retried up to opts.Retry times with a linearly
// increasing delay; the retry runs through this same loop with an explicit
// attempt counter rather than a second client instance. On a 401 whose
// message marks the token invalid, the persisted token and user are removed
// exactly once and the response still propagates to the caller.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	retryDelay := opts.RetryDelay
	if retryDelay == 0 {
		retryDelay = defaultRetryDelay
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, method, path, payload, opts.Header)
		if err != nil {
			// No response at all. Retry if the request asked for it.
			lastErr = err
			if attempt < opts.Retry {
				if serr := c.sleep(ctx, time.Duration(attempt+1)*retryDelay); serr != nil {
					return nil, serr
				}
				continue
			}
			return nil, &NetworkError{Err: lastErr}
		}

		if resp.StatusCode == http.StatusServiceUnavailable && attempt < opts.Retry {
			if serr := c.sleep(ctx, time.Duration(attempt+1)*retryDelay); serr != nil {
				return nil, serr
			}
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			c.handleAuthFailure(resp)
		}

		return resp, nil
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, extra http.Header) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range extra {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	// Bearer injection: only when a token is persisted.
	if c.store != nil {
		if token, ok := c.store.Get(StorageKeyToken); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

// handleAuthFailure drops the persisted session when the backend says the
// token is missing or invalid. It does not redirect or retry: the caller's
// UI layer observes the now-absent session and reacts.
func (c *Client) handleAuthFailure(resp *Response) {
	if c.store == nil {
		return
	}
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return
	}
	for _, marker := range invalidTokenMarkers {
		if strings.Contains(env.Message, marker) {
			c.store.Delete(StorageKeyToken)
			c.store.Delete(StorageKeyUser)
			return
		}
	}
}

// Get issues a GET and decodes the envelope's data field into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts *RequestOptions) error {
	return c.call(ctx, http.MethodGet, path, nil, out, opts)
}

// Post issues a POST and decodes the envelope's data field into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts *RequestOptions) error {
	return c.call(ctx, http.MethodPost, path, body, out, opts)
}

// Put issues a PUT and decodes the envelope's data field into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}, opts *RequestOptions) error {
	return c.call(ctx, http.MethodPut, path, body, out, opts)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts *RequestOptions) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, opts)
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}, opts *RequestOptions) error {
	resp, err := c.Do(ctx, method, path, body, opts)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return err
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
