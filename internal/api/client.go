package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/model"
)

const maxErrorBody = 64 << 10

// Client talks to the backend over HTTP/JSON.
type Client struct {
	baseURL *url.URL
	token   string
	timeout time.Duration
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends the token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default http.Client. The client is copied, so
// a later timeout never changes the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to the default client
// and to one given with WithHTTPClient, in any option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{baseURL: u, timeout: 10 * time.Second, http: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	hc := *c.http
	hc.Timeout = c.timeout
	c.http = &hc
	return c, nil
}

var _ Backend = (*Client)(nil)

func (c *Client) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	q := url.Values{}
	for _, s := range statuses {
		q.Add("status", string(s))
	}
	var todos []model.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", q, nil, &todos); err != nil {
		return nil, fmt.Errorf("get todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.Status) error {
	body := struct {
		Status model.Status `json:"status"`
	}{status}
	if err := c.do(ctx, http.MethodPatch, todoPath(id)+"/status", nil, body, nil); err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, todoPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

func (c *Client) Create(ctx context.Context, body string) (model.Todo, error) {
	req := struct {
		Body string `json:"body"`
	}{body}
	var td model.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", nil, req, &td); err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return td, nil
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if json.Unmarshal(b, &er) == nil && (er.Error.Code != "" || er.Error.Message != "") {
		apiErr.Code = er.Error.Code
		apiErr.Message = er.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(b))
	}
	return apiErr
}
