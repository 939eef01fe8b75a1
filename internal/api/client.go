// Package api talks to the todo backend over its REST contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultBaseURL is used when no override is configured.
const DefaultBaseURL = "http://localhost:3001"

const todosPath = "/api/todos"

// Client issues requests against {baseURL}/api/todos. It holds no state
// beyond its configuration and is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	logger   *log.Logger
	validate bool
	schemas  *validator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithValidation toggles schema checks on successful response bodies.
func WithValidation(on bool) Option {
	return func(c *Client) { c.validate = on }
}

// New returns a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	c := &Client{
		baseURL:  baseURL,
		http:     http.DefaultClient,
		logger:   logging.Discard(),
		validate: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validate {
		v, err := newValidator()
		if err != nil {
			return nil, err
		}
		c.schemas = v
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches the whole collection. The backend may answer with a bare
// array or with {"items": [...]}; anything else is an empty collection.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	res, err := c.do(ctx, http.MethodGet, todosPath, nil)
	if err != nil {
		return nil, err
	}

	var items any
	switch v := res.data.(type) {
	case []any:
		items = v
	case map[string]any:
		items = v["items"]
	}
	arr, ok := items.([]any)
	if !ok {
		return []model.Todo{}, nil
	}
	if err := c.schemas.validateList(arr); err != nil {
		return nil, err
	}

	todos := make([]model.Todo, 0, len(arr))
	if _, isArray := res.data.([]any); isArray {
		err = json.Unmarshal(res.raw, &todos)
	} else {
		var env struct {
			Items []model.Todo `json:"items"`
		}
		err = json.Unmarshal(res.raw, &env)
		todos = env.Items
	}
	if err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Create posts a new todo and returns the server's representation.
func (c *Client) Create(ctx context.Context, in model.NewTodo) (model.Todo, error) {
	res, err := c.do(ctx, http.MethodPost, todosPath, in)
	if err != nil {
		return model.Todo{}, err
	}
	return c.decodeTodo(res)
}

// Update replaces the given fields of todo id.
func (c *Client) Update(ctx context.Context, id model.ID, patch model.TodoPatch) (model.Todo, error) {
	res, err := c.do(ctx, http.MethodPut, itemPath(id), patch)
	if err != nil {
		return model.Todo{}, err
	}
	return c.decodeTodo(res)
}

// Delete removes todo id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(id), nil)
	return err
}

// Toggle flips the completion flag server-side.
func (c *Client) Toggle(ctx context.Context, id model.ID) (model.Todo, error) {
	res, err := c.do(ctx, http.MethodPatch, itemPath(id)+"/toggle", nil)
	if err != nil {
		return model.Todo{}, err
	}
	return c.decodeTodo(res)
}

func itemPath(id model.ID) string {
	return todosPath + "/" + url.PathEscape(id.String())
}

type response struct {
	status int
	raw    []byte
	data   any
	isJSON bool
}

func (c *Client) decodeTodo(res response) (model.Todo, error) {
	if !res.isJSON || res.data == nil {
		return model.Todo{}, fmt.Errorf("decode todo: expected a JSON object (status %d)", res.status)
	}
	if err := c.schemas.validateTodo(res.data); err != nil {
		return model.Todo{}, err
	}
	var t model.Todo
	if err := json.Unmarshal(res.raw, &t); err != nil {
		return model.Todo{}, fmt.Errorf("decode todo: %w", err)
	}
	return t, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	res := readResponse(resp)
	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", res.status,
		"request_id", reqID,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, &Error{Status: res.status, Body: res.data, Message: messageFrom(res.data)}
	}
	return res, nil
}

// readResponse never fails: unreadable or unparsable bodies leave data nil.
func readResponse(resp *http.Response) response {
	res := response{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return res
	}
	res.raw = raw

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		res.isJSON = true
		if len(bytes.TrimSpace(raw)) == 0 {
			return res
		}
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			res.data = v
		}
		return res
	}
	res.data = string(raw)
	return res
}
