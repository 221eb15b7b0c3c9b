package siyuan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atomicstack/siyuan-tui/internal/backend"
)

const DefaultBaseURL = "http://127.0.0.1:6806"

// maxResponseBytes caps how much of a kernel response is read.
const maxResponseBytes = 8 << 20

// ErrUnauthorized is returned when the kernel rejects the configured token.
var ErrUnauthorized = errors.New("siyuan: unauthorized")

// APIError is a non-zero code in the kernel's response envelope.
type APIError struct {
	Endpoint string
	Code     int
	Msg      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("siyuan: %s: code %d: %s", e.Endpoint, e.Code, e.Msg)
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type requestIDKey struct{}

// WithRequestID tags ctx so outgoing requests carry id in X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client is a Backend served by a running SiYuan kernel.
type Client struct {
	baseURL  string
	token    string
	limit    int
	http     *http.Client
	throttle *backend.Throttle
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLimit caps the number of rows returned by Search.
func WithLimit(n int) Option {
	return func(c *Client) { c.limit = n }
}

// WithThrottle rate-limits outgoing requests.
func WithThrottle(t *backend.Throttle) Option {
	return func(c *Client) { c.throttle = t }
}

// NewClient returns a client for the kernel at baseURL.
func NewClient(baseURL, token string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		limit:   DefaultSearchLimit,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a substring match over block content.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	var blocks []Block
	body := map[string]string{"stmt": searchStatement(query, c.limit)}
	if err := c.post(ctx, "/api/query/sql", body, &blocks); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(blocks))
	for _, b := range blocks {
		results = append(results, ResultFromBlock(b))
	}
	return results, nil
}

// Document exports the document rooted at id as Markdown and splits it into
// top-level blocks.
func (c *Client) Document(ctx context.Context, id string) (Document, error) {
	var exported struct {
		HPath   string `json:"hPath"`
		Content string `json:"content"`
	}
	if err := c.post(ctx, "/api/export/exportMdContent", map[string]string{"id": id}, &exported); err != nil {
		return Document{}, err
	}
	doc := Document{ID: id, HPath: exported.HPath, Title: TitleFromHPath(exported.HPath)}
	for _, md := range splitMarkdownBlocks(exported.Content) {
		doc.Blocks = append(doc.Blocks, Block{RootID: id, Markdown: md, Content: md})
	}
	return doc, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	if err := c.throttle.Wait(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if id := requestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return err
	}
	if len(raw) > maxResponseBytes {
		return fmt.Errorf("siyuan: %s: response exceeds %d bytes", endpoint, maxResponseBytes)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("siyuan: %s: http %d", endpoint, resp.StatusCode)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("siyuan: %s: decode envelope: %w", endpoint, err)
	}
	if env.Code != 0 {
		return &APIError{Endpoint: endpoint, Code: env.Code, Msg: env.Msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("siyuan: %s: decode data: %w", endpoint, err)
	}
	return nil
}
