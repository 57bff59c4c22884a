package shapeshift

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the direct API host. Callers running behind a browser
// CORS restriction supply a proxied base URL through configuration instead;
// the client never sniffs its environment.
const DefaultBaseURL = "https://shapeshift.io"

// Client calls the shapeshift.io API and returns canonical values.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Client for the given base URL. An empty baseURL
// selects DefaultBaseURL. apiKey is only needed for txbyaddress.
func NewClient(baseURL, apiKey string, timeoutSec int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

// Call resolves the operation identifier, builds the request, performs the
// HTTP exchange, and classifies the decoded body. arg may be nil for
// operations that take none. Transport and decode failures are returned
// wrapped, not reinterpreted.
func (c *Client) Call(ctx context.Context, op string, arg any, opts ...CallOption) (any, error) {
	var o CallOptions
	for _, opt := range opts {
		opt(&o)
	}

	wireOp := ResolveOp(op)
	req := BuildRequest(wireOp, arg)

	var reqBody io.Reader = http.NoBody
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("shapeshift %s: encode request body: %w", wireOp, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(c.baseURL), reqBody)
	if err != nil {
		return nil, fmt.Errorf("shapeshift %s: request creation failed: %w", wireOp, err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("shapeshift %s: request failed: %w", wireOp, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shapeshift %s: API returned status %d: %s", wireOp, resp.StatusCode, string(raw))
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("shapeshift %s: failed to decode response: %w", wireOp, err)
	}

	return Classify(wireOp, body, o)
}

// Result carries the outcome of an asynchronous call: exactly one of
// Value or Err is meaningful.
type Result struct {
	Value any
	Err   error
}

// CallAsync issues Call on a new goroutine and returns a buffered channel
// that receives the single result once the transport resolves. Call is the
// blocking variant; this is sugar over it, not the other way around.
func (c *Client) CallAsync(ctx context.Context, op string, arg any, opts ...CallOption) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		v, err := c.Call(ctx, op, arg, opts...)
		ch <- Result{Value: v, Err: err}
	}()
	return ch
}
