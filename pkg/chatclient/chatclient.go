// Package chatclient implements an OpenAI-compatible chat-completion
// client for the FaultAnalyzer's upstream call (§4.7, §6).
package chatclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/apperr"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

// Message is the single request/response message shape (§9 Open Question
// 1: Message and OpenAiMessage are consolidated into this one type).
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatChoice struct {
	Message Message `json:"message"`
}

// Response is the decoded chat-completion response.
type Response struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// FirstContent returns the first choice's message content, or "" if the
// response carries no choices.
func (r *Response) FirstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Config points the client at an upstream chat-completion endpoint.
type Config struct {
	// BaseAddress + Endpoint are joined to form the request URL, e.g.
	// "https://api.openai.com/v1" + "/chat/completions".
	BaseAddress string
	Endpoint    string
	APIKey      string
	Model       string
}

// Client is a thin HTTP client for one chat-completion endpoint. Resilience
// (retry/circuit-breaking/timeout/bulkhead) is provided by the
// http.RoundTripper passed in, not by this package, keeping the wire
// concerns and the resilience policy independently testable.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New builds a Client. The transport (http.DefaultTransport when nil) is
// always wrapped with gzhttp.Transport, which asks for gzip responses and
// decompresses them; request bodies are sent uncompressed.
func New(cfg Config, transport http.RoundTripper) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Transport: gzhttp.Transport(transport)},
	}
}

func (c *Client) url() string {
	return strings.TrimRight(c.cfg.BaseAddress, "/") + "/" + strings.TrimLeft(c.cfg.Endpoint, "/")
}

// Send submits messages to the configured chat-completion endpoint and
// decodes the response.
func (c *Client) Send(ctx context.Context, messages []Message) (*Response, error) {
	reqBody := chatRequest{Model: c.cfg.Model, Messages: messages}
	body, err := serializer.Serialize(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewBufferString(body))
	if err != nil {
		return nil, apperr.Upstream("chatclient", "Send", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// transport-layer failures (circuit open, timeout, network error) are
		// already typed by the resilience transport; pass them through.
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, apperr.Upstream("chatclient", "Send", "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || buf.Len() == 0 {
		return nil, apperr.Upstream("chatclient", "Send",
			fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil).
			WithMetadata("status_code", resp.StatusCode)
	}

	out, err := serializer.Deserialize[Response](buf.String())
	if err != nil {
		return nil, err
	}
	return &out, nil
}
