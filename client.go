package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/kiltia/analyst/config"

	"go.uber.org/zap"
	"resty.dev/v3"
)

// EmptyAnswer is returned in place of a model response without text.
const EmptyAnswer = "Sorry, I couldn't generate a response. The model output was empty."

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerateRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
}

type GenerateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

// Text returns the first part of the first candidate.
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// NewPrompt builds a single-turn request from a user text and an optional
// system instruction.
func NewPrompt(text, systemInstruction string) GenerateRequest {
	req := GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: text}}}},
	}
	if systemInstruction != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: systemInstruction}}}
	}
	return req
}

// Generator produces a model answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type Client struct {
	sender      *Sender
	endpointURL url.URL
	method      config.HTTPMethod
}

// NewHTTPClient creates the resty client shared by all requests. Retries are
// handled by the Sender, so resty itself never retries.
func NewHTTPClient(cfg config.APIConfig) *resty.Client {
	return resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetLogger(zap.S())
}

// EndpointURL builds `<base>/models/<model>:generateContent`.
func EndpointURL(cfg config.APIConfig) (*url.URL, error) {
	endpoint, err := url.Parse(
		strings.TrimSuffix(cfg.BaseURL, "/") + "/models/" + cfg.Model + ":generateContent",
	)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint url: %w", err)
	}
	return endpoint, nil
}

func NewClient(cfg *config.Config, opts ...SenderOption) (*Client, error) {
	endpoint, err := EndpointURL(cfg.API)
	if err != nil {
		return nil, err
	}
	opts = append([]SenderOption{WithCircuitBreaker(cfg.CircuitBreaker)}, opts...)
	sender := NewSender(NewHTTPClient(cfg.API), cfg.API.Key, cfg.Retry, opts...)
	return NewClientWithSender(sender, *endpoint, cfg.API.Method), nil
}

func NewClientWithSender(
	sender *Sender,
	endpoint url.URL,
	method config.HTTPMethod,
) *Client {
	if method == "" {
		method = config.HTTPMethodPost
	}
	return &Client{sender: sender, endpointURL: endpoint, method: method}
}

func (c *Client) Generate(ctx context.Context, prompt GenerateRequest) (string, error) {
	body, err := json.Marshal(prompt)
	if err != nil {
		return "", fmt.Errorf("marshalling request body: %w", err)
	}
	req := &Request{
		RequestURL: c.endpointURL,
		Method:     c.method,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}

	result, err := c.sender.Send(ctx, req)
	if err != nil {
		return "", err
	}

	var resp GenerateResponse
	if err := json.Unmarshal(result.Response.Bytes(), &resp); err != nil {
		return "", fmt.Errorf("unmarshalling model response: %w", err)
	}
	text := resp.Text()
	if text == "" {
		zap.S().Warnw("model returned an empty response", "attempts", len(result.Attempts))
		return EmptyAnswer, nil
	}
	return text, nil
}
