// Package api implements the HTTP client for the Polyglot translation
// service. Every method performs exactly one request attempt and maps
// failures onto the polyglot error taxonomy; retry policy belongs to the
// caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ZaguanLabs/polyglot"
)

// DefaultBaseURL is the production endpoint of the translation service.
const DefaultBaseURL = "https://api.polyglot-translate.com/v2"

// TraceHeader is the response header carrying the service's diagnostic
// trace identifier.
const TraceHeader = "X-Trace-Id"

// Client is an HTTP client for the translation service. It records the trace
// id of the most recent response, success or failure, for support reporting.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger

	mu          sync.Mutex
	lastTraceID string
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LastTraceID returns the trace id of the most recent response observed by
// this client, or empty if none carried one.
func (c *Client) LastTraceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTraceID
}

func (c *Client) recordTrace(traceID string) {
	if traceID == "" {
		return
	}
	c.mu.Lock()
	c.lastTraceID = traceID
	c.mu.Unlock()
}

// errorBody is the service's JSON error payload.
type errorBody struct {
	Message string `json:"message"`
}

// do issues one request and decodes a 200 response into out. Non-200
// statuses and transport failures come back as *polyglot.RequestError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &polyglot.RequestError{Kind: polyglot.KindUnknown, Message: "encoding request", Cause: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &polyglot.RequestError{Kind: polyglot.KindUnknown, Message: "building request", Cause: err}
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	req.Header.Set("User-Agent", polyglot.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancellation belongs to the caller; everything else that kept a
		// response from arriving is a network failure.
		if errors.Is(err, context.Canceled) {
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return &polyglot.RequestError{Kind: polyglot.KindNetwork, Message: "request timed out", Cause: context.DeadlineExceeded}
		}
		return &polyglot.RequestError{Kind: polyglot.KindNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	traceID := resp.Header.Get(TraceHeader)
	c.recordTrace(traceID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := polyglot.ClassifyStatus(resp.StatusCode)

		msg := fmt.Sprintf("service returned HTTP %d", resp.StatusCode)
		var eb errorBody
		if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
			if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
				msg = eb.Message
			}
		}

		c.logger.Debug("request failed",
			"method", method, "path", path,
			"status", resp.StatusCode, "trace", traceID)

		return &polyglot.RequestError{Kind: kind, Message: msg, TraceID: traceID}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &polyglot.RequestError{
			Kind:    polyglot.KindMalformed,
			Message: "undecodable response payload",
			TraceID: traceID,
			Cause:   err,
		}
	}

	return nil
}

type translateRequest struct {
	Text               []string `json:"text"`
	TargetLang         string   `json:"target_lang"`
	SourceLang         string   `json:"source_lang,omitempty"`
	Formality          string   `json:"formality,omitempty"`
	GlossaryID         string   `json:"glossary_id,omitempty"`
	ModelType          string   `json:"model_type,omitempty"`
	TagHandling        string   `json:"tag_handling,omitempty"`
	SplitSentences     string   `json:"split_sentences,omitempty"`
	PreserveFormatting bool     `json:"preserve_formatting,omitempty"`
	Context            string   `json:"context,omitempty"`
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLang string `json:"detected_source_language"`
		Text               string `json:"text"`
	} `json:"translations"`
}

// Translate translates a batch of texts in one request. It implements
// polyglot.Service.
func (c *Client) Translate(ctx context.Context, texts []string, params polyglot.TranslateParams) ([]polyglot.Translation, error) {
	if len(texts) == 0 {
		return []polyglot.Translation{}, nil
	}

	req := translateRequest{
		Text:               texts,
		TargetLang:         params.TargetLang,
		SourceLang:         params.SourceLang,
		Formality:          string(params.Formality),
		GlossaryID:         params.GlossaryID,
		ModelType:          string(params.ModelType),
		TagHandling:        string(params.TagHandling),
		SplitSentences:     params.SplitSentences,
		PreserveFormatting: params.PreserveFormatting,
		Context:            params.Context,
	}

	var resp translateResponse
	if err := c.do(ctx, http.MethodPost, "/translate", nil, req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Translations) != len(texts) {
		return nil, &polyglot.RequestError{
			Kind:    polyglot.KindMalformed,
			Message: fmt.Sprintf("expected %d translations, got %d", len(texts), len(resp.Translations)),
			TraceID: c.LastTraceID(),
		}
	}

	results := make([]polyglot.Translation, len(resp.Translations))
	for i, tr := range resp.Translations {
		results[i] = polyglot.Translation{
			Text:               tr.Text,
			TargetLang:         params.TargetLang,
			DetectedSourceLang: tr.DetectedSourceLang,
		}
	}

	return results, nil
}

// Usage fetches account consumption against the plan limit.
func (c *Client) Usage(ctx context.Context) (*polyglot.Usage, error) {
	var usage polyglot.Usage
	if err := c.do(ctx, http.MethodGet, "/usage", nil, nil, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// SourceLanguages lists languages the service can translate from.
func (c *Client) SourceLanguages(ctx context.Context) ([]polyglot.Language, error) {
	return c.languages(ctx, "source")
}

// TargetLanguages lists languages the service can translate to.
func (c *Client) TargetLanguages(ctx context.Context) ([]polyglot.Language, error) {
	return c.languages(ctx, "target")
}

func (c *Client) languages(ctx context.Context, kind string) ([]polyglot.Language, error) {
	query := url.Values{"type": []string{kind}}
	var langs []polyglot.Language
	if err := c.do(ctx, http.MethodGet, "/languages", query, nil, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}
