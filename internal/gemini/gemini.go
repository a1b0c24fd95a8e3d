// Package gemini calls the Gemini generateContent API to draft video scripts.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	// fallbackError is reported when a failed response carries no message.
	fallbackError = "API call failed"
	// noContent is the script text used when the response holds no text part.
	noContent = "no content could be generated"

	// apiKeyHeader carries the key so it never appears in a request URL.
	apiKeyHeader = "x-goog-api-key"
)

// APIError is a non-2xx response from the API. Message is the remote
// error.message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError is a call that never got an HTTP response (DNS, refused
// connection, TLS, reset). Message is the network error without the request
// URL.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// newTransportError drops the *url.Error wrapper so the endpoint never
// reaches logs or users.
func newTransportError(err error) *TransportError {
	inner := err
	var ue *url.Error
	if errors.As(err, &ue) {
		inner = ue.Err
	}
	return &TransportError{Message: inner.Error(), Err: inner}
}

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL string
	Model   string
	// Timeout bounds one call. Zero means no limit beyond the caller's context.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client makes generateContent calls. It never retries.
type Client struct {
	http   *resty.Client
	model  string
	logger *slog.Logger
}

// New returns a client for cfg.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0).
		SetLogger(restyLogger{cfg.Logger})
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	return &Client{http: rc, model: cfg.Model, logger: cfg.Logger}
}

// Wire types for generateContent.

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt and the JPEG images in one request and returns the
// first text part of the first candidate.
func (c *Client) Generate(ctx context.Context, apiKey, prompt string, jpegs [][]byte) (string, error) {
	parts := make([]part, 0, len(jpegs)+1)
	parts = append(parts, part{Text: prompt})
	for _, img := range jpegs {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: "image/jpeg",
			Data:     base64.StdEncoding.EncodeToString(img),
		}})
	}

	var out generateResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, apiKey).
		SetBody(generateRequest{Contents: []content{{Parts: parts}}}).
		SetResult(&out).
		Post("/v1beta/models/" + c.model + ":generateContent")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", newTransportError(err)
	}
	c.logger.Debug("generateContent finished",
		"model", c.model, "status", resp.StatusCode(), "images", len(jpegs), "duration", time.Since(start))

	if !resp.IsSuccess() {
		// The body may not be JSON at all (e.g. a proxy error page).
		var apiErr errorResponse
		_ = json.Unmarshal(resp.Body(), &apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = fallbackError
		}
		return "", &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	if len(out.Candidates) > 0 && len(out.Candidates[0].Content.Parts) > 0 {
		if text := out.Candidates[0].Content.Parts[0].Text; text != "" {
			return text, nil
		}
	}
	return noContent, nil
}

// GenerateScript normalises the images, builds the script prompt for product,
// and calls Generate.
func (c *Client) GenerateScript(ctx context.Context, apiKey string, product model.ProductDraft, images [][]byte) (string, error) {
	jpegs, err := NormalizeImages(images)
	if err != nil {
		return "", err
	}
	return c.Generate(ctx, apiKey, ScriptPrompt(product), jpegs)
}

// restyLogger routes resty's own diagnostics to slog.
type restyLogger struct{ l *slog.Logger }

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
