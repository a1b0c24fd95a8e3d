package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// HTTPClient implements StudioClient using the studio's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting baseURL (e.g.
// "http://localhost:8080"). When token is non-empty an Authorization header
// is sent on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Config ---

func (c *HTTPClient) GetConfig(ctx context.Context) (*ConfigResponse, error) {
	var resp ConfigResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/config", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SubmitConfig(ctx context.Context, cfg model.AppConfig) (*ConfigResponse, error) {
	var resp ConfigResponse
	if err := c.doJSON(ctx, http.MethodPut, "/v1/config", cfg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Schedules ---

func (c *HTTPClient) ListSchedules(ctx context.Context, where string) ([]model.ScheduleEntry, error) {
	path := "/v1/schedules"
	if where != "" {
		path += "?" + url.Values{"where": {where}}.Encode()
	}
	var resp struct {
		Schedules []model.ScheduleEntry `json:"schedules"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Schedules, nil
}

func (c *HTTPClient) RenderSchedules(ctx context.Context) ([]model.ScheduleView, error) {
	var resp struct {
		Schedules []model.ScheduleView `json:"schedules"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/schedules/view", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Schedules, nil
}

func (c *HTTPClient) CreateSchedule(ctx context.Context, draft model.ScheduleDraft) (*ScheduleResponse, error) {
	var resp ScheduleResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/schedules", draft, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSchedule returns a warning when the server kept the deletion in
// memory only.
func (c *HTTPClient) DeleteSchedule(ctx context.Context, id int64) (string, error) {
	var resp struct {
		Warning string `json:"warning"`
	}
	err := c.doJSON(ctx, http.MethodDelete, "/v1/schedules/"+strconv.FormatInt(id, 10), nil, &resp)
	return resp.Warning, err
}

// --- Dashboard ---

func (c *HTTPClient) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	var resp DashboardResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ToggleSplitMode(ctx context.Context) (*DashboardResponse, error) {
	var resp DashboardResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/dashboard/toggle", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ResyncDashboard(ctx context.Context) (*model.Embed, error) {
	var embed model.Embed
	if err := c.doJSON(ctx, http.MethodPost, "/v1/dashboard/resync", nil, &embed); err != nil {
		return nil, err
	}
	return &embed, nil
}

// --- Products ---

func (c *HTTPClient) ListProducts(ctx context.Context, query string) ([]model.Product, error) {
	path := "/v1/products"
	if query != "" {
		path += "?" + url.Values{"q": {query}}.Encode()
	}
	var resp struct {
		Products []model.Product `json:"products"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *HTTPClient) AddProduct(ctx context.Context, draft model.ProductDraft) (*ProductResponse, error) {
	var resp ProductResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/products", draft, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) RemoveProduct(ctx context.Context, id string) (string, error) {
	var resp struct {
		Warning string `json:"warning"`
	}
	err := c.doJSON(ctx, http.MethodDelete, "/v1/products/"+url.PathEscape(id), nil, &resp)
	return resp.Warning, err
}

// --- Generation ---

// Generate uploads the product and its photos as multipart form data.
func (c *HTTPClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"name", req.Product.Name},
		{"description", req.Product.Description},
		{"price", req.Product.Price},
		{"style", req.Product.Style},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", f.name, err)
		}
	}
	for _, img := range req.Images {
		fw, err := mw.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, fmt.Errorf("adding image %s: %w", img.Name, err)
		}
		if _, err := fw.Write(img.Data); err != nil {
			return nil, fmt.Errorf("adding image %s: %w", img.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	respBody, _, err := c.do(ctx, http.MethodPost, "/v1/generate", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var resp GenerateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) CurrentGeneration(ctx context.Context) (*CurrentResponse, error) {
	var resp CurrentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/generate/current", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportScript downloads the current script and the filename the server
// suggests for it.
func (c *HTTPClient) ExportScript(ctx context.Context) (string, []byte, error) {
	body, header, err := c.do(ctx, http.MethodGet, "/v1/generate/current/script", nil, "")
	if err != nil {
		return "", nil, err
	}
	filename := "script.txt"
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, body, nil
}

// --- Operations ---

func (c *HTTPClient) Backup(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/backup", nil, nil)
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into result. A nil result discards the body.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	respBody, _, err := c.do(ctx, method, path, bodyReader, contentType)
	if err != nil {
		return err
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// do performs the request and returns the body of a successful response.
// Responses with status >= 400 become *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.Header, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	return respBody, resp.Header, nil
}

var _ StudioClient = (*HTTPClient)(nil)
