// Package client provides the interface the reel CLI uses to talk to a studio
// server and an HTTP/JSON implementation of it.
package client

import (
	"context"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// StudioClient is implemented by HTTPClient.
type StudioClient interface {
	// Config
	GetConfig(ctx context.Context) (*ConfigResponse, error)
	SubmitConfig(ctx context.Context, cfg model.AppConfig) (*ConfigResponse, error)

	// Schedules
	ListSchedules(ctx context.Context, where string) ([]model.ScheduleEntry, error)
	RenderSchedules(ctx context.Context) ([]model.ScheduleView, error)
	CreateSchedule(ctx context.Context, draft model.ScheduleDraft) (*ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, id int64) (string, error)

	// Dashboard
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
	ToggleSplitMode(ctx context.Context) (*DashboardResponse, error)
	ResyncDashboard(ctx context.Context) (*model.Embed, error)

	// Products
	ListProducts(ctx context.Context, query string) ([]model.Product, error)
	AddProduct(ctx context.Context, draft model.ProductDraft) (*ProductResponse, error)
	RemoveProduct(ctx context.Context, id string) (string, error)

	// Generation
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	CurrentGeneration(ctx context.Context) (*CurrentResponse, error)
	ExportScript(ctx context.Context) (filename string, text []byte, err error)

	// Events
	StreamEvents(ctx context.Context, topics []string, fn func(Event) error) error

	// Operations
	Backup(ctx context.Context) error
	Health(ctx context.Context) (string, error)

	Close() error
}

// ConfigResponse is returned by GET and PUT /v1/config. Secrets are masked.
type ConfigResponse struct {
	Config     model.AppConfig `json:"config"`
	Configured bool            `json:"configured"`
	Next       string          `json:"next,omitempty"`
	Warning    string          `json:"warning,omitempty"`
}

// ScheduleResponse is returned when a schedule is created.
type ScheduleResponse struct {
	Schedule model.ScheduleEntry `json:"schedule"`
	Warning  string              `json:"warning,omitempty"`
}

// DashboardResponse describes the dashboard view.
type DashboardResponse struct {
	IsSplitMode bool   `json:"isSplitMode"`
	FlowURL     string `json:"flowUrl,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
	Configured  bool   `json:"configured"`
	Warning     string `json:"warning,omitempty"`
}

// ProductResponse is returned when a product is added.
type ProductResponse struct {
	Product model.Product `json:"product"`
	Warning string        `json:"warning,omitempty"`
}

// Image is one photo uploaded for generation.
type Image struct {
	Name string
	Data []byte
}

// GenerateRequest holds the product text and photos for one generation.
type GenerateRequest struct {
	Product model.ProductDraft
	Images  []Image
}

// GenerateResponse is the outcome of a successful generation.
type GenerateResponse struct {
	Result  model.GenerationResult `json:"result"`
	Embed   model.Embed            `json:"embed"`
	Warning string                 `json:"warning,omitempty"`
}

// CurrentResponse is the latest generation with its rendered preview.
type CurrentResponse struct {
	Result model.GenerationResult `json:"result"`
	HTML   string                 `json:"html"`
}
