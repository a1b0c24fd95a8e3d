package events

import (
	"context"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// Event topic constants
const (
	TopicConfigSaved = "reelcast.config.saved"

	TopicScheduleCreated = "reelcast.schedule.created"
	TopicScheduleDeleted = "reelcast.schedule.deleted"

	TopicDashboardToggled  = "reelcast.dashboard.toggled"
	TopicDashboardResynced = "reelcast.dashboard.resynced"

	TopicProductAdded   = "reelcast.product.added"
	TopicProductRemoved = "reelcast.product.removed"

	TopicGenerationCompleted = "reelcast.generation.completed"
)

// AllTopics matches every reelcast subject.
const AllTopics = "reelcast.>"

// Event types

// ConfigSaved carries the masked config; secrets never leave the process.
type ConfigSaved struct {
	Config model.AppConfig `json:"config"`
}

type ScheduleCreated struct {
	Schedule model.ScheduleEntry `json:"schedule"`
}

type ScheduleDeleted struct {
	ScheduleID int64 `json:"schedule_id"`
}

type DashboardToggled struct {
	IsSplitMode bool `json:"is_split_mode"`
}

type DashboardResynced struct {
	URL string `json:"url"`
}

type ProductAdded struct {
	Product model.Product `json:"product"`
}

type ProductRemoved struct {
	ProductID string `json:"product_id"`
}

// GenerationCompleted omits the generated text; fetch it from the current
// generation endpoint.
type GenerationCompleted struct {
	GenerationID string `json:"generation_id"`
	ProductName  string `json:"product_name"`
	ImageCount   int    `json:"image_count"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
