package model

import "time"

// GenerationResult is the outcome of one successful generation call. It is
// held in memory as the current video and never persisted.
type GenerationResult struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Product    ProductDraft `json:"product"`
	ImageCount int          `json:"imageCount"`
	CreatedAt  time.Time    `json:"createdAt"`
}
