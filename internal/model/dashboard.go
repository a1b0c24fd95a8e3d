package model

// DashboardState is the persisted part of the dashboard view. The flow URL is
// always derived and never stored.
type DashboardState struct {
	IsSplitMode bool `json:"isSplitMode"`
}

// Embed tells the hosting view what to show in the embedded Flow pane.
// Recreate asks the caller to tear the embed down and build a new one instead
// of updating its address in place.
type Embed struct {
	URL      string `json:"url"`
	Recreate bool   `json:"recreate"`
}
