package model

// ScheduleStatus is the lifecycle state of a scheduled post.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusPosted    ScheduleStatus = "posted"
)

// String returns the string representation of the status.
func (s ScheduleStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ScheduleStatus) IsValid() bool {
	switch s {
	case ScheduleStatusPending, ScheduleStatusScheduled, ScheduleStatusPosted:
		return true
	}
	return false
}

var scheduleStatusLabels = map[ScheduleStatus]string{
	ScheduleStatusPending:   "awaiting action",
	ScheduleStatusScheduled: "scheduled",
	ScheduleStatusPosted:    "posted",
}

// Label maps the status to its display label. Unknown values pass through
// verbatim.
func (s ScheduleStatus) Label() string {
	if label, ok := scheduleStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ScheduleEntry is one scheduled social post. Entries are never mutated after
// creation; insertion order is display order.
type ScheduleEntry struct {
	ID       int64          `json:"id"`
	VideoRef string         `json:"videoRef"`
	Date     string         `json:"date"` // YYYY-MM-DD
	Time     string         `json:"time"` // HH:MM
	Caption  string         `json:"caption"`
	Status   ScheduleStatus `json:"status"`
}

// ScheduleDraft is the user-supplied part of a new ScheduleEntry.
type ScheduleDraft struct {
	VideoRef string `json:"videoRef"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Caption  string `json:"caption"`
}

// ScheduleView is the presentation model handed to a rendering surface.
type ScheduleView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	VideoRef    string `json:"videoRef"`
	DisplayDate string `json:"displayDate"`
	DisplayTime string `json:"displayTime"`
	Caption     string `json:"caption,omitempty"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	DeletePath  string `json:"deletePath"`
}
