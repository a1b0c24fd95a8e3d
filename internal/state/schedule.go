package state

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/idgen"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// videoTitles names the videos the creator offers for scheduling.
var videoTitles = map[string]string{
	"video1": "Product review video #1",
	"video2": "Product review video #2",
}

// ScheduleStore is the ordered list of scheduled posts.
type ScheduleStore struct {
	deps
	mu      sync.RWMutex
	entries []model.ScheduleEntry
	ids     *idgen.Sequence
	policy  *bluemonday.Policy
}

// NewScheduleStore returns an empty store. Call Load to read persisted state.
func NewScheduleStore(a *store.Adapter, opts Options) *ScheduleStore {
	d := newDeps(a, opts)
	return &ScheduleStore{
		deps:   d,
		ids:    idgen.NewSequenceWithClock(d.now),
		policy: bluemonday.StrictPolicy(),
	}
}

// Load replaces the in-memory list with the persisted one. Loaded ids are fed
// to the id sequence so new ids always sort after them.
func (s *ScheduleStore) Load(ctx context.Context) []model.ScheduleEntry {
	var entries []model.ScheduleEntry
	if !s.store.Load(ctx, model.KeySchedules, &entries) {
		entries = nil
	}
	for _, e := range entries {
		s.ids.Observe(e.ID)
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return slices.Clone(entries)
}

// List returns a snapshot in insertion order.
func (s *ScheduleStore) List() []model.ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Filter returns the entries matching the where expression, in order.
func (s *ScheduleStore) Filter(where string) ([]model.ScheduleEntry, error) {
	f, err := model.CompileScheduleFilter(where)
	if err != nil {
		return nil, err
	}
	return f.Apply(s.List())
}

// Create appends a new scheduled entry and persists the whole list.
func (s *ScheduleStore) Create(ctx context.Context, draft model.ScheduleDraft) (model.ScheduleEntry, error) {
	if err := model.ValidateScheduleDraft(draft); err != nil {
		return model.ScheduleEntry{}, err
	}

	s.mu.Lock()
	entry := model.ScheduleEntry{
		ID:       s.ids.Next(),
		VideoRef: draft.VideoRef,
		Date:     draft.Date,
		Time:     draft.Time,
		Caption:  draft.Caption,
		Status:   model.ScheduleStatusScheduled,
	}
	s.entries = append(s.entries, entry)
	saveErr := s.store.Save(ctx, model.KeySchedules, s.entries)
	s.mu.Unlock()

	s.publish(ctx, events.TopicScheduleCreated, events.ScheduleCreated{Schedule: entry})
	return entry, saveErr
}

// Delete removes the entry with the given id and persists the rest.
func (s *ScheduleStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.entries, func(e model.ScheduleEntry) bool { return e.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return &model.NotFoundError{Kind: "schedule", ID: strconv.FormatInt(id, 10)}
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	saveErr := s.store.Save(ctx, model.KeySchedules, s.entries)
	s.mu.Unlock()

	s.publish(ctx, events.TopicScheduleDeleted, events.ScheduleDeleted{ScheduleID: id})
	return saveErr
}

// Render builds the presentation model for the current list.
func (s *ScheduleStore) Render() []model.ScheduleView {
	entries := s.List()
	views := make([]model.ScheduleView, len(entries))
	for i, e := range entries {
		views[i] = s.view(e)
	}
	return views
}

func (s *ScheduleStore) view(e model.ScheduleEntry) model.ScheduleView {
	title, ok := videoTitles[e.VideoRef]
	if !ok {
		title = e.VideoRef
	}
	return model.ScheduleView{
		ID:          e.ID,
		Title:       title,
		VideoRef:    e.VideoRef,
		DisplayDate: displayDate(e.Date),
		DisplayTime: displayTime(e.Time),
		Caption:     s.policy.Sanitize(e.Caption),
		Status:      string(e.Status),
		StatusLabel: e.Status.Label(),
		DeletePath:  "/v1/schedules/" + strconv.FormatInt(e.ID, 10),
	}
}

// displayDate formats YYYY-MM-DD as "May 1, 2024"; anything else is shown raw.
func displayDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

func displayTime(s string) string {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}
