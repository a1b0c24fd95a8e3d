package state

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
	"github.com/alfredjeanlab/reelcast/internal/store/memory"
)

// capturePublisher records every published topic.
type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (c *capturePublisher) Publish(_ context.Context, topic string, event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func (c *capturePublisher) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.topics...)
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestStudio(t *testing.T, backend store.Backend, gen ScriptGenerator) (*Studio, *capturePublisher) {
	t.Helper()
	if backend == nil {
		backend = memory.New(0)
	}
	pub := &capturePublisher{}
	s := New(store.NewAdapter(backend, nil), Options{
		Publisher: pub,
		Generator: gen,
		Now:       func() time.Time { return fixedNow },
	})
	s.Load(context.Background())
	return s, pub
}

// reload builds a fresh studio over the same backend, as a restart would.
func reload(t *testing.T, backend store.Backend) *Studio {
	t.Helper()
	s := New(store.NewAdapter(backend, nil), Options{})
	s.Load(context.Background())
	return s
}

func TestScenario_ConfigThenScheduleLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	s, pub := newTestStudio(t, backend, nil)

	cfg := model.AppConfig{GeminiFlowID: "f1", APIKey: "k1", ExternalToken: ""}
	saved, err := s.Config.Submit(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
	assert.Equal(t, cfg, s.Config.Load(ctx))

	entry, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: "video1", Date: "2024-05-01", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleStatusScheduled, entry.Status)
	assert.Len(t, s.Schedules.List(), 1)

	require.NoError(t, s.Schedules.Delete(ctx, entry.ID))
	assert.Empty(t, s.Schedules.List())

	assert.Equal(t, []string{
		events.TopicConfigSaved,
		events.TopicScheduleCreated,
		events.TopicScheduleDeleted,
	}, pub.Topics())
}

func TestConfig_DefaultsWhenNothingStored(t *testing.T) {
	s, _ := newTestStudio(t, nil, nil)
	assert.Equal(t, model.AppConfig{}, s.Config.Current())
}

func TestConfig_SubmitMissingFieldLeavesStoredConfig(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	s, pub := newTestStudio(t, backend, nil)

	good := model.AppConfig{GeminiFlowID: "f1", APIKey: "k1"}
	_, err := s.Config.Submit(ctx, good)
	require.NoError(t, err)

	for _, draft := range []model.AppConfig{
		{GeminiFlowID: "", APIKey: "k2"},
		{GeminiFlowID: "f2", APIKey: ""},
		{},
	} {
		_, err := s.Config.Submit(ctx, draft)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrMissingRequiredField)
		var ve *model.ValidationError
		assert.ErrorAs(t, err, &ve)

		assert.Equal(t, good, s.Config.Current())
		assert.Equal(t, good, reload(t, backend).Config.Current())
	}
	assert.Len(t, pub.Topics(), 1, "rejected submits must not publish")
}

func TestConfig_WhitespaceValuesRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	s, _ := newTestStudio(t, backend, nil)

	draft := model.AppConfig{GeminiFlowID: " f1", APIKey: " "}
	saved, err := s.Config.Submit(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, draft, saved)
	assert.Equal(t, draft, reload(t, backend).Config.Current())
}

func TestConfig_EventPayloadIsMasked(t *testing.T) {
	s, pub := newTestStudio(t, nil, nil)
	_, err := s.Config.Submit(context.Background(), model.AppConfig{GeminiFlowID: "f1", APIKey: "super-secret-key", ExternalToken: "tok-abcdef"})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	ev, ok := pub.events[0].(events.ConfigSaved)
	require.True(t, ok)
	assert.Equal(t, "****-key", ev.Config.APIKey)
	assert.Equal(t, "****cdef", ev.Config.ExternalToken)
}

func TestSchedules_OrderAndUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStudio(t, nil, nil)

	refs := []string{"video1", "video2", "video1", "video2", "video1"}
	for _, ref := range refs {
		_, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: ref, Date: "2024-05-01", Time: "10:00"})
		require.NoError(t, err)
	}

	list := s.Schedules.List()
	require.Len(t, list, len(refs))
	seen := map[int64]bool{}
	for i, e := range list {
		assert.Equal(t, refs[i], e.VideoRef)
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
		if i > 0 {
			assert.Greater(t, e.ID, list[i-1].ID)
		}
	}
}

func TestSchedules_CreateValidation(t *testing.T) {
	ctx := context.Background()
	s, pub := newTestStudio(t, nil, nil)

	for _, draft := range []model.ScheduleDraft{
		{Date: "2024-05-01", Time: "10:00"},
		{VideoRef: "video1", Time: "10:00"},
		{VideoRef: "video1", Date: "2024-05-01"},
	} {
		_, err := s.Schedules.Create(ctx, draft)
		assert.ErrorIs(t, err, model.ErrMissingRequiredField)
	}
	assert.Empty(t, s.Schedules.List())
	assert.Empty(t, pub.Topics())
}

func TestSchedules_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStudio(t, nil, nil)
	_, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: "video1", Date: "2024-05-01", Time: "10:00"})
	require.NoError(t, err)
	before := s.Schedules.List()

	err = s.Schedules.Delete(ctx, 12345)
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "schedule", nf.Kind)
	assert.Equal(t, before, s.Schedules.List())
}

func TestSchedules_DeletePersistsRemainder(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	s, _ := newTestStudio(t, backend, nil)

	var ids []int64
	for _, ref := range []string{"a", "b", "c"} {
		e, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: ref, Date: "2024-05-01", Time: "10:00", Caption: "cap " + ref})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	require.NoError(t, s.Schedules.Delete(ctx, ids[1]))

	want := s.Schedules.List()
	require.Len(t, want, 2)
	assert.Equal(t, "a", want[0].VideoRef)
	assert.Equal(t, "c", want[1].VideoRef)
	assert.Equal(t, want, reload(t, backend).Schedules.List())
}

func TestSchedules_IDsFollowLoadedIDs(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	far := fixedNow.Add(24 * time.Hour).UnixMilli()
	require.NoError(t, store.NewAdapter(backend, nil).Save(ctx, model.KeySchedules, []model.ScheduleEntry{
		{ID: far, VideoRef: "video1", Date: "2024-05-02", Time: "08:00", Status: model.ScheduleStatusPending},
	}))

	s, _ := newTestStudio(t, backend, nil)
	e, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: "video2", Date: "2024-05-03", Time: "09:00"})
	require.NoError(t, err)
	assert.Greater(t, e.ID, far)
}

func TestSchedules_MalformedStoredListIsIgnored(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	require.NoError(t, backend.Put(ctx, model.KeySchedules, []byte(`{not json`)))

	s, _ := newTestStudio(t, backend, nil)
	assert.Empty(t, s.Schedules.List())
}

func TestSchedules_Render(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	require.NoError(t, store.NewAdapter(backend, nil).Save(ctx, model.KeySchedules, []model.ScheduleEntry{
		{ID: 1, VideoRef: "video1", Date: "2024-05-01", Time: "10:00", Caption: `hello <script>alert(1)</script>`, Status: model.ScheduleStatusPending},
		{ID: 2, VideoRef: "video2", Date: "2024-12-25", Time: "08:05", Status: model.ScheduleStatusScheduled},
		{ID: 3, VideoRef: "custom", Date: "soon", Time: "later", Status: model.ScheduleStatusPosted},
		{ID: 4, VideoRef: "video1", Date: "2024-05-01", Time: "10:00", Status: "archived"},
	}))
	s, _ := newTestStudio(t, backend, nil)

	views := s.Schedules.Render()
	require.Len(t, views, 4)

	assert.Equal(t, "Product review video #1", views[0].Title)
	assert.Equal(t, "May 1, 2024", views[0].DisplayDate)
	assert.Equal(t, "10:00", views[0].DisplayTime)
	assert.Equal(t, "awaiting action", views[0].StatusLabel)
	assert.NotContains(t, views[0].Caption, "<script>")
	assert.Equal(t, "/v1/schedules/1", views[0].DeletePath)

	assert.Equal(t, "Product review video #2", views[1].Title)
	assert.Equal(t, "December 25, 2024", views[1].DisplayDate)
	assert.Equal(t, "scheduled", views[1].StatusLabel)
	assert.Empty(t, views[1].Caption)

	assert.Equal(t, "custom", views[2].Title)
	assert.Equal(t, "soon", views[2].DisplayDate)
	assert.Equal(t, "later", views[2].DisplayTime)
	assert.Equal(t, "posted", views[2].StatusLabel)

	assert.Equal(t, "archived", views[3].StatusLabel)
}

func TestSchedules_Filter(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStudio(t, nil, nil)
	for _, d := range []string{"2024-04-30", "2024-05-01", "2024-05-02"} {
		_, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: "video1", Date: d, Time: "10:00"})
		require.NoError(t, err)
	}

	got, err := s.Schedules.Filter(`date >= "2024-05-01"`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-01", got[0].Date)

	_, err = s.Schedules.Filter(`date >=`)
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPersistenceFailureKeepsInMemoryChange(t *testing.T) {
	ctx := context.Background()
	s, pub := newTestStudio(t, memory.New(16), nil)

	cfg := model.AppConfig{GeminiFlowID: "flow-id-long-enough", APIKey: "key"}
	saved, err := s.Config.Submit(ctx, cfg)
	var se *model.StoreError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, store.ErrQuotaExceeded)
	assert.Equal(t, model.KeyAppConfig, se.Key)
	assert.Equal(t, cfg, saved)
	assert.Equal(t, cfg, s.Config.Current())

	entry, err := s.Schedules.Create(ctx, model.ScheduleDraft{VideoRef: "video1", Date: "2024-05-01", Time: "10:00", Caption: "a long caption"})
	require.ErrorAs(t, err, &se)
	assert.NotZero(t, entry.ID)
	assert.Len(t, s.Schedules.List(), 1)

	assert.Contains(t, pub.Topics(), events.TopicScheduleCreated)
}

func TestDashboard_DefaultsToSplitMode(t *testing.T) {
	s, _ := newTestStudio(t, nil, nil)
	assert.True(t, s.Dashboard.IsSplitMode())
}

func TestDashboard_StoredValues(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		stored string
		want   bool
	}{
		{`{"isSplitMode":false}`, false},
		{`{"isSplitMode":true}`, true},
		{`{}`, true},
		{`garbage`, true},
	} {
		backend := memory.New(0)
		require.NoError(t, backend.Put(ctx, model.KeyDashboardState, []byte(tc.stored)))
		s, _ := newTestStudio(t, backend, nil)
		assert.Equal(t, tc.want, s.Dashboard.IsSplitMode(), "stored %s", tc.stored)
	}
}

func TestDashboard_TogglePersists(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	s, pub := newTestStudio(t, backend, nil)

	on, err := s.Dashboard.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, reload(t, backend).Dashboard.IsSplitMode())

	on, err = s.Dashboard.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, reload(t, backend).Dashboard.IsSplitMode())

	assert.Equal(t, []string{events.TopicDashboardToggled, events.TopicDashboardToggled}, pub.Topics())
}

func TestDashboard_FlowURL(t *testing.T) {
	s, _ := newTestStudio(t, nil, nil)

	_, ok := s.Dashboard.FlowURL(model.AppConfig{APIKey: "k1"})
	assert.False(t, ok)

	cfg := model.AppConfig{GeminiFlowID: "f1", APIKey: "k1"}
	first, ok := s.Dashboard.FlowURL(cfg)
	require.True(t, ok)
	second, ok := s.Dashboard.FlowURL(cfg)
	require.True(t, ok)

	assert.True(t, strings.HasPrefix(first, DefaultFlowBaseURL+"/f1?v="), first)
	assert.Contains(t, second, "f1")
	assert.NotEqual(t, first, second)

	ext, ok := s.Dashboard.ExternalURL(cfg)
	require.True(t, ok)
	assert.Equal(t, DefaultFlowBaseURL+"/f1", ext)
}

func TestDashboard_FlowIDIsEscaped(t *testing.T) {
	s, _ := newTestStudio(t, nil, nil)
	u, ok := s.Dashboard.ExternalURL(model.AppConfig{GeminiFlowID: "a/b c"})
	require.True(t, ok)
	assert.Equal(t, DefaultFlowBaseURL+"/a%2Fb%20c", u)
}

func TestDashboard_EmbedAndResync(t *testing.T) {
	ctx := context.Background()
	s, pub := newTestStudio(t, nil, nil)
	cfg := model.AppConfig{GeminiFlowID: "f1", APIKey: "k1"}

	e, ok := s.Dashboard.Embed(cfg, false)
	require.True(t, ok)
	assert.False(t, e.Recreate)

	r, ok := s.Dashboard.ForceResync(ctx, cfg)
	require.True(t, ok)
	assert.True(t, r.Recreate)
	assert.NotEqual(t, e.URL, r.URL)
	assert.Equal(t, []string{events.TopicDashboardResynced}, pub.Topics())

	_, ok = s.Dashboard.ForceResync(ctx, model.AppConfig{})
	assert.False(t, ok)
	assert.Len(t, pub.Topics(), 1)
}

func TestInventory(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(0)
	s, _ := newTestStudio(t, backend, nil)

	_, err := s.Products.Add(ctx, model.ProductDraft{Price: "100"})
	assert.ErrorIs(t, err, model.ErrMissingRequiredField)

	serum, err := s.Products.Add(ctx, model.ProductDraft{Name: "Vitamin C Serum", Price: "390"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(serum.ID, "prd-"))
	assert.Equal(t, fixedNow, serum.CreatedAt)

	_, err = s.Products.Add(ctx, model.ProductDraft{Name: "Sun Cream"})
	require.NoError(t, err)

	got := s.Products.Search("SERUM")
	require.Len(t, got, 1)
	assert.Equal(t, serum.ID, got[0].ID)
	assert.Len(t, s.Products.Search(""), 2)
	assert.Empty(t, s.Products.Search("shampoo"))

	assert.Len(t, reload(t, backend).Products.List(), 2)

	require.NoError(t, s.Products.Remove(ctx, serum.ID))
	var nf *model.NotFoundError
	assert.ErrorAs(t, s.Products.Remove(ctx, serum.ID), &nf)
	assert.Len(t, reload(t, backend).Products.List(), 1)
}

// newFullAdapter returns an adapter whose every write exceeds the quota.
func newFullAdapter() *store.Adapter {
	return store.NewAdapter(memory.New(1), nil)
}
