package playback

import (
	"testing"
	"time"

	"github.com/pacer-tui/pacer/internal/model"
	"github.com/pacer-tui/pacer/internal/text"
)

// manualScheduler lets tests fire ticks deterministically.
type manualScheduler struct {
	fn        func()
	interval  time.Duration
	canceled  bool
	schedules int
}

func (s *manualScheduler) Schedule(interval time.Duration, fn func()) CancelFunc {
	s.fn = fn
	s.interval = interval
	s.canceled = false
	s.schedules++
	return func() { s.canceled = true }
}

func (s *manualScheduler) fire() {
	if s.canceled || s.fn == nil {
		return
	}
	s.fn()
}

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestController(t *testing.T, raw string, settings model.Settings) (*Controller, *manualScheduler, *fakeClock, *[]model.Progress) {
	t.Helper()
	sched := &manualScheduler{}
	events := &[]model.Progress{}
	ctrl := New(sched, func(p model.Progress) { *events = append(*events, p) })
	clock := &fakeClock{at: time.Unix(1000, 0)}
	ctrl.now = clock.now
	ctrl.Load(text.NewBuilder(settings).Build(raw), settings)
	return ctrl, sched, clock, events
}

func chunkModeSettings() model.Settings {
	s := model.DefaultSettings()
	s.Speed = 1.0
	return s
}

func paragraphModeSettings() model.Settings {
	s := model.DefaultSettings()
	s.Mode = model.ModeParagraph
	return s
}

func TestPlayTicksThenPause(t *testing.T) {
	raw := "one two. three four. five six. seven eight. nine ten."
	ctrl, sched, clock, events := newTestController(t, raw, chunkModeSettings())

	ctrl.Play()
	if sched.fn == nil {
		t.Fatalf("expected a scheduled timer after Play")
	}
	if sched.interval != time.Second {
		t.Fatalf("timer interval = %v, want 1s", sched.interval)
	}
	for i := 0; i < 3; i++ {
		clock.advance(time.Second)
		sched.fire()
	}
	ctrl.Pause()

	state, rs := ctrl.Snapshot()
	if state.Playing {
		t.Fatalf("expected paused state")
	}
	if state.Cursor != 3 {
		t.Fatalf("cursor = %d, want 3", state.Cursor)
	}
	if rs.PauseCount != 1 {
		t.Fatalf("pause count = %d, want 1", rs.PauseCount)
	}
	if rs.WordsRead != 6 {
		t.Fatalf("words read = %d, want 6", rs.WordsRead)
	}
	if rs.WPM != 120 {
		t.Fatalf("wpm = %d, want 120", rs.WPM)
	}
	if !sched.canceled {
		t.Fatalf("pause must cancel the timer")
	}
	if len(*events) != 3 {
		t.Fatalf("expected 3 progress events, got %d", len(*events))
	}
	last := (*events)[2]
	if last.Percent != 60 {
		t.Fatalf("progress percent = %v, want 60", last.Percent)
	}
}

func TestTickPastEndStops(t *testing.T) {
	ctrl, sched, clock, events := newTestController(t, "one two. three four.", chunkModeSettings())

	ctrl.Play()
	clock.advance(time.Second)
	sched.fire()
	clock.advance(time.Second)
	sched.fire()

	state, _ := ctrl.Snapshot()
	if state.Playing {
		t.Fatalf("expected playback stopped at end of document")
	}
	if state.Cursor != 1 {
		t.Fatalf("cursor = %d, want clamp to last chunk 1", state.Cursor)
	}
	if !sched.canceled {
		t.Fatalf("end of document must cancel the timer")
	}
	last := (*events)[len(*events)-1]
	if !last.Done || last.Percent != 100 {
		t.Fatalf("expected terminal Done event at 100%%, got %+v", last)
	}

	// A stale timer callback after stop must not move the cursor.
	sched.canceled = false
	sched.fire()
	state, _ = ctrl.Snapshot()
	if state.Cursor != 1 || state.Playing {
		t.Fatalf("stale tick mutated state: %+v", state)
	}
}

func TestPauseWhileIdleIsNoop(t *testing.T) {
	ctrl, _, _, _ := newTestController(t, "one two.", chunkModeSettings())
	ctrl.Pause()
	_, rs := ctrl.Snapshot()
	if rs.PauseCount != 0 {
		t.Fatalf("pause while idle must not count, got %d", rs.PauseCount)
	}
}

func TestPlayIsNoopInParagraphMode(t *testing.T) {
	ctrl, sched, _, _ := newTestController(t, "one two.", paragraphModeSettings())
	ctrl.Play()
	state, _ := ctrl.Snapshot()
	if state.Playing || sched.fn != nil {
		t.Fatalf("Play must be a no-op in paragraph mode")
	}
}

func TestPlayIsNoopOnEmptyDocument(t *testing.T) {
	ctrl, sched, _, _ := newTestController(t, "", chunkModeSettings())
	ctrl.Play()
	state, _ := ctrl.Snapshot()
	if state.Playing || sched.fn != nil {
		t.Fatalf("Play must be a no-op without chunks")
	}
}

func TestParagraphNavigationBounds(t *testing.T) {
	raw := "one two three.\n\nfour five.\n\nsix.\n\nseven eight nine ten."
	ctrl, _, _, events := newTestController(t, raw, paragraphModeSettings())

	for i := 0; i < 5; i++ {
		ctrl.NextParagraph()
	}
	state, rs := ctrl.Snapshot()
	if state.Paragraph != 3 {
		t.Fatalf("paragraph cursor = %d, want 3", state.Paragraph)
	}
	if rs.WordsRead != 6 {
		t.Fatalf("words read = %d, want 6 (paragraphs 0-2)", rs.WordsRead)
	}
	if len(*events) != 3 {
		t.Fatalf("expected 3 accepted navigation events, got %d", len(*events))
	}
	if got := (*events)[2].Percent; got != 75 {
		t.Fatalf("progress percent = %v, want 75", got)
	}

	ctrl.PreviousParagraph()
	state, rs = ctrl.Snapshot()
	if state.Paragraph != 2 {
		t.Fatalf("paragraph cursor = %d after backtrack, want 2", state.Paragraph)
	}
	if rs.BacktrackCount != 1 {
		t.Fatalf("backtrack count = %d, want 1", rs.BacktrackCount)
	}
	if rs.WordsRead != 6 {
		t.Fatalf("backtrack must not change words read, got %d", rs.WordsRead)
	}
}

func TestPreviousParagraphAtStartIsNoop(t *testing.T) {
	ctrl, _, _, events := newTestController(t, "one.\n\ntwo.", paragraphModeSettings())
	ctrl.PreviousParagraph()
	state, rs := ctrl.Snapshot()
	if state.Paragraph != 0 || rs.BacktrackCount != 0 || len(*events) != 0 {
		t.Fatalf("retreat before first paragraph must be a silent no-op")
	}
}

func TestParagraphNavigationIsNoopInChunkMode(t *testing.T) {
	ctrl, _, _, events := newTestController(t, "one.\n\ntwo.", chunkModeSettings())
	ctrl.NextParagraph()
	ctrl.PreviousParagraph()
	state, _ := ctrl.Snapshot()
	if state.Paragraph != 0 || len(*events) != 0 {
		t.Fatalf("paragraph navigation must be a no-op in chunk mode")
	}
}

func TestResetClearsState(t *testing.T) {
	ctrl, sched, clock, _ := newTestController(t, "one two. three four.", chunkModeSettings())
	ctrl.Play()
	clock.advance(time.Second)
	sched.fire()
	ctrl.Reset()

	state, rs := ctrl.Snapshot()
	if state.Playing || state.Cursor != 0 || state.Paragraph != 0 {
		t.Fatalf("reset left cursor state: %+v", state)
	}
	if !state.StartedAt.IsZero() {
		t.Fatalf("reset must clear the start time")
	}
	if rs != (model.ReadingStats{}) {
		t.Fatalf("reset left stats: %+v", rs)
	}
	if !sched.canceled {
		t.Fatalf("reset must cancel the timer")
	}
}

func TestLoadWhilePlayingCancelsTimer(t *testing.T) {
	settings := chunkModeSettings()
	ctrl, sched, clock, _ := newTestController(t, "one two. three four.", settings)
	ctrl.Play()
	clock.advance(time.Second)
	sched.fire()
	staleFire := sched.fire

	ctrl.Load(text.NewBuilder(settings).Build("five six. seven eight."), settings)
	if !sched.canceled {
		t.Fatalf("reload while playing must cancel the old timer")
	}
	state, rs := ctrl.Snapshot()
	if state.Playing || state.Cursor != 0 || rs.WordsRead != 0 {
		t.Fatalf("reload must reset playback state, got %+v %+v", state, rs)
	}

	sched.canceled = false
	staleFire()
	state, _ = ctrl.Snapshot()
	if state.Cursor != 0 {
		t.Fatalf("stale timer advanced a freshly loaded sequence")
	}
}

func TestPlayResumesWithoutResettingStart(t *testing.T) {
	ctrl, sched, clock, _ := newTestController(t, "one. two. three. four.", chunkModeSettings())
	ctrl.Play()
	started := ctrl.startedAt
	clock.advance(time.Second)
	sched.fire()
	ctrl.Pause()
	clock.advance(5 * time.Second)
	ctrl.Play()
	if !ctrl.startedAt.Equal(started) {
		t.Fatalf("resume must keep the original start time")
	}
	if sched.schedules != 2 {
		t.Fatalf("expected a fresh timer per Play, got %d schedules", sched.schedules)
	}
}
