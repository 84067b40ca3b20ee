package playback

import (
	"sync"
	"time"

	"github.com/pacer-tui/pacer/internal/model"
	"github.com/pacer-tui/pacer/internal/stats"
	"github.com/pacer-tui/pacer/internal/text"
)

// Controller owns the playback cursor and reading statistics. All mutation
// happens through its methods; callers observe state via Progress events and
// Snapshot copies. In chunk mode a scheduler tick advances the cursor every
// Settings.Speed seconds; paragraph mode advances only on explicit
// navigation calls.
type Controller struct {
	mu    sync.Mutex
	sched Scheduler
	emit  func(model.Progress)
	now   func() time.Time

	settings   model.Settings
	chunks     []model.Chunk // readable chunks only
	paragraphs []model.Paragraph

	playing    bool
	cursor     int
	paragraph  int
	startedAt  time.Time
	readStats  model.ReadingStats
	cancel     CancelFunc
	generation uint64
}

// New constructs a Controller. A nil scheduler selects TimerScheduler; emit
// may be nil when no consumer wants progress events.
func New(sched Scheduler, emit func(model.Progress)) *Controller {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Controller{
		sched: sched,
		emit:  emit,
		now:   time.Now,
	}
}

// Load installs a freshly built chunk sequence and sanitized settings. Any
// running timer is cancelled first so a stale tick can never race against
// the new sequence, then cursor and statistics reset.
func (c *Controller) Load(chunks []model.Chunk, settings model.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.chunks = text.Readable(chunks)
	c.paragraphs = text.GroupParagraphs(chunks)
	c.settings = settings
	c.resetLocked()
}

// Play starts timed advancement. It is a no-op in paragraph mode, while
// already playing, or on an empty document.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings.Mode != model.ModeChunk || c.playing || len(c.chunks) == 0 {
		return
	}
	if c.startedAt.IsZero() {
		c.startedAt = c.now()
	}
	c.playing = true
	c.generation++
	gen := c.generation
	interval := time.Duration(c.settings.Speed * float64(time.Second))
	c.cancel = c.sched.Schedule(interval, func() { c.tick(gen) })
}

// Pause stops the timer and counts the pause. Only valid while playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.readStats.PauseCount++
	c.stopLocked()
}

// Reset returns to the idle state: cursors at zero, statistics cleared,
// timer cancelled.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.resetLocked()
}

// NextParagraph advances the paragraph cursor, crediting the words of the
// paragraph being left. Out-of-bounds requests are silent no-ops.
func (c *Controller) NextParagraph() {
	c.mu.Lock()
	if c.settings.Mode != model.ModeParagraph || c.paragraph >= len(c.paragraphs)-1 {
		c.mu.Unlock()
		return
	}
	c.readStats.WordsRead += c.paragraphs[c.paragraph].WordCount()
	c.paragraph++
	ev := c.paragraphProgressLocked()
	c.mu.Unlock()
	c.send(ev)
}

// PreviousParagraph steps back one paragraph and counts the backtrack.
// WordsRead is left untouched.
func (c *Controller) PreviousParagraph() {
	c.mu.Lock()
	if c.settings.Mode != model.ModeParagraph || c.paragraph <= 0 {
		c.mu.Unlock()
		return
	}
	c.paragraph--
	c.readStats.BacktrackCount++
	ev := c.paragraphProgressLocked()
	c.mu.Unlock()
	c.send(ev)
}

// Snapshot returns copies of the playback state and statistics.
func (c *Controller) Snapshot() (model.PlaybackState, model.ReadingStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := model.PlaybackState{
		Mode:      c.settings.Mode,
		Playing:   c.playing,
		Cursor:    c.cursor,
		Paragraph: c.paragraph,
		StartedAt: c.startedAt,
	}
	return state, c.readStats
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if !c.playing || gen != c.generation {
		c.mu.Unlock()
		return
	}
	next := c.cursor + 1
	if next >= len(c.chunks) {
		c.cursor = len(c.chunks) - 1
		c.stopLocked()
		ev := model.Progress{
			WordsRead: c.readStats.WordsRead,
			WPM:       c.readStats.WPM,
			Percent:   100,
			Cursor:    c.cursor,
			Done:      true,
		}
		c.mu.Unlock()
		c.send(ev)
		return
	}
	c.cursor = next
	c.readStats.WordsRead = c.wordsBeforeLocked(next)
	c.readStats.Elapsed = c.now().Sub(c.startedAt).Seconds()
	c.readStats.WPM = stats.WPM(c.readStats.WordsRead, c.readStats.Elapsed)
	ev := model.Progress{
		WordsRead: c.readStats.WordsRead,
		WPM:       c.readStats.WPM,
		Percent:   100 * float64(next) / float64(len(c.chunks)),
		Cursor:    next,
	}
	c.mu.Unlock()
	c.send(ev)
}

func (c *Controller) wordsBeforeLocked(cursor int) int {
	total := 0
	for _, chunk := range c.chunks[:cursor] {
		total += chunk.WordCount()
	}
	return total
}

func (c *Controller) paragraphProgressLocked() model.Progress {
	percent := 0.0
	if len(c.paragraphs) > 0 {
		percent = 100 * float64(c.paragraph) / float64(len(c.paragraphs))
	}
	return model.Progress{
		WordsRead: c.readStats.WordsRead,
		Percent:   percent,
		Cursor:    c.paragraph,
	}
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.playing = false
	c.generation++
}

func (c *Controller) resetLocked() {
	c.cursor = 0
	c.paragraph = 0
	c.startedAt = time.Time{}
	c.readStats = model.ReadingStats{}
}

func (c *Controller) send(ev model.Progress) {
	if c.emit != nil {
		c.emit(ev)
	}
}
