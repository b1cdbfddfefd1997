package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Transport timing
const (
	TickInterval = 50 * time.Millisecond
	StopPadding  = 0.2 // seconds played past the last note end
)

// TickMsg advances a running transport. Gen drops ticks from an earlier run.
type TickMsg struct {
	Gen int
	At  time.Time
}

// Transport is the play/stop clock that drives the playback cursor. It only
// keeps time; nothing is sounded.
type Transport struct {
	playing bool
	gen     int
	from    float64
	started time.Time
	pos     float64
	stopAt  float64
}

func (t *Transport) Playing() bool {
	return t.playing
}

// Position is the playback time in seconds
func (t *Transport) Position() float64 {
	return t.pos
}

// Play starts from the given time and runs until end+StopPadding. Starting
// at or past the end rewinds to 0.
func (t *Transport) Play(now time.Time, from, end float64) tea.Cmd {
	t.stopAt = end + StopPadding
	if from >= t.stopAt || from < 0 {
		from = 0
	}
	t.playing = true
	t.gen++
	t.from, t.pos, t.started = from, from, now
	return t.tick()
}

// Seek moves a running transport without stopping it
func (t *Transport) Seek(now time.Time, pos float64) {
	if !t.playing {
		return
	}
	t.from, t.pos, t.started = pos, pos, now
}

// Stop halts the clock and invalidates pending ticks
func (t *Transport) Stop() {
	t.playing = false
	t.gen++
}

// Update handles a tick. It returns the next tick, or nil once stopped, and
// whether the tick belonged to this run.
func (t *Transport) Update(msg TickMsg) (tea.Cmd, bool) {
	if !t.playing || msg.Gen != t.gen {
		return nil, false
	}
	t.pos = t.from + msg.At.Sub(t.started).Seconds()
	if t.pos >= t.stopAt {
		t.pos = t.stopAt
		t.Stop()
		return nil, true
	}
	return t.tick(), true
}

func (t *Transport) tick() tea.Cmd {
	gen := t.gen
	return tea.Tick(TickInterval, func(at time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: at}
	})
}
