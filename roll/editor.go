package roll

// Mode is the interaction state
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeDraggingNote
	ModeDraggingSeek
	ModeAddingNote
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSelecting:
		return "selecting"
	case ModeDraggingNote:
		return "dragging-note"
	case ModeDraggingSeek:
		return "dragging-seek"
	case ModeAddingNote:
		return "adding-note"
	default:
		return "unknown"
	}
}

// Interaction constants
const (
	SeekHitMargin   = 12.0 // px either side of the cursor that grab it
	DefaultVelocity = 0.8  // velocity of added notes
)

// Options are the only configuration the editor recognizes
type Options struct {
	// AddNoteDuration in seconds; 0 disables adding notes by clicking.
	AddNoteDuration float64
	// ReadOnly allows scrubbing but no note edits.
	ReadOnly bool
}

// Clamp reports that the ceiling pulled a note's start back
type Clamp struct {
	Note      int
	Requested float64
	Applied   float64
}

// Callbacks propose new state to the caller. Any of them may be nil.
type Callbacks struct {
	OnNotesChange func(Sequence)
	OnSelectNote  func(index int)
	OnSeek        func(t float64)
	OnClamp       func(Clamp)
}

// Snapshot is the caller-owned state the editor reads on each event
type Snapshot struct {
	Notes    Sequence
	Selected int
	Cursor   Cursor
}

// gesture is the one piece of state that outlives a single event
type gesture struct {
	mode   Mode
	index  int
	grabX  float64
	grabY  float64
	before Sequence
}

// Editor turns pointer events into proposed state changes
type Editor struct {
	grid    Grid
	opts    Options
	cb      Callbacks
	gesture gesture
}

// NewEditor creates an editor in the idle state
func NewEditor(g Grid, opts Options, cb Callbacks) *Editor {
	return &Editor{grid: g, opts: opts, cb: cb, gesture: gesture{index: NoSelection}}
}

func (e *Editor) Grid() Grid {
	return e.grid
}

func (e *Editor) Options() Options {
	return e.opts
}

// Mode returns the current state; only the drag states persist between events
func (e *Editor) Mode() Mode {
	return e.gesture.mode
}

// DragIndex returns the note being dragged, or NoSelection
func (e *Editor) DragIndex() int {
	return e.gesture.index
}

func (e *Editor) SetReadOnly(b bool) {
	e.opts.ReadOnly = b
}

// SetAddNoteDuration changes the add-note length; 0 turns adding off
func (e *Editor) SetAddNoteDuration(d float64) {
	e.opts.AddNoteDuration = d
}

// Active reports whether a drag is in progress. Platform adapters use it to
// keep delivering pointer events from outside the canvas until pointer-up.
func (e *Editor) Active() bool {
	return e.gesture.mode == ModeDraggingNote || e.gesture.mode == ModeDraggingSeek
}

// PointerDown resolves a press at canvas (x, y) and returns the state it
// resolved to. Selecting and adding are momentary: the editor is idle again
// when they return.
func (e *Editor) PointerDown(s Snapshot, x, y float64) Mode {
	e.gesture = gesture{index: NoSelection}

	// Transport control wins over everything under it.
	if t, ok := s.Cursor.Time(); ok && e.cb.OnSeek != nil {
		if abs(x-e.grid.TimeToX(t)) <= SeekHitMargin {
			e.gesture.mode = ModeDraggingSeek
			e.cb.OnSeek(e.seekTime(s.Notes, x))
			return ModeDraggingSeek
		}
	}

	if !e.opts.ReadOnly {
		if i := e.HitTest(s.Notes, x, y); i != NoSelection {
			r := e.grid.NoteRect(s.Notes[i])
			e.selectNote(i)
			e.gesture = gesture{
				mode:   ModeDraggingNote,
				index:  i,
				grabX:  x - r.X,
				grabY:  y - r.Y,
				before: s.Notes.Clone(),
			}
			return ModeDraggingNote
		}

		if e.opts.AddNoteDuration > 0 && e.cb.OnNotesChange != nil {
			e.addNote(s.Notes, x, y)
			return ModeAddingNote
		}
	}

	e.selectNote(NoSelection)
	return ModeSelecting
}

// PointerMove updates the active drag. Coordinates may lie outside the
// canvas; they are clamped like any other input.
func (e *Editor) PointerMove(s Snapshot, x, y float64) {
	switch e.gesture.mode {
	case ModeDraggingSeek:
		if e.cb.OnSeek != nil {
			e.cb.OnSeek(e.seekTime(s.Notes, x))
		}
	case ModeDraggingNote:
		e.dragNote(s.Notes, x, y)
	}
}

// PointerUp ends any gesture
func (e *Editor) PointerUp() {
	e.gesture = gesture{index: NoSelection}
}

// Cancel ends the gesture and, for a note drag, proposes the sequence as it
// was at pointer-down.
func (e *Editor) Cancel() {
	g := e.gesture
	e.gesture = gesture{index: NoSelection}
	if g.mode == ModeDraggingNote && g.before != nil && e.cb.OnNotesChange != nil {
		e.cb.OnNotesChange(g.before.Clone())
	}
}

// HitTest returns the topmost note containing (x, y), or NoSelection
func (e *Editor) HitTest(seq Sequence, x, y float64) int {
	for i := len(seq) - 1; i >= 0; i-- {
		if e.grid.NoteRect(seq[i]).Contains(x, y) {
			return i
		}
	}
	return NoSelection
}

func (e *Editor) seekTime(seq Sequence, x float64) float64 {
	t := e.grid.XToTime(x)
	if end := e.grid.ContentEnd(seq); t > end {
		t = end
	}
	return t
}

func (e *Editor) selectNote(i int) {
	if e.cb.OnSelectNote != nil {
		e.cb.OnSelectNote(i)
	}
}

func (e *Editor) addNote(seq Sequence, x, y float64) {
	dur := e.opts.AddNoteDuration
	if dur > e.grid.MaxSeconds {
		dur = e.grid.MaxSeconds
	}
	requested := e.grid.XToTime(x)
	start, clamped := e.grid.ClampStart(requested, dur)

	next := append(seq.Clone(), Note{
		Pitch:    e.grid.RowAt(y),
		Start:    start,
		Duration: dur,
		Velocity: DefaultVelocity,
	})
	idx := len(next) - 1

	e.cb.OnNotesChange(next)
	e.selectNote(idx)
	if clamped && e.cb.OnClamp != nil {
		e.cb.OnClamp(Clamp{Note: idx, Requested: requested, Applied: start})
	}
}

func (e *Editor) dragNote(seq Sequence, x, y float64) {
	i := e.gesture.index
	if !seq.Valid(i) {
		// the caller removed the note under us
		e.gesture = gesture{index: NoSelection}
		return
	}
	if e.cb.OnNotesChange == nil {
		return
	}

	old := seq[i]
	requested := e.grid.XToTime(x - e.gesture.grabX)
	start, clamped := e.grid.ClampStart(requested, old.Duration)
	pitch := e.grid.YToPitch(y - e.gesture.grabY)

	if start == old.Start && pitch == old.Pitch {
		return
	}

	next := seq.Clone()
	next[i].Start = start
	next[i].Pitch = pitch
	e.cb.OnNotesChange(next)

	if clamped && e.cb.OnClamp != nil {
		e.cb.OnClamp(Clamp{Note: i, Requested: requested, Applied: start})
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
