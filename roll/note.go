// Package roll is the piano-roll editor core: grid geometry, render
// commands, pointer interaction and viewport autoscroll. It owns no state
// between calls beyond the active gesture; the caller holds the notes.
package roll

// NoSelection marks an empty selection
const NoSelection = -1

// Note is a single note on the roll. Times are in seconds.
type Note struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"startTime"`
	Duration float64 `json:"duration"`
	Velocity float64 `json:"velocity"`
}

// End returns the time the note stops sounding
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// Sequence is an ordered list of notes. Identity is the index; later notes
// are drawn on top.
type Sequence []Note

// Clone returns a copy that can be mutated without touching s
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// End returns the latest note end, or 0 for an empty sequence
func (s Sequence) End() float64 {
	end := 0.0
	for _, n := range s {
		if e := n.End(); e > end {
			end = e
		}
	}
	return end
}

// Valid reports whether i indexes a note in s
func (s Sequence) Valid(i int) bool {
	return i >= 0 && i < len(s)
}

// Remove returns a copy of s without the note at i. Callers clear their
// selection afterwards.
func (s Sequence) Remove(i int) Sequence {
	if !s.Valid(i) {
		return s.Clone()
	}
	out := make(Sequence, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// Cursor carries the playback time (driven externally) and the user seek
// position. Playback wins when both are present.
type Cursor struct {
	Playback    float64
	HasPlayback bool
	Seek        float64
	HasSeek     bool
}

// PlaybackAt returns a cursor with a live playback time
func PlaybackAt(t float64) Cursor {
	return Cursor{Playback: t, HasPlayback: true}
}

// SeekAt returns a cursor with only a seek position
func SeekAt(t float64) Cursor {
	return Cursor{Seek: t, HasSeek: true}
}

// Time returns the authoritative cursor time
func (c Cursor) Time() (float64, bool) {
	if c.HasPlayback {
		return c.Playback, true
	}
	if c.HasSeek {
		return c.Seek, true
	}
	return 0, false
}
