// Package midifile turns Standard MIDI Files into roll sequences and back.
// It is the note source and the export codec of the editor; the roll core
// never sees MIDI bytes.
package midifile

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-pianoroll/roll"
)

// Export settings
const (
	ExportBPM     = 120.0
	ExportPPQ     = 960
	ExportChannel = 0
)

// openNote is a note-on waiting for its note-off
type openNote struct {
	start    float64
	velocity uint8
}

type voice struct {
	track   int
	channel uint8
	key     uint8
}

// Read decodes every track of an SMF into one sequence sorted by start time.
// Velocities are scaled into (0, 1]. Notes left open at the end of the file
// are closed at the last event.
func Read(r io.Reader) (roll.Sequence, error) {
	var (
		seq  roll.Sequence
		open = map[voice][]openNote{}
		last float64
	)

	rd := smf.ReadTracksFrom(r).Do(func(ev smf.TrackEvent) {
		t := float64(ev.AbsMicroSeconds) / 1_000_000
		if t > last {
			last = t
		}

		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			v := voice{ev.TrackNo, ch, key}
			open[v] = append(open[v], openNote{start: t, velocity: vel})
		case ev.Message.GetNoteEnd(&ch, &key):
			v := voice{ev.TrackNo, ch, key}
			pending := open[v]
			if len(pending) == 0 {
				return
			}
			on := pending[0]
			open[v] = pending[1:]
			seq = appendNote(seq, key, on, t)
		}
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("reading midi: %w", err)
	}

	// close hanging notes in track, channel, key order so reads are repeatable
	hanging := make([]voice, 0, len(open))
	for v := range open {
		hanging = append(hanging, v)
	}
	sort.Slice(hanging, func(i, j int) bool {
		a, b := hanging[i], hanging[j]
		if a.track != b.track {
			return a.track < b.track
		}
		if a.channel != b.channel {
			return a.channel < b.channel
		}
		return a.key < b.key
	})
	for _, v := range hanging {
		for _, on := range open[v] {
			seq = appendNote(seq, v.key, on, last)
		}
	}

	sort.SliceStable(seq, func(i, j int) bool {
		if seq[i].Start != seq[j].Start {
			return seq[i].Start < seq[j].Start
		}
		return seq[i].Pitch < seq[j].Pitch
	})
	return seq, nil
}

func appendNote(seq roll.Sequence, key uint8, on openNote, end float64) roll.Sequence {
	if end <= on.start {
		return seq
	}
	return append(seq, roll.Note{
		Pitch:    int(key),
		Start:    on.start,
		Duration: end - on.start,
		Velocity: float64(on.velocity) / 127,
	})
}

// ReadFile opens path and decodes it with Read
func ReadFile(path string) (roll.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open midi file: %w", err)
	}
	defer f.Close()

	seq, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

type event struct {
	tick uint32
	off  bool
	key  uint8
	vel  uint8
	idx  int
}

// Build encodes seq as a single-track SMF at ExportBPM and ExportPPQ.
// An empty name leaves out the track name.
func Build(seq roll.Sequence, name string) (*smf.SMF, error) {
	ticksPerSecond := ExportBPM / 60 * ExportPPQ

	events := make([]event, 0, len(seq)*2)
	for i, n := range seq {
		on := toTicks(n.Start, ticksPerSecond)
		off := toTicks(n.End(), ticksPerSecond)
		if off <= on {
			off = on + 1
		}
		key := uint8(clampInt(n.Pitch, 0, 127))
		events = append(events,
			event{tick: on, key: key, vel: toVelocity(n.Velocity), idx: i},
			event{tick: off, off: true, key: key, idx: i},
		)
	}

	// note-offs first on a shared tick so repeated pitches retrigger
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		if a.off != b.off {
			return a.off
		}
		return a.idx < b.idx
	})

	var track smf.Track
	if name != "" {
		track.Add(0, smf.MetaTrackSequenceName(name))
	}
	track.Add(0, smf.MetaTempo(ExportBPM))

	var prev uint32
	for _, ev := range events {
		delta := ev.tick - prev
		prev = ev.tick
		if ev.off {
			track.Add(delta, midi.NoteOff(ExportChannel, ev.key))
			continue
		}
		track.Add(delta, midi.NoteOn(ExportChannel, ev.key, ev.vel))
	}
	track.Close(0)

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ExportPPQ)
	if err := sm.Add(track); err != nil {
		return nil, fmt.Errorf("adding track: %w", err)
	}
	return sm, nil
}

// Write encodes seq with Build and writes the file bytes to w
func Write(w io.Writer, seq roll.Sequence, name string) error {
	sm, err := Build(seq, name)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi: %w", err)
	}
	return nil
}

// WriteFile writes seq to path, naming the track after the file
func WriteFile(path string, seq roll.Sequence) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sm, err := Build(seq, name)
	if err != nil {
		return err
	}
	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ExportName returns the download name for an edited file: song.mid
// becomes song_edited.mid. An empty source gives untitled_edited.mid.
func ExportName(src string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "untitled"
	}
	return base + "_edited.mid"
}

func toTicks(sec, ticksPerSecond float64) uint32 {
	if sec <= 0 {
		return 0
	}
	return uint32(math.Round(sec * ticksPerSecond))
}

func toVelocity(v float64) uint8 {
	return uint8(clampInt(int(math.Round(v*127)), 1, 127))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
