package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/config"
	"go-pianoroll/debug"
	"go-pianoroll/midifile"
	"go-pianoroll/project"
	"go-pianoroll/raster"
	"go-pianoroll/roll"
	"go-pianoroll/theme"
	"go-pianoroll/widgets"
)

// Screen layout, in terminal cells
const (
	gutterWidth = 4 // pitch labels
	headerLines = 2 // title, ruler
	footerLines = 2 // status, key bar
)

// tickLogInterval logs one transport tick in 20, once a second
const tickLogInterval = 20

// Add-note duration bounds for the [ and ] keys
const (
	minAddDuration = 1.0 / 16
	maxAddDuration = 4.0
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusDone
	statusError
)

// Options are the collaborators of the TUI; only Config and Theme are required
type Options struct {
	Config  *config.Config
	Theme   *theme.Theme
	Store   *project.Store  // nil disables save/load
	Painter *raster.Painter // nil disables png snapshots
	Source  string          // MIDI file the notes came from
	Project string
	Keys    *KeyMap
	Now     func() time.Time
}

type Model struct {
	opts   Options
	keys   KeyMap
	theme  *theme.Theme
	grid   roll.Grid
	editor *roll.Editor
	scroll *roll.Autoscroller
	paint  *painter

	// caller-owned editor state
	notes    roll.Sequence
	selected int
	seek     float64
	hasSeek  bool

	transport Transport
	readOnly  bool    // user setting; playback adds its own lock
	addDur    float64 // remembered while click-to-add is off

	width, height int
	view          view
	sized         bool

	status   string
	level    statusLevel
	dirty    bool
	help     bool
	browser  *browser // save browser, nil while editing
	quitting bool
}

// NewModel builds the editor screen around notes
func NewModel(notes roll.Sequence, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Project == "" {
		opts.Project = opts.Config.UI.LastProject
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	m := &Model{
		opts:     opts,
		keys:     keys,
		theme:    opts.Theme,
		grid:     roll.DefaultGrid(),
		paint:    newPainter(opts.Theme),
		notes:    notes.Clone(),
		selected: roll.NoSelection,
		readOnly: opts.Config.Editor.ReadOnly,
		addDur:   opts.Config.Editor.AddNoteDuration,
	}
	if m.addDur <= 0 {
		m.addDur = 0.25
	}
	m.scroll = roll.NewAutoscroller(m.grid)
	m.editor = roll.NewEditor(m.grid, roll.Options{
		AddNoteDuration: opts.Config.Editor.AddNoteDuration,
		ReadOnly:        m.readOnly,
	}, roll.Callbacks{
		OnNotesChange: m.onNotesChange,
		OnSelectNote:  m.onSelectNote,
		OnSeek:        m.onSeek,
		OnClamp:       m.onClamp,
	})
	m.status = fmt.Sprintf("%d notes", len(m.notes))
	return m
}

// Accessors for the caller-owned state

func (m *Model) Notes() roll.Sequence {
	return m.notes
}

func (m *Model) Selected() int {
	return m.selected
}

func (m *Model) Cursor() roll.Cursor {
	return roll.Cursor{
		Playback:    m.transport.Position(),
		HasPlayback: m.transport.Playing(),
		Seek:        m.seek,
		HasSeek:     m.hasSeek,
	}
}

func (m *Model) Playing() bool {
	return m.transport.Playing()
}

func (m *Model) Status() string {
	return m.status
}

func (m *Model) Dirty() bool {
	return m.dirty
}

// Project is the project saves go into
func (m *Model) Project() string {
	return m.opts.Project
}

// Viewport returns the visible window onto the canvas, in pixels
func (m *Model) Viewport() roll.Viewport {
	return m.view.viewport()
}

func (m *Model) snapshot() roll.Snapshot {
	return roll.Snapshot{Notes: m.notes, Selected: m.selected, Cursor: m.Cursor()}
}

// Editor callbacks. The model accepts every proposal.

func (m *Model) onNotesChange(seq roll.Sequence) {
	m.notes = seq
	m.dirty = true
}

func (m *Model) onSelectNote(i int) {
	m.selected = i
	if m.notes.Valid(i) {
		n := m.notes[i]
		debug.Log("editor", "select %d %s @%.3fs", i, roll.NoteName(n.Pitch), n.Start)
	}
}

func (m *Model) onSeek(t float64) {
	m.seek, m.hasSeek = t, true
	m.transport.Seek(m.opts.Now(), t)
}

func (m *Model) onClamp(c roll.Clamp) {
	m.status = fmt.Sprintf("note %d held at %.2fs to end by %.0fs", c.Note, c.Applied, m.grid.MaxSeconds)
	debug.Log("editor", "clamp note %d: %.3fs -> %.3fs", c.Note, c.Requested, c.Applied)
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		m.level = statusInfo
		if m.browser != nil {
			m.handleBrowseKey(msg)
		} else {
			cmd = m.handleKey(msg)
		}

	case tea.MouseMsg:
		if m.browser == nil {
			m.handleMouse(msg)
		}

	case TickMsg:
		next, ours := m.transport.Update(msg)
		if ours {
			debug.LogEvery(tickLogInterval, "transport", "tick at %.2fs", m.transport.Position())
		}
		if ours && !m.transport.Playing() {
			m.status = "stopped at end"
			debug.Log("transport", "auto-stop at %.2fs", m.transport.Position())
		}
		cmd = next
	}

	m.editor.SetReadOnly(m.readOnly || m.transport.Playing())
	m.follow()
	if m.quitting {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.view.cols = max(1, w-gutterWidth)
	m.view.rows = max(1, h-headerLines-footerLines)
	if !m.sized {
		m.sized = true
		m.centerPitch()
	}
	m.clampView()
}

// centerPitch scrolls vertically to the middle of the notes, or middle C
func (m *Model) centerPitch() {
	center := 60
	if len(m.notes) > 0 {
		lo, hi := m.notes[0].Pitch, m.notes[0].Pitch
		for _, n := range m.notes {
			lo, hi = min(lo, n.Pitch), max(hi, n.Pitch)
		}
		center = (lo + hi) / 2
	}
	m.view.rowOffset = (m.grid.MaxPitch - center) - m.view.rows/2
}

func (m *Model) clampView() {
	maxRow := max(0, m.grid.Rows()-m.view.rows)
	m.view.rowOffset = max(0, min(m.view.rowOffset, maxRow))

	vp := m.view.viewport()
	maxScroll := math.Max(0, m.grid.ContentWidth(m.notes)-vp.VisibleWidth)
	m.view.scroll = math.Max(0, math.Min(m.view.scroll, maxScroll))
}

// follow keeps the cursor in view while it moves
func (m *Model) follow() {
	if !m.sized {
		return
	}
	vp, changed := m.scroll.Update(m.view.viewport(), m.Cursor(), m.grid.ContentWidth(m.notes))
	if changed {
		m.view.scroll = vp.ScrollOffset
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.transport.Stop()
		m.quitting = true

	case key.Matches(msg, m.keys.Help):
		m.help = !m.help

	case key.Matches(msg, m.keys.Play):
		return m.togglePlay()

	case key.Matches(msg, m.keys.Cancel):
		if m.editor.Active() {
			m.editor.Cancel()
			m.status = "drag cancelled"
		} else {
			m.selected = roll.NoSelection
		}

	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()

	case key.Matches(msg, m.keys.ToggleAdd):
		if m.editor.Options().AddNoteDuration > 0 {
			m.editor.SetAddNoteDuration(0)
			m.status = "click-to-add off"
		} else {
			m.editor.SetAddNoteDuration(m.addDur)
			m.status = fmt.Sprintf("click-to-add %.3gs", m.addDur)
		}

	case key.Matches(msg, m.keys.Shorter):
		m.setAddDuration(m.addDur / 2)

	case key.Matches(msg, m.keys.Longer):
		m.setAddDuration(m.addDur * 2)

	case key.Matches(msg, m.keys.ReadOnly):
		m.readOnly = !m.readOnly
		if m.readOnly {
			m.status = "read-only"
		} else {
			m.status = "editing"
		}

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Revert):
		m.loadSave(m.opts.Project, "")

	case key.Matches(msg, m.keys.Browse):
		if m.opts.Store == nil {
			m.status = "saving unavailable"
			break
		}
		m.editor.PointerUp()
		m.browser = newBrowser(m.opts.Store, m.opts.Project)

	case key.Matches(msg, m.keys.Export):
		m.export()

	case key.Matches(msg, m.keys.Snapshot):
		m.snapshotPNG()

	case key.Matches(msg, m.keys.ScrollLeft):
		m.view.scroll -= m.grid.PixelsPerSecond
		m.clampView()

	case key.Matches(msg, m.keys.ScrollRight):
		m.view.scroll += m.grid.PixelsPerSecond
		m.clampView()

	case key.Matches(msg, m.keys.PitchUp):
		m.view.rowOffset--
		m.clampView()

	case key.Matches(msg, m.keys.PitchDown):
		m.view.rowOffset++
		m.clampView()

	case key.Matches(msg, m.keys.Home):
		m.onSeek(0)
		m.view.scroll = 0
	}
	return nil
}

func (m *Model) togglePlay() tea.Cmd {
	if m.transport.Playing() {
		m.transport.Stop()
		m.status = "stopped"
		debug.Log("transport", "stop at %.2fs", m.transport.Position())
		return nil
	}
	// a drag in progress would otherwise keep editing under the read-only lock
	m.editor.PointerUp()
	from := 0.0
	if m.hasSeek {
		from = m.seek
	}
	m.status = "playing"
	debug.Log("transport", "play from %.2fs", from)
	return m.transport.Play(m.opts.Now(), from, m.notes.End())
}

func (m *Model) setAddDuration(d float64) {
	m.addDur = math.Max(minAddDuration, math.Min(d, maxAddDuration))
	if m.editor.Options().AddNoteDuration > 0 {
		m.editor.SetAddNoteDuration(m.addDur)
	}
	m.status = fmt.Sprintf("new notes %.3gs", m.addDur)
}

// deleteSelected is a structural change, so the selection is cleared
func (m *Model) deleteSelected() {
	if m.readOnly || m.transport.Playing() || !m.notes.Valid(m.selected) {
		return
	}
	debug.Log("editor", "delete note %d", m.selected)
	m.notes = m.notes.Remove(m.selected)
	m.selected = roll.NoSelection
	m.dirty = true
	m.status = fmt.Sprintf("%d notes", len(m.notes))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.view.rowOffset--
		m.clampView()
		return
	case tea.MouseButtonWheelDown:
		m.view.rowOffset++
		m.clampView()
		return
	case tea.MouseButtonWheelLeft:
		m.view.scroll -= CellWidth * 4
		m.clampView()
		return
	case tea.MouseButtonWheelRight:
		m.view.scroll += CellWidth * 4
		m.clampView()
		return
	}

	col, row := msg.X-gutterWidth, msg.Y-headerLines
	inside := col >= 0 && col < m.view.cols && row >= 0 && row < m.view.rows
	x, y := m.view.toCanvas(col, row)

	// a running gesture captures the pointer window-wide until release
	if m.editor.Active() {
		switch msg.Action {
		case tea.MouseActionMotion:
			m.editor.PointerMove(m.snapshot(), x, y)
		case tea.MouseActionRelease:
			m.editor.PointerMove(m.snapshot(), x, y)
			m.editor.PointerUp()
			debug.Log("editor", "pointer up")
		}
		return
	}

	if !inside || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	mode := m.editor.PointerDown(m.snapshot(), x, y)
	debug.Log("editor", "pointer down at %.0f,%.0f -> %s", x, y, mode)
	if mode == roll.ModeAddingNote {
		m.status = fmt.Sprintf("%d notes", len(m.notes))
	}
}

func (m *Model) exportDir() string {
	if m.opts.Config.Export.Dir != "" {
		return m.opts.Config.Export.Dir
	}
	if m.opts.Source != "" {
		return filepath.Dir(m.opts.Source)
	}
	return "."
}

func (m *Model) export() {
	path := filepath.Join(m.exportDir(), midifile.ExportName(m.opts.Source))
	if err := midifile.WriteFile(path, m.notes); err != nil {
		m.fail("export", err)
		return
	}
	m.status, m.level = "exported "+path, statusDone
	debug.Log("export", "wrote %d notes to %s", len(m.notes), path)
}

func (m *Model) snapshotPNG() {
	if m.opts.Painter == nil {
		m.status = "png snapshots unavailable"
		return
	}
	base := strings.TrimSuffix(midifile.ExportName(m.opts.Source), ".mid")
	path := filepath.Join(m.exportDir(), base+".png")
	frame := roll.Render(m.grid, m.notes, m.selected, m.Cursor())
	if err := m.opts.Painter.SavePNG(path, frame, m.view.viewport()); err != nil {
		m.fail("png", err)
		return
	}
	m.status, m.level = "saved "+path, statusDone
}

func (m *Model) save() {
	if m.opts.Store == nil {
		m.status = "saving unavailable"
		return
	}
	_, info, err := m.opts.Store.Save(m.opts.Project, "", m.opts.Source, m.notes)
	if err != nil {
		m.fail("project", err)
		return
	}
	m.dirty = false
	m.status, m.level = fmt.Sprintf("saved %s/%s", m.opts.Project, info.Filename), statusDone
	debug.Log("project", "saved %s", info.Filename)
}

// loadSave replaces the notes with a save, the latest when filename is empty
func (m *Model) loadSave(project, filename string) error {
	if m.opts.Store == nil {
		m.status = "saving unavailable"
		return nil
	}
	doc, err := m.opts.Store.Load(project, filename)
	if err != nil {
		m.fail("project", err)
		return err
	}
	m.editor.PointerUp()
	m.opts.Project = project
	m.notes = doc.Notes
	m.selected = roll.NoSelection
	m.dirty = false
	m.clampView()
	m.status = fmt.Sprintf("loaded %s save from %s", project, doc.SavedAt.Format(time.DateTime))
	debug.Log("project", "loaded %s/%s (%d notes)", project, filename, len(doc.Notes))
	return nil
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) {
	if msg.Type == tea.KeyCtrlC {
		m.transport.Stop()
		m.quitting = true
		return
	}

	act := m.browser.handleKey(msg)
	switch act.kind {
	case browseClose:
		m.browser = nil
	case browseSwitch:
		m.opts.Project = act.project
		m.status = "saving into " + act.project
	case browseLoad:
		if err := m.loadSave(act.project, act.filename); err != nil {
			m.browser.err = err
			break
		}
		m.browser = nil
	}
}

func (m *Model) fail(category string, err error) {
	m.status, m.level = "error: "+err.Error(), statusError
	debug.Error(category, err)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.sized {
		return "loading..."
	}
	if m.help {
		return m.helpView()
	}
	if m.browser != nil {
		return m.browser.View(
			lipgloss.NewStyle().Foreground(m.theme.Accent()),
			lipgloss.NewStyle().Foreground(m.theme.Warning()),
		)
	}

	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Muted())
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.DrawColor(roll.RoleLabel))
	statusStyle := lipgloss.NewStyle().Foreground(m.theme.FG())
	switch m.level {
	case statusDone:
		statusStyle = statusStyle.Foreground(m.theme.Success())
	case statusError:
		statusStyle = statusStyle.Foreground(m.theme.Warning())
	}

	frame := roll.Render(m.grid, m.notes, m.selected, m.Cursor())
	surf := rasterize(frame, m.view, m.theme.Symbols)

	var out strings.Builder
	out.WriteString(m.title())
	out.WriteString("\n")
	out.WriteString(strings.Repeat(" ", gutterWidth))
	out.WriteString(labelStyle.Render(rulerLine(surf.ruler, m.view.cols)))

	for r, cells := range surf.cells {
		out.WriteString("\n")
		out.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", gutterWidth, surf.gutter[r])))
		out.WriteString(m.paint.row(cells))
	}

	out.WriteString("\n")
	out.WriteString(statusStyle.Render(m.status))
	out.WriteString("\n")
	out.WriteString(widgets.RenderKeyBar(m.keys.Short(), dimStyle, dimStyle.Faint(true)))
	return out.String()
}

func (m *Model) title() string {
	name := "untitled"
	if m.opts.Source != "" {
		name = filepath.Base(m.opts.Source)
	}
	if m.dirty {
		name += "*"
	}

	base := lipgloss.NewStyle().Background(m.theme.BG())
	headerStyle := base.Foreground(m.theme.Accent())

	state := base.Foreground(m.theme.Muted()).Render("STOP")
	t, _ := m.Cursor().Time()
	if m.transport.Playing() {
		state = base.Foreground(m.theme.Cursor()).Bold(true).Render("PLAY")
	}

	var flags []string
	if m.readOnly || m.transport.Playing() {
		flags = append(flags, base.Foreground(m.theme.Active()).Render("RO"))
	}
	if d := m.editor.Options().AddNoteDuration; d > 0 {
		flags = append(flags, headerStyle.Render(fmt.Sprintf("+%.3gs", d)))
	}

	sel := ""
	if m.notes.Valid(m.selected) {
		n := m.notes[m.selected]
		sel = fmt.Sprintf("  sel:%s %.2fs+%.2fs", roll.NoteName(n.Pitch), n.Start, n.Duration)
	}

	return headerStyle.Render(fmt.Sprintf("go-pianoroll  %s  ", name)) + state +
		headerStyle.Render(fmt.Sprintf(" %6.2fs  notes:%d%s  ", t, len(m.notes), sel)) +
		strings.Join(flags, " ")
}

func (m *Model) helpView() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Accent())
	var out strings.Builder
	out.WriteString(headerStyle.Render("go-pianoroll keys"))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderKeyHelp(m.keys.Sections()))
	out.WriteString("\n\n")
	for _, item := range []struct {
		role       roll.Role
		name, desc string
	}{
		{roll.RoleNote, "note", "drag to move, click empty space to add"},
		{roll.RoleSelected, "selected", "x deletes"},
		{roll.RoleCursor, "cursor", "drag to seek"},
	} {
		out.WriteString(widgets.RenderLegendItem(m.theme.Draw(item.role), m.theme.Symbols.Solid, item.name, item.desc))
		out.WriteString("\n")
	}
	return out.String()
}
