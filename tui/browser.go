package tui

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/debug"
	"go-pianoroll/project"
	"go-pianoroll/widgets"
)

// inputMode is what the browser's text prompt is collecting
type inputMode int

const (
	inputNone inputMode = iota
	inputNewProject
	inputRenameSave
)

// browseKind tells the model what to do after a browser key
type browseKind int

const (
	browseNone   browseKind = iota
	browseLoad              // load Project/Filename into the editor
	browseSwitch            // make Project the save target, keep the notes
	browseClose
)

type browseAction struct {
	kind     browseKind
	project  string
	filename string // empty loads the latest save
}

// browser lists projects and their saves. Projects sit in the left column,
// the saves of the highlighted project in the right.
type browser struct {
	store   *project.Store
	current string // project the editor saves into

	projects   []string
	saves      []project.SaveInfo
	projectIdx int
	saveIdx    int
	column     int // 0=projects, 1=saves

	inputMode   inputMode
	inputBuffer string

	confirmMsg    string
	confirmAction func() error

	err error
}

func newBrowser(store *project.Store, current string) *browser {
	b := &browser{store: store, current: current}
	b.refresh()
	for i, name := range b.projects {
		if name == current {
			b.projectIdx = i
			b.refresh()
			break
		}
	}
	return b
}

// refresh reloads both lists and keeps the selection in range
func (b *browser) refresh() {
	projects, err := b.store.List()
	if err != nil {
		b.err = err
		debug.Error("browser", err)
	}
	b.projects = projects
	if b.projectIdx >= len(b.projects) {
		b.projectIdx = max(0, len(b.projects)-1)
	}

	b.saves = nil
	if p, ok := b.selectedProject(); ok {
		saves, err := b.store.ListSaves(p)
		if err != nil {
			b.err = err
			debug.Error("browser", err)
		}
		b.saves = saves
	}
	if b.saveIdx >= len(b.saves) {
		b.saveIdx = max(0, len(b.saves)-1)
	}
	if len(b.projects) == 0 {
		b.column = 0
	}
}

func (b *browser) selectedProject() (string, bool) {
	if b.projectIdx < 0 || b.projectIdx >= len(b.projects) {
		return "", false
	}
	return b.projects[b.projectIdx], true
}

func (b *browser) selectedSave() (project.SaveInfo, bool) {
	if b.column != 1 || b.saveIdx < 0 || b.saveIdx >= len(b.saves) {
		return project.SaveInfo{}, false
	}
	return b.saves[b.saveIdx], true
}

// prompting is true while a text prompt or confirmation owns the keyboard
func (b *browser) prompting() bool {
	return b.inputMode != inputNone || b.confirmAction != nil
}

func (b *browser) handleKey(msg tea.KeyMsg) browseAction {
	key := msg.String()

	if b.confirmAction != nil {
		switch key {
		case "y", "Y":
			if err := b.confirmAction(); err != nil {
				b.err = err
				debug.Error("browser", err)
			}
			b.confirmAction, b.confirmMsg = nil, ""
			b.refresh()
		case "n", "N", "esc", "q":
			b.confirmAction, b.confirmMsg = nil, ""
		}
		return browseAction{}
	}

	if b.inputMode != inputNone {
		return b.handleInput(msg)
	}

	b.err = nil
	switch key {
	case "esc", "q", "b":
		return browseAction{kind: browseClose}
	case "h", "left":
		b.column = 0
	case "l", "right":
		if len(b.saves) > 0 {
			b.column = 1
		}
	case "j", "down":
		if b.column == 0 && b.projectIdx < len(b.projects)-1 {
			b.projectIdx++
			b.saveIdx = 0
			b.refresh()
		} else if b.column == 1 && b.saveIdx < len(b.saves)-1 {
			b.saveIdx++
		}
	case "k", "up":
		if b.column == 0 && b.projectIdx > 0 {
			b.projectIdx--
			b.saveIdx = 0
			b.refresh()
		} else if b.column == 1 && b.saveIdx > 0 {
			b.saveIdx--
		}
	case "enter":
		return b.loadSelected()
	case "n":
		b.inputMode, b.inputBuffer = inputNewProject, ""
	case "r":
		if save, ok := b.selectedSave(); ok {
			b.inputMode, b.inputBuffer = inputRenameSave, save.Name
		}
	case "d":
		b.deleteSelected()
	}
	return browseAction{}
}

func (b *browser) handleInput(msg tea.KeyMsg) browseAction {
	switch msg.Type {
	case tea.KeyEnter:
		return b.commitInput()
	case tea.KeyEsc:
		b.inputMode, b.inputBuffer = inputNone, ""
	case tea.KeyBackspace:
		if r := []rune(b.inputBuffer); len(r) > 0 {
			b.inputBuffer = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		b.inputBuffer += " "
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			// path separators would escape the project folder
			if unicode.IsPrint(r) && r != '/' && r != '\\' {
				b.inputBuffer += string(r)
			}
		}
	}
	return browseAction{}
}

func (b *browser) commitInput() browseAction {
	name := strings.TrimSpace(b.inputBuffer)
	mode := b.inputMode
	b.inputMode, b.inputBuffer = inputNone, ""

	switch mode {
	case inputNewProject:
		if name == "" {
			return browseAction{}
		}
		b.current = name
		return browseAction{kind: browseSwitch, project: name}

	case inputRenameSave:
		// an empty name removes the label
		p, _ := b.selectedProject()
		save, ok := b.selectedSave()
		if !ok {
			return browseAction{}
		}
		if _, err := b.store.RenameSave(p, save.Filename, name); err != nil {
			b.err = err
			debug.Error("browser", err)
		}
		b.refresh()
	}
	return browseAction{}
}

func (b *browser) loadSelected() browseAction {
	p, ok := b.selectedProject()
	if !ok {
		return browseAction{}
	}
	filename := ""
	if save, ok := b.selectedSave(); ok {
		filename = save.Filename
	} else if len(b.saves) == 0 {
		return browseAction{}
	}
	b.current = p
	return browseAction{kind: browseLoad, project: p, filename: filename}
}

func (b *browser) deleteSelected() {
	p, ok := b.selectedProject()
	if !ok {
		return
	}
	if save, ok := b.selectedSave(); ok {
		b.confirmMsg = fmt.Sprintf("Delete save '%s'?", save.Timestamp.Format("2006-01-02 15:04:05"))
		b.confirmAction = func() error {
			return b.store.DeleteSave(p, save.Filename)
		}
		return
	}
	b.confirmMsg = fmt.Sprintf("Delete project '%s' and all saves?", p)
	b.confirmAction = func() error {
		return b.store.DeleteProject(p)
	}
}

var browserKeys = []widgets.KeySection{{Keys: []widgets.KeyBinding{
	{Key: "h / l", Desc: "switch columns"},
	{Key: "j / k", Desc: "navigate list"},
	{Key: "enter", Desc: "load selected"},
	{Key: "n", Desc: "new project"},
	{Key: "r", Desc: "rename save"},
	{Key: "d", Desc: "delete"},
	{Key: "esc", Desc: "back"},
}}}

const rule = "─────────────────────────────────────────────────\n"

func (b *browser) View(header, warn lipgloss.Style) string {
	var out strings.Builder

	current := b.current
	if current == "" {
		current = "(none)"
	}
	out.WriteString(header.Render("SAVES  Project: " + current))
	out.WriteString("\n\n")

	if b.confirmAction != nil {
		out.WriteString(rule)
		out.WriteString(fmt.Sprintf("\n%s\n\n", b.confirmMsg))
		out.WriteString("  [y] Yes    [n] No\n")
		out.WriteString("\n" + rule)
		return out.String()
	}

	if b.inputMode != inputNone {
		label := "New project name"
		if b.inputMode == inputRenameSave {
			label = "Name this save"
		}
		out.WriteString(rule)
		out.WriteString(fmt.Sprintf("\n%s: %s_\n", label, b.inputBuffer))
		out.WriteString("\n[enter] confirm  [esc] cancel\n")
		out.WriteString("\n" + rule)
		return out.String()
	}

	out.WriteString("Projects                    Saves\n")
	out.WriteString(rule)

	const maxRows = 12
	rows := max(min(maxRows, max(1, len(b.projects))), min(maxRows, max(1, len(b.saves))))
	for row := 0; row < rows; row++ {
		if row < len(b.projects) {
			name := b.projects[row]
			if len(name) > 20 {
				name = name[:17] + "..."
			}
			out.WriteString(fmt.Sprintf("%s%-20s", marker(row == b.projectIdx, b.column == 0), name))
		} else {
			out.WriteString(strings.Repeat(" ", 22))
		}
		out.WriteString("    ")

		if row < len(b.saves) {
			save := b.saves[row]
			display := save.Timestamp.Format("01-02 15:04:05")
			if save.Name != "" {
				display += " " + save.Name
			}
			if len(display) > 28 {
				display = display[:25] + "..."
			}
			out.WriteString(marker(row == b.saveIdx, b.column == 1) + display)
		}
		out.WriteString("\n")
	}

	if len(b.projects) == 0 {
		out.WriteString("  (no projects yet, ctrl+s in the editor saves one)\n")
	}
	if b.err != nil {
		out.WriteString("\n" + warn.Render("error: "+b.err.Error()) + "\n")
	}

	out.WriteString("\n")
	out.WriteString(widgets.RenderKeyHelp(browserKeys))
	return out.String()
}

// marker is "> " on the focused selection and "* " on the other column's
func marker(selected, focused bool) string {
	switch {
	case selected && focused:
		return "> "
	case selected:
		return "* "
	}
	return "  "
}
