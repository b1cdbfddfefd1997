// Package project keeps timestamped JSON snapshots of an edited sequence,
// one folder per project.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-pianoroll/roll"
)

const (
	timestampLayout = "2006-01-02_15-04-05"
	ext             = ".json"
)

// Document is what a save file holds
type Document struct {
	ID      uuid.UUID     `json:"id"`
	Name    string        `json:"name,omitempty"`
	Source  string        `json:"source,omitempty"` // MIDI file the notes came from
	SavedAt time.Time     `json:"savedAt"`
	Notes   roll.Sequence `json:"notes"`
}

// SaveInfo represents a saved project file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// Store reads and writes projects under Root
type Store struct {
	Root string
	Now  func() time.Time
}

// DefaultStore returns the store at ~/.config/go-pianoroll/projects
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(home, ".config", "go-pianoroll", "projects")), nil
}

func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Dir returns the path to a specific project
func (s *Store) Dir(project string) string {
	return filepath.Join(s.Root, sanitizeFilename(project))
}

// List returns all project folder names
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func (s *Store) ListSaves(project string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.Dir(project))
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		if info, ok := parseFilename(entry.Name()); ok {
			saves = append(saves, info)
		}
	}

	sort.SliceStable(saves, func(i, j int) bool {
		if !saves[i].Timestamp.Equal(saves[j].Timestamp) {
			return saves[i].Timestamp.After(saves[j].Timestamp)
		}
		return saves[i].Filename > saves[j].Filename
	})

	return saves, nil
}

// parseFilename splits 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_name.json
func parseFilename(filename string) (SaveInfo, bool) {
	base := strings.TrimSuffix(filename, ext)
	if len(base) < len(timestampLayout) {
		return SaveInfo{}, false
	}

	ts, err := time.ParseInLocation(timestampLayout, base[:len(timestampLayout)], time.Local)
	if err != nil {
		return SaveInfo{}, false
	}

	name := ""
	if rest := base[len(timestampLayout):]; len(rest) > 1 && rest[0] == '_' {
		name = rest[1:]
	}
	return SaveInfo{Filename: filename, Name: name, Timestamp: ts}, true
}

// Save writes notes as a new timestamped snapshot and returns it. The label
// is optional. A second save within the same second gets a distinct name.
func (s *Store) Save(project, label, source string, notes roll.Sequence) (*Document, SaveInfo, error) {
	if project == "" {
		project = "untitled"
	}

	dir := s.Dir(project)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, SaveInfo{}, fmt.Errorf("creating project %s: %w", project, err)
	}

	now := s.Now()
	doc := &Document{
		ID:      uuid.New(),
		Name:    label,
		Source:  source,
		SavedAt: now,
		Notes:   notes.Clone(),
	}
	if doc.Notes == nil {
		doc.Notes = roll.Sequence{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, SaveInfo{}, err
	}

	filename := buildFilename(now, label)
	if _, err := os.Stat(filepath.Join(dir, filename)); err == nil {
		suffix := doc.ID.String()[:8]
		if label != "" {
			suffix = label + "-" + suffix
		}
		filename = buildFilename(now, suffix)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return nil, SaveInfo{}, fmt.Errorf("writing save: %w", err)
	}

	info, _ := parseFilename(filename)
	return doc, info, nil
}

func buildFilename(t time.Time, label string) string {
	name := t.Format(timestampLayout)
	if label = sanitizeFilename(label); label != "" {
		name += "_" + label
	}
	return name + ext
}

// Load reads a specific save, or the most recent if filename is empty
func (s *Store) Load(project, filename string) (*Document, error) {
	if filename == "" {
		saves, err := s.ListSaves(project)
		if err != nil {
			return nil, err
		}
		if len(saves) == 0 {
			return nil, fmt.Errorf("no saves found in project %s", project)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(project), filename))
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if doc.Notes == nil {
		doc.Notes = roll.Sequence{}
	}
	return &doc, nil
}

// DeleteSave deletes a specific save file
func (s *Store) DeleteSave(project, filename string) error {
	return os.Remove(filepath.Join(s.Dir(project), filename))
}

// RenameSave changes the name part of a save, keeping its timestamp
func (s *Store) RenameSave(project, oldFilename, newName string) (string, error) {
	info, ok := parseFilename(oldFilename)
	if !ok {
		return "", fmt.Errorf("invalid save filename %q", oldFilename)
	}

	newFilename := buildFilename(info.Timestamp, newName)
	dir := s.Dir(project)
	if err := os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename)); err != nil {
		return "", err
	}
	return newFilename, nil
}

// DeleteProject deletes an entire project folder
func (s *Store) DeleteProject(project string) error {
	return os.RemoveAll(s.Dir(project))
}

var unsafeChars = strings.NewReplacer(
	" ", "-", "/", "-", "\\", "-", ":", "-",
	"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
)

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	return unsafeChars.Replace(strings.TrimSpace(name))
}
