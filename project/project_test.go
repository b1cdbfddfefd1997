package project_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/project"
	"go-pianoroll/roll"
)

// clock returns successive times one minute apart
func clock(start time.Time) func() time.Time {
	t := start.Add(-time.Minute)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newStore(t *testing.T) *project.Store {
	s := project.NewStore(t.TempDir())
	s.Now = clock(time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local))
	return s
}

var notes = roll.Sequence{
	{Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.8},
	{Pitch: 64, Start: 0.5, Duration: 0.5, Velocity: 0.6},
}

func TestSaveAndLoadLatest(t *testing.T) {
	s := newStore(t)

	first, info, err := s.Save("demo", "", "song.mid", notes)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, "2024-01-15_14-30-00.json", info.Filename)

	edited := notes.Remove(0)
	second, info, err := s.Save("demo", "take two", "song.mid", edited)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-31-00_take-two.json", info.Filename)
	assert.Equal(t, "take-two", info.Name)
	assert.NotEqual(t, first.ID, second.ID)

	doc, err := s.Load("demo", "")
	require.NoError(t, err)
	assert.Equal(t, second.ID, doc.ID)
	assert.Equal(t, edited, doc.Notes)
	assert.Equal(t, "song.mid", doc.Source)

	doc, err = s.Load("demo", "2024-01-15_14-30-00.json")
	require.NoError(t, err)
	assert.Equal(t, notes, doc.Notes)
}

func TestSaveDoesNotAliasNotes(t *testing.T) {
	s := newStore(t)
	seq := notes.Clone()
	doc, _, err := s.Save("demo", "", "", seq)
	require.NoError(t, err)

	seq[0].Pitch = 1
	assert.Equal(t, 60, doc.Notes[0].Pitch)
}

func TestSavesWithinOneSecondDoNotCollide(t *testing.T) {
	s := project.NewStore(t.TempDir())
	fixed := time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local)
	s.Now = func() time.Time { return fixed }

	_, a, err := s.Save("demo", "", "", notes)
	require.NoError(t, err)
	_, b, err := s.Save("demo", "", "", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Filename, b.Filename)

	saves, err := s.ListSaves("demo")
	require.NoError(t, err)
	assert.Len(t, saves, 2)
}

func TestListSavesNewestFirst(t *testing.T) {
	s := newStore(t)
	for i := 0; i < 3; i++ {
		_, _, err := s.Save("demo", "", "", notes)
		require.NoError(t, err)
	}
	// noise the listing must skip
	dir := s.Dir("demo")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{}"), 0644))

	saves, err := s.ListSaves("demo")
	require.NoError(t, err)
	require.Len(t, saves, 3)
	assert.True(t, saves[0].Timestamp.After(saves[1].Timestamp))
	assert.True(t, saves[1].Timestamp.After(saves[2].Timestamp))
}

func TestEmptyProjects(t *testing.T) {
	s := newStore(t)

	projects, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, projects)

	saves, err := s.ListSaves("nothing")
	require.NoError(t, err)
	assert.Empty(t, saves)

	_, err = s.Load("nothing", "")
	require.Error(t, err)
}

func TestEmptySequenceRoundTrips(t *testing.T) {
	s := newStore(t)
	_, _, err := s.Save("", "", "", nil)
	require.NoError(t, err)

	projects, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"untitled"}, projects)

	doc, err := s.Load("untitled", "")
	require.NoError(t, err)
	assert.NotNil(t, doc.Notes)
	assert.Empty(t, doc.Notes)
}

func TestRenameAndDelete(t *testing.T) {
	s := newStore(t)
	_, info, err := s.Save("demo", "draft", "", notes)
	require.NoError(t, err)

	renamed, err := s.RenameSave("demo", info.Filename, "final mix")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-30-00_final-mix.json", renamed)

	_, err = s.RenameSave("demo", "junk.json", "x")
	require.Error(t, err)

	require.NoError(t, s.DeleteSave("demo", renamed))
	saves, err := s.ListSaves("demo")
	require.NoError(t, err)
	assert.Empty(t, saves)

	require.NoError(t, s.DeleteProject("demo"))
	projects, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}
