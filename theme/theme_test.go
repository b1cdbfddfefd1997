package theme_test

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/roll"
	"go-pianoroll/theme"
)

const twoColors = `GIMP Palette
Name: mono
Columns: 2
# black to white
  0   0   0	black
255 255 255	white
`

func TestParseGPL(t *testing.T) {
	p, err := theme.ParseGPL(strings.NewReader(twoColors))
	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
	assert.Equal(t, []theme.RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)

	_, err = theme.ParseGPL(strings.NewReader("GIMP Palette\nName: empty\n"))
	require.Error(t, err)
}

func TestLookupInterpolates(t *testing.T) {
	p, err := theme.ParseGPL(strings.NewReader(twoColors))
	require.NoError(t, err)

	assert.Equal(t, theme.RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, theme.RGB{255, 255, 255}, p.Lookup(2))
	assert.Equal(t, theme.RGB{127, 127, 127}, p.Lookup(0.5))
}

func TestResolve(t *testing.T) {
	p, err := theme.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, theme.DefaultPalette, p.Name)
	assert.NotEmpty(t, p.Colors)

	path := filepath.Join(t.TempDir(), "mono.gpl")
	require.NoError(t, os.WriteFile(path, []byte(twoColors), 0644))
	p, err = theme.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)

	_, err = theme.Resolve("no-such-palette")
	require.Error(t, err)
}

func TestDrawRolesAreDistinct(t *testing.T) {
	th := theme.New(theme.MustResolve(""))

	assert.NotEqual(t, th.Draw(roll.RoleNote), th.Draw(roll.RoleSelected))
	assert.NotEqual(t, th.Draw(roll.RoleNoteStroke), th.Draw(roll.RoleSelectedStroke))
	assert.NotEqual(t, th.Draw(roll.RoleBackground), th.Draw(roll.RoleCursor))
	assert.Equal(t, string(th.DrawColor(roll.RoleCursor)), th.Draw(roll.RoleCursor).Hex())
}

func TestRGBHelpers(t *testing.T) {
	c := theme.RGB{255, 0, 51}
	assert.Equal(t, "#ff0033", c.Hex())
	assert.Equal(t, color.RGBA{255, 0, 51, 255}, c.Color())
	assert.Equal(t, theme.RGB{127, 0, 25}, theme.Dim(c, 0.5))
}
