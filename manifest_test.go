package gbnp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `output = "out/multicart.gb"
ticker = "Hello"
font = "inconsolata"
disable_cgb = true

[[cartridge]]
path = "roms/tetris.gb"

[[cartridge]]
path = "/abs/zelda.gb"
menu_text = "Link's Awakening"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadManifest(writeFile(t, dir, "build.toml", manifest))
	require.NoError(t, err)

	want := &Manifest{
		Output:     filepath.Join(dir, "out", "multicart.gb"),
		Ticker:     "Hello",
		Font:       "inconsolata",
		DisableCGB: true,
		Cartridges: []ManifestEntry{
			{Path: filepath.Join(dir, "roms", "tetris.gb")},
			{Path: "/abs/zelda.gb", MenuText: "Link's Awakening"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest differs (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{filepath.Join(dir, "roms", "tetris.gb"), "/abs/zelda.gb"}, m.Paths())
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = LoadManifest(writeFile(t, dir, "unknown.toml", "colour = true\n"))
	assert.ErrorContains(t, err, "colour")

	_, err = LoadManifest(writeFile(t, dir, "nopath.toml", "[[cartridge]]\nmenu_text = \"x\"\n"))
	assert.Error(t, err)

	_, err = LoadManifest(writeFile(t, dir, "broken.toml", "output = \n"))
	assert.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	m := &Manifest{
		Output:   "multicart.gb",
		ForceDMG: true,
		Cartridges: []ManifestEntry{
			{Path: "01-TETRIS.gb"},
			{Path: "02-ZELDA.gb", MenuText: "Zelda"},
		},
	}

	b := new(bytes.Buffer)
	require.NoError(t, WriteManifest(b, m))

	dir := t.TempDir()
	got, err := LoadManifest(writeFile(t, dir, "manifest.toml", b.String()))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "multicart.gb"), got.Output)
	assert.True(t, got.ForceDMG)
	assert.False(t, got.DisableCGB)
	assert.Equal(t, []string{filepath.Join(dir, "01-TETRIS.gb"), filepath.Join(dir, "02-ZELDA.gb")}, got.Paths())
	assert.Equal(t, "Zelda", got.Cartridges[1].MenuText)
}
