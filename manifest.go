package gbnp

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest describes a multicart build.
type Manifest struct {
	Output     string          `toml:"output,omitempty"`
	Firmware   string          `toml:"firmware,omitempty"`
	Ticker     string          `toml:"ticker,omitempty"`
	Font       string          `toml:"font,omitempty"`
	DisableCGB bool            `toml:"disable_cgb"`
	ForceDMG   bool            `toml:"force_dmg"`
	Cartridges []ManifestEntry `toml:"cartridge"`
}

// ManifestEntry is a single cartridge in a Manifest. An empty MenuText uses
// the cartridge title.
type ManifestEntry struct {
	Path     string `toml:"path"`
	MenuText string `toml:"menu_text,omitempty"`
}

// Paths returns the cartridge paths in slot order.
func (m *Manifest) Paths() []string {
	paths := make([]string, len(m.Cartridges))
	for i, c := range m.Cartridges {
		paths[i] = c.Path
	}
	return paths
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// LoadManifest reads the TOML manifest in file. Relative paths are resolved
// against the directory holding file.
func LoadManifest(file string) (*Manifest, error) {
	m := new(Manifest)
	md, err := toml.DecodeFile(file, m)
	if err != nil {
		return nil, err
	}

	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("gbnp: %s: unknown key %q", file, keys[0].String())
	}

	dir := filepath.Dir(file)
	m.Output = resolve(dir, m.Output)
	m.Firmware = resolve(dir, m.Firmware)
	for i := range m.Cartridges {
		if m.Cartridges[i].Path == "" {
			return nil, errors.New("gbnp: cartridge without a path")
		}
		m.Cartridges[i].Path = resolve(dir, m.Cartridges[i].Path)
	}

	return m, nil
}

// WriteManifest encodes m as TOML.
func WriteManifest(w io.Writer, m *Manifest) error {
	return toml.NewEncoder(w).Encode(m)
}
