package gbnp

import (
	"context"
	"os"
	"runtime"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/raster"
	"golang.org/x/sync/errgroup"
)

// ReadFiles reads every file concurrently and returns their contents in the
// same order as paths.
func ReadFiles(ctx context.Context, paths []string) ([][]byte, error) {
	data := make([][]byte, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			data[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// Render draws text with r and stores it as the menu entry of c. An empty
// text uses the cartridge title.
func Render(c *cartridge.Cartridge, text string, r raster.Rasterizer) error {
	if text == "" {
		text = c.Title()
	}
	m, err := r.Menu(text)
	if err != nil {
		return err
	}
	return c.SetMenu(text, m)
}

// LoadCartridges reads and validates the cartridge files in paths, rendering
// each menu entry with r. menuText optionally overrides the text for the
// cartridge at the same index. Files that fail validation are returned as
// FileErrors alongside the valid cartridges, still in order; only failing to
// read a file is fatal.
func (a *Assembler) LoadCartridges(ctx context.Context, paths, menuText []string, r raster.Rasterizer) ([]*cartridge.Cartridge, []*FileError, error) {
	data, err := ReadFiles(ctx, paths)
	if err != nil {
		return nil, nil, err
	}

	var (
		carts    []*cartridge.Cartridge
		rejected []*FileError
	)

	for i, b := range data {
		c, err := cartridge.New(b)
		if err != nil {
			a.logger.WithField("file", paths[i]).Warn(err)
			rejected = append(rejected, &FileError{Path: paths[i], Err: err})
			continue
		}

		var text string
		if i < len(menuText) {
			text = menuText[i]
		}
		if err := Render(c, text, r); err != nil {
			return nil, nil, err
		}

		a.logger.WithFields(cartridgeFields(len(carts)+1, c)).WithField("file", paths[i]).Debug("Loaded cartridge")
		carts = append(carts, c)
	}

	return carts, rejected, nil
}
