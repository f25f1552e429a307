package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/gbnp"
	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/layout"
	"github.com/bodgit/gbnp/raster"
	"github.com/bodgit/gbnp/tile"
	"github.com/urfave/cli/v2"
	"gopkg.in/Sirupsen/logrus.v0"
)

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Level = logrus.WarnLevel
	if c.Bool("verbose") {
		logger.Level = logrus.DebugLevel
	}
	return logger
}

func openDB(c *cli.Context) (*gbnp.FirmwareDB, error) {
	return gbnp.NewFirmwareDB(c.String("db"))
}

func mapFilename(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".map"
}

// Keep extracted filenames portable
func sanitize(title string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, title)
	if s == "" {
		s = "UNTITLED"
	}
	return s
}

func manifestFromFlags(c *cli.Context) (*gbnp.Manifest, error) {
	m := new(gbnp.Manifest)
	if file := c.String("manifest"); file != "" {
		var err error
		if m, err = gbnp.LoadManifest(file); err != nil {
			return nil, err
		}
	}

	for _, path := range c.Args().Slice() {
		m.Cartridges = append(m.Cartridges, gbnp.ManifestEntry{Path: path})
	}

	if c.IsSet("output") || m.Output == "" {
		m.Output = c.String("output")
	}
	if c.IsSet("firmware") {
		m.Firmware = c.String("firmware")
	}
	if c.IsSet("ticker") {
		m.Ticker = c.String("ticker")
	}
	if c.IsSet("font") {
		m.Font = c.String("font")
	}
	m.DisableCGB = m.DisableCGB || c.Bool("disable-cgb")
	m.ForceDMG = m.ForceDMG || c.Bool("force-dmg")

	return m, nil
}

func loadFirmware(c *cli.Context, file string) (*gbnp.Firmware, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return gbnp.NewFirmware(b)
	}

	db, err := openDB(c)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Current()
}

var buildCommand = &cli.Command{
	Name:      "build",
	Usage:     "Assemble a multicart image and map file",
	ArgsUsage: "[ROM...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "manifest",
			Aliases: []string{"m"},
			Usage:   "TOML build manifest",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "multicart.gb",
			Usage:   "image file to write, the map file is written alongside",
		},
		&cli.StringFlag{
			Name:  "firmware",
			Usage: "menu firmware file, instead of the stored one",
		},
		&cli.StringFlag{
			Name:  "ticker",
			Usage: "ticker text",
		},
		&cli.StringFlag{
			Name:  "font",
			Value: raster.DefaultFont,
			Usage: "font for menu and ticker text (" + strings.Join(raster.Fonts(), ", ") + ")",
		},
		&cli.BoolFlag{
			Name:  "disable-cgb",
			Usage: "disable colour mode in the menu",
		},
		&cli.BoolFlag{
			Name:  "force-dmg",
			Usage: "force the menu to boot in monochrome mode",
		},
	},
	Action: func(c *cli.Context) error {
		logger := newLogger(c)

		m, err := manifestFromFlags(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if len(m.Cartridges) == 0 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		firmware, err := loadFirmware(c, m.Firmware)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		r, err := raster.Lookup(m.Font)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		a := gbnp.New(firmware, logger)

		menuText := make([]string, len(m.Cartridges))
		for i, e := range m.Cartridges {
			menuText[i] = e.MenuText
		}

		carts, rejected, err := a.LoadCartridges(c.Context, m.Paths(), menuText, r)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if len(rejected) > 0 {
			logger.Warnf("Skipping %d invalid cartridge(s)", len(rejected))
		}

		set := &gbnp.Set{
			DisableCGB: m.DisableCGB,
			ForceDMG:   m.ForceDMG,
		}
		set.Add(carts...)

		if m.Ticker != "" {
			if set.Ticker, err = r.Ticker(m.Ticker); err != nil {
				return cli.NewExitError(err, 1)
			}
		}

		out, err := a.Assemble(set)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		if err := os.WriteFile(m.Output, out.Image, 0644); err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := os.WriteFile(mapFilename(m.Output), out.Map, 0644); err != nil {
			return cli.NewExitError(err, 1)
		}

		fmt.Printf("%d cartridge(s), %d KB ROM of %d KB, %d KB RAM\n", set.Len(), set.ROMUsedKB(), layout.CapacityKB, set.RAMUsedKB())

		return nil
	},
}

var extractCommand = &cli.Command{
	Name:      "extract",
	Usage:     "Recover the cartridges from a multicart image",
	ArgsUsage: "IMAGE",
	Description: "Writes each cartridge as NN-TITLE.gb alongside a manifest.toml that\n" +
		"rebuilds the set. Custom menu text is not stored in the image, so the\n" +
		"manifest carries the titles and a rebuild renders those.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Value:   ".",
			Usage:   "directory to write cartridges and manifest to",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		logger := newLogger(c)

		b, err := os.ReadFile(c.Args().First())
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		contents, err := gbnp.Disassemble(b)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		for _, r := range contents.Rejected {
			logger.WithField("slot", r.Slot).Warn(r.Err)
		}

		if err := extract(contents, c.String("dir"), filepath.Base(c.Args().First()), logger); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	},
}

var infoCommand = &cli.Command{
	Name:      "info",
	Usage:     "Describe cartridge images as JSON",
	ArgsUsage: "ROM...",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		logger := newLogger(c)
		paths := c.Args().Slice()

		data, err := gbnp.ReadFiles(c.Context, paths)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		var (
			carts []*cartridge.Cartridge
			names []string
		)
		for i, b := range data {
			cart, err := cartridge.New(b)
			if err != nil {
				logger.WithField("file", paths[i]).Warn(err)
				continue
			}
			carts = append(carts, cart)
			names = append(names, paths[i])
		}

		if err := gbnp.WriteInfo(os.Stdout, carts, names); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	},
}

// saveManifest writes m to file, reporting a failure to close it as well.
func saveManifest(file string, m *gbnp.Manifest) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := gbnp.WriteManifest(f, m); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// extract writes the recovered cartridges, trimmed to their declared size,
// and a manifest listing them into dir.
func extract(contents *gbnp.Contents, dir, output string, logger *logrus.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	manifest := &gbnp.Manifest{
		Output: output,
	}

	for i, cart := range contents.Cartridges {
		name := fmt.Sprintf("%02d-%s.gb", i+1, sanitize(cart.Title()))
		if err := os.WriteFile(filepath.Join(dir, name), cart.Payload()[:cart.ROMSizeKB()*layout.KB], 0644); err != nil {
			return err
		}

		entry := gbnp.ManifestEntry{Path: name}
		if cart.MenuText() != cart.Title() {
			entry.MenuText = cart.MenuText()
		}
		manifest.Cartridges = append(manifest.Cartridges, entry)

		logger.WithField("file", name).Info("Extracted cartridge")
	}

	return saveManifest(filepath.Join(dir, "manifest.toml"), manifest)
}

// previewCartridges returns the cartridges whose menu entries b shows. A
// buffer the size of a multicart image is disassembled regardless of what
// the firmware header at its start declares; anything else, or an image
// without occupied slots, is a single cartridge rendered with font.
func previewCartridges(b []byte, font, text string) ([]*cartridge.Cartridge, error) {
	if len(b) == layout.ImageSize {
		switch contents, err := gbnp.Disassemble(b); {
		case err == nil:
			return contents.Cartridges, nil
		case !errors.Is(err, gbnp.ErrNoCartridgesFound):
			return nil, err
		}
	}

	cart, err := cartridge.New(b)
	if err != nil {
		return nil, err
	}

	r, err := raster.Lookup(font)
	if err != nil {
		return nil, err
	}
	if err := gbnp.Render(cart, text, r); err != nil {
		return nil, err
	}

	return []*cartridge.Cartridge{cart}, nil
}

// menuImage stacks the menu tiles of carts vertically
func menuImage(carts []*cartridge.Cartridge) (image.Image, error) {
	m := image.NewPaletted(image.Rect(0, 0, layout.MenuWidth, layout.MenuHeight*len(carts)), tile.Palette)
	for i, c := range carts {
		t, err := tile.Decode(c.Bitmap(), layout.MenuWidth, layout.MenuHeight)
		if err != nil {
			return nil, err
		}
		draw.Draw(m, t.Bounds().Add(image.Pt(0, i*layout.MenuHeight)), t, image.Point{}, draw.Src)
	}
	return m, nil
}

var previewCommand = &cli.Command{
	Name:      "preview",
	Usage:     "Render the menu entries of a cartridge or multicart image as PNG",
	ArgsUsage: "ROM|IMAGE",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "preview.png",
			Usage:   "PNG file to write",
		},
		&cli.StringFlag{
			Name:  "font",
			Value: raster.DefaultFont,
			Usage: "font for menu text",
		},
		&cli.StringFlag{
			Name:  "text",
			Usage: "menu text instead of the cartridge title",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		b, err := os.ReadFile(c.Args().First())
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		carts, err := previewCartridges(b, c.String("font"), c.String("text"))
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		m, err := menuImage(carts)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		buf := new(bytes.Buffer)
		if err := png.Encode(buf, m); err != nil {
			return cli.NewExitError(err, 1)
		}

		if err := os.WriteFile(c.String("output"), buf.Bytes(), 0644); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	},
}

var firmwareCommand = &cli.Command{
	Name:  "firmware",
	Usage: "Manage the stored menu firmware",
	Subcommands: []*cli.Command{
		{
			Name:      "load",
			Usage:     "Store a menu firmware and make it current",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowSubcommandHelpAndExit(c, 1)
				}

				b, err := os.ReadFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := gbnp.NewFirmware(b)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.Load(f); err != nil {
					return cli.NewExitError(err, 1)
				}

				newLogger(c).WithField("sha1", f.SHA1()).Info("Loaded firmware")

				return nil
			},
		},
		{
			Name:  "show",
			Usage: "Show the current menu firmware",
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				f, err := db.Current()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("%s %d\n", f.SHA1(), f.Size())

				return nil
			},
		},
		{
			Name:  "clear",
			Usage: "Forget all stored menu firmware",
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.Clear(); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	},
}
