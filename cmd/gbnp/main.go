package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

const defaultDB = "gbnp.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "gbnp"
	app.Usage = "Game Boy Memory multicart builder"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GBNP_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to firmware database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		buildCommand,
		extractCommand,
		infoCommand,
		previewCommand,
		firmwareCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
