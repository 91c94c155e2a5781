package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"h2d/common"
	"h2d/config"
	"h2d/convert"
	"h2d/state"
)

const compileHelp = `
SOURCE:
    html file, zip archive with html files, or directory. Directories are
    searched recursively for *.html, *.htm, *.xhtml files and zip archives,
    everything is processed in natural order (page2 before page10).
    Archives inside archives are not opened.

DESTINATION:
    output directory, current working directory if absent. File names are
    derived from source names, output type and "output" configuration section.
`

const previewHelp = `
SOURCE:
    html file

DESTINATION:
    image file, format is selected by extension (png, jpg, gif, tif, bmp),
    ".svg" writes vector drawing. Defaults to SOURCE base name with ".png"
    in current working directory.
`

const dumpConfigHelp = `
DESTINATION:
    file to write configuration to, STDOUT if absent

Active configuration is defaults merged with configuration file, --default
shows embedded defaults only.
`

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:         "compile",
		Usage:        "Compiles html file(s) to design tree",
		OnUsageError: passUsageError,
		Action:       convert.Compile,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Value: common.OutputFmtJson.String(),
				Usage: "output `TYPE` (" + strings.Join(common.OutputFmtNames(), ", ") + ")"},
			&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "put all output files into DESTINATION ignoring source directories"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing output files"},
		},
		ArgsUsage:          "SOURCE [DESTINATION]",
		CustomHelpTemplate: cli.CommandHelpTemplate + compileHelp,
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:         "preview",
		Usage:        "Draws design tree of html file as an image",
		OnUsageError: passUsageError,
		Action:       convert.Preview,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing image"},
		},
		ArgsUsage:          "SOURCE [DESTINATION]",
		CustomHelpTemplate: cli.CommandHelpTemplate + previewHelp,
	}
}

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "dumpconfig",
		Usage: "Dumps either default or active configuration (YAML)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output embedded defaults"},
		},
		OnUsageError:       passUsageError,
		Action:             dumpConfig,
		ArgsUsage:          "[DESTINATION]",
		CustomHelpTemplate: cli.CommandHelpTemplate + dumpConfigHelp,
	}
}

func dumpConfig(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		kind = "active"
		data []byte
		err  error
	)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	dst := cmd.Args().Get(0)
	if dst == "" {
		env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
	} else {
		env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", dst))
		err = os.WriteFile(dst, data, 0644)
	}
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
