// Package cmd defines all the commands for the cli
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/clrscope/clrscope/inspect"
	"github.com/clrscope/clrscope/loader"
	"github.com/clrscope/clrscope/profile"
	"github.com/clrscope/clrscope/renderer"
)

var (
	ProfileFlag = &cli.PathFlag{
		Name:     "profile",
		Usage:    "Path to an inspection profile config file",
		Required: false,
	}
	MappedIOFlag = &cli.BoolFlag{
		Name:     "mapped",
		Usage:    "Memory-map input files instead of reading them into memory",
		Required: false,
	}
	SymbolsFlag = &cli.BoolFlag{
		Name:     "symbols",
		Usage:    "Probe for symbol files alongside managed modules",
		Required: false,
	}
	FormatFlag = &cli.StringFlag{
		Name:        "format",
		Usage:       "format of the output. Options: json, text",
		Required:    false,
		DefaultText: "text",
	}
	ReportOutputPathFlag = &cli.PathFlag{
		Name:     "report-output-path",
		Usage:    "output file path for report. Default: stdout",
		Required: false,
	}
	DebugFlag = &cli.BoolFlag{
		Name:     "debug",
		Usage:    "log classification decisions and swallowed failures",
		Required: false,
	}
)

func CreateInspectCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "inspect",
		Usage:       "Classifies binaries and reports their managed/native structure",
		Description: "Classifies binaries and reports their managed/native structure",
		Action:      action,
		Flags: []cli.Flag{
			ProfileFlag,
			MappedIOFlag,
			SymbolsFlag,
			FormatFlag,
			ReportOutputPathFlag,
			DebugFlag,
		},
	}
}

var InspectCommand = CreateInspectCommand(InspectBinaries)

func InspectBinaries(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("at least one binary path is required")
	}

	opts, format, err := buildOptions(ctx)
	if err != nil {
		return err
	}
	reportOutputPath := ctx.Path(ReportOutputPathFlag.Name)

	reports := make([]*inspect.Report, 0, ctx.Args().Len())
	for _, path := range ctx.Args().Slice() {
		f := loader.LoadFile(path, opts)
		reports = append(reports, inspect.Build(f))
		if err := f.Close(); err != nil {
			opts.Logger.Debug().Err(err).Str("path", path).Msg("close failed")
		}
	}

	if err := writeReport(reports, format, reportOutputPath); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}
	return nil
}

// buildOptions merges the profile file, if any, with the command-line flags.
// An explicitly set flag wins over the profile.
func buildOptions(ctx *cli.Context) (loader.Options, string, error) {
	opts := loader.Options{}
	format := "text"

	if profilePath := ctx.Path(ProfileFlag.Name); profilePath != "" {
		prof, err := profile.LoadProfile(profilePath)
		if err != nil {
			return opts, "", fmt.Errorf("error loading profile: %w", err)
		}
		opts = prof.Options()
		format = prof.Format
	}
	if ctx.IsSet(MappedIOFlag.Name) {
		opts.MappedIO = ctx.Bool(MappedIOFlag.Name)
	}
	if ctx.IsSet(SymbolsFlag.Name) {
		opts.LoadSymbols = ctx.Bool(SymbolsFlag.Name)
	}
	if ctx.IsSet(FormatFlag.Name) {
		format = ctx.String(FormatFlag.Name)
	}

	level := zerolog.WarnLevel
	if ctx.Bool(DebugFlag.Name) {
		level = zerolog.DebugLevel
	}
	opts.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	return opts, format, nil
}

// writeReport outputs the results in the specified format.
func writeReport(reports []*inspect.Report, format, outputPath string) error {
	var output io.Writer = os.Stdout
	if outputPath != "" {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("unable to determine absolute path: %w", err)
		}
		file, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("unable to open output file: %w", err)
		}
		defer func() {
			_ = file.Close()
		}()
		output = file
	}

	var rendererInstance renderer.Renderer
	switch format {
	case "text":
		rendererInstance = renderer.NewTextRenderer()
	case "json":
		rendererInstance = renderer.NewJSONRenderer()
	default:
		return fmt.Errorf("invalid format: %s", format)
	}

	return rendererInstance.Render(reports, output)
}
