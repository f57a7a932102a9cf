package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/clrscope/clrscope/loader"
)

func CreateClassifyCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "classify",
		Usage:       "Prints one classification line per input binary",
		Description: "Prints one classification line per input binary",
		Action:      action,
		Flags: []cli.Flag{
			MappedIOFlag,
		},
	}
}

var ClassifyCommand = CreateClassifyCommand(ClassifyBinaries)

func ClassifyBinaries(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("at least one binary path is required")
	}

	opts := loader.Options{MappedIO: ctx.Bool(MappedIOFlag.Name)}

	var out strings.Builder
	for _, path := range ctx.Args().Slice() {
		f := loader.LoadFile(path, opts)
		out.WriteString(fmt.Sprintf("%s\t%s\n", f.Kind(), path))
		_ = f.Close()
	}

	_, err := os.Stdout.WriteString(out.String())
	return err
}
