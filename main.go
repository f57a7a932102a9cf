package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/clrscope/clrscope/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = os.Args[0]
	app.Usage = "Managed Binary Inspector"
	app.Description = "Classifies PE binaries, loads managed modules and their symbols"
	app.Commands = []*cli.Command{
		cmd.InspectCommand,
		cmd.ClassifyCommand,
	}
	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
