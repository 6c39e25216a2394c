package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/gentoomaniac/logging"
)

var (
	version = "unset"
	commit  = "unset"
	binName = "filearchiver"
	builtBy = "manual"
	date    = "unset"
)

type CLI struct {
	logging.LoggingConfig

	Archive Archive `cmd:"" default:"withargs" help:"Archive directories and describe them in a manifest (default)."`
	History History `cmd:"" help:"Show previously processed directories."`

	Version kong.VersionFlag `help:"Display version."`
}

var cli CLI

func newParser(c *CLI) (*kong.Kong, error) {
	return kong.New(c,
		kong.Name(binName),
		kong.Description("Zip directories, write a markdown manifest next to each archive and back up cloud-only documents first."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.filearchiver/config.json", ".filearchiver.json"),
		kong.Vars{
			"version": version + " (" + commit + ", " + date + ", " + builtBy + ")",
			"commit":  commit,
			"binName": binName,
			"builtBy": builtBy,
			"date":    date,
		},
	)
}

// flagSet reports whether the named flag was given on the command line or by a config file.
func flagSet(ctx *kong.Context, name string) bool {
	for _, p := range ctx.Path {
		if p.Flag != nil && p.Flag.Name == name {
			return true
		}
	}
	return false
}

func main() {
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	logging.Setup(&cli.LoggingConfig)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch ctx.Command() {
	case "archive":
		if !flagSet(ctx, "directories") {
			ctx.PrintUsage(false)
			ctx.Exit(0)
			return
		}
		code := archive(runCtx, &cli.Archive)
		stop()
		ctx.Exit(code)

	case "history", "history <directory>":
		code := history(&cli.History)
		stop()
		ctx.Exit(code)
	}
	ctx.Exit(0)
}
