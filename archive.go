package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/archiver"
	clitools "github.com/gentoomaniac/filearchiver/pkg/cli"
	"github.com/gentoomaniac/filearchiver/pkg/cloud"
	"github.com/gentoomaniac/filearchiver/pkg/cloud/gdrive"
	"github.com/gentoomaniac/filearchiver/pkg/db"
	"github.com/gentoomaniac/filearchiver/pkg/descriptor"
	"github.com/gentoomaniac/filearchiver/pkg/pipeline"
)

type Archive struct {
	Directories []string `short:"d" help:"Directories to process." sep:","`
	Output      string   `short:"o" help:"Where archives and manifests are written." default:"." type:"path"`
	Compression int      `help:"Deflate compression level, -2 (huffman only) to 9." default:"-1"`
	NoCloud     bool     `help:"Do not export cloud placeholders, ask before archiving them."`
	Credentials string   `help:"Google OAuth client credentials file." default:"~/.filearchiver/credentials.json" env:"FILEARCHIVER_CREDENTIALS" type:"path"`
	Token       string   `help:"Where the Google OAuth token is stored." default:"~/.filearchiver/token.json" env:"FILEARCHIVER_TOKEN" type:"path"`
	DBPath      string   `name:"db" help:"sqlite file recording every processed directory." env:"FILEARCHIVER_DB" type:"path"`
	Plain       bool     `help:"Print status lines without colors."`
}

func (a *Archive) Validate() error {
	if a.Compression < flate.HuffmanOnly || a.Compression > flate.BestCompression {
		return fmt.Errorf("--compression must be between %d and %d", flate.HuffmanOnly, flate.BestCompression)
	}
	return nil
}

func nonEmpty(values []string) []string {
	var result []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// newResolver injects a Drive handle that only authorizes once a placeholder needs it.
func newResolver(ctx context.Context, params *Archive, prompter clitools.Prompter) *cloud.Resolver {
	if params.NoCloud {
		return cloud.NewResolver(nil, prompter)
	}
	drive := gdrive.NewLazy(ctx, gdrive.Config{CredentialsFile: params.Credentials, TokenFile: params.Token}, prompter)
	return cloud.NewResolver(drive, prompter)
}

func archive(ctx context.Context, params *Archive) int {
	printer := clitools.NewStatusPrinter(os.Stdout, !params.Plain)

	directories := nonEmpty(params.Directories)
	if len(directories) == 0 {
		printer.Status(clitools.Error, "No directories given")
		return 1
	}

	opts := []pipeline.Option{
		pipeline.WithReporter(printer),
		pipeline.WithResolver(newResolver(ctx, params, clitools.Prompter{})),
	}

	if params.DBPath != "" {
		database, err := db.NewSQLLite(params.DBPath)
		if err == nil {
			err = database.Init()
		}
		if err != nil {
			log.Error().Err(err).Str("db", params.DBPath).Msg("failed opening catalog")
			return 1
		}
		defer database.Close()
		opts = append(opts, pipeline.WithCatalog(database))
	}

	a := archiver.New(params.Output)
	a.Level = params.Compression

	summary := pipeline.New(a, descriptor.New(params.Output), opts...).Run(ctx, directories)
	if !summary.OK() {
		return 1
	}
	return 0
}
