package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/archiver"
	"github.com/gentoomaniac/filearchiver/pkg/cli"
	"github.com/gentoomaniac/filearchiver/pkg/cloud"
	"github.com/gentoomaniac/filearchiver/pkg/db"
	"github.com/gentoomaniac/filearchiver/pkg/fsutil"
)

type Archiver interface {
	Archive(directory string) (string, error)
}

type Describer interface {
	Describe(directory string, archive string) (string, error)
}

type BackupResolver interface {
	Resolve(ctx context.Context, directory string) (cloud.Result, error)
}

type Reporter interface {
	Status(severity cli.Severity, format string, args ...interface{})
}

type Catalog interface {
	AddRun(run *db.Run) (int64, error)
}

type Summary struct {
	Succeeded []string
	Failed    []string
	Skipped   []string
}

// OK is true when no directory failed. Skipped directories do not count as failures.
func (s Summary) OK() bool {
	return len(s.Failed) == 0
}

// Pipeline runs backup resolution, archiving and description for one directory
// after the other.
type Pipeline struct {
	archiver  Archiver
	describer Describer
	resolver  BackupResolver
	catalog   Catalog
	reporter  Reporter
}

type Option func(*Pipeline)

func WithResolver(r BackupResolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

func WithCatalog(c Catalog) Option {
	return func(p *Pipeline) { p.catalog = c }
}

func WithReporter(r Reporter) Option {
	return func(p *Pipeline) { p.reporter = r }
}

func New(archiver Archiver, describer Describer, opts ...Option) *Pipeline {
	p := &Pipeline{
		archiver:  archiver,
		describer: describer,
		reporter:  cli.NewStatusPrinter(os.Stdout, false),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context, directories []string) Summary {
	var summary Summary

	for _, directory := range directories {
		if err := ctx.Err(); err != nil {
			p.reporter.Status(cli.Error, "Error: \"%s\" not processed: %v", directory, err)
			summary.Failed = append(summary.Failed, directory)
			continue
		}

		p.reporter.Status(cli.Title, "Processing \"%s\"", directory)
		run := p.process(ctx, directory)

		switch run.Status {
		case db.StatusSuccess:
			p.reporter.Status(cli.Success, "Description and Archive created for \"%s\" (%s -> %s)",
				directory, fsutil.ReadableSize(run.OriginalSize), fsutil.ReadableSize(run.ArchiveSize))
			summary.Succeeded = append(summary.Succeeded, directory)
		case db.StatusDeclined:
			p.reporter.Status(cli.Info, "Skipped \"%s\": proceeding without cloud backup was declined", directory)
			summary.Skipped = append(summary.Skipped, directory)
		default:
			p.reporter.Status(cli.Error, "Error: %s", run.Message)
			summary.Failed = append(summary.Failed, directory)
		}

		p.record(run)
	}

	log.Debug().
		Int("succeeded", len(summary.Succeeded)).
		Int("failed", len(summary.Failed)).
		Int("skipped", len(summary.Skipped)).
		Msg("run finished")
	return summary
}

func (p *Pipeline) process(ctx context.Context, directory string) *db.Run {
	run := &db.Run{Directory: directory, Status: db.StatusFailed}

	if err := archiver.Validate(directory); err != nil {
		run.Message = err.Error()
		return run
	}

	if p.resolver != nil {
		result, err := p.resolver.Resolve(ctx, directory)
		if err != nil {
			run.Message = fmt.Sprintf("cloud backup of \"%s\" failed: %v", directory, err)
			return run
		}
		if result == cloud.Declined {
			run.Status = db.StatusDeclined
			return run
		}
	}

	archive, err := p.archiver.Archive(directory)
	if err != nil {
		run.Message = err.Error()
		return run
	}
	run.Archive = archive

	manifest, err := p.describer.Describe(directory, archive)
	if err != nil {
		run.Message = fmt.Sprintf("Something went wrong while describing \"%s\": %v", directory, err)
		return run
	}
	run.Manifest = manifest

	if stat, err := os.Stat(archive); err == nil {
		run.ArchiveSize = stat.Size()
	}
	if size, err := fsutil.DirSize(directory, archive, manifest); err == nil {
		run.OriginalSize = size
	}

	run.Status = db.StatusSuccess
	return run
}

func (p *Pipeline) record(run *db.Run) {
	if p.catalog == nil {
		return
	}
	if _, err := p.catalog.AddRun(run); err != nil {
		log.Warn().Err(err).Str("directory", run.Directory).Msg("failed recording run")
	}
}
