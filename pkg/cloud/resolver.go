package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

type Result int

const (
	Resolved Result = iota
	Declined
)

func (r Result) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case Declined:
		return "declined"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

var (
	ErrNoMatch = errors.New("no matching remote document")
	// ErrUnavailable is returned by an Exporter that can not reach its service at
	// all, e.g. because authorization failed. Placeholders are then handled like
	// unsupported ones.
	ErrUnavailable = errors.New("cloud export unavailable")
)

// UserDecision asks the user to settle situations the resolver cannot decide on its own.
type UserDecision interface {
	Confirm(question string) (bool, error)
	Choose(label string, options []string) (int, error)
}

type RemoteFile struct {
	ID       string
	Name     string
	Modified string
}

// Exporter talks to the service hosting the placeholder documents.
type Exporter interface {
	Lookup(ctx context.Context, name string, mimeType string) ([]RemoteFile, error)
	Export(ctx context.Context, id string, mimeType string, w io.Writer) error
}

// Resolver exports every placeholder of a directory to sibling backup files.
// Without an Exporter every placeholder is treated like an unsupported one.
type Resolver struct {
	exporter Exporter
	decision UserDecision
}

func NewResolver(exporter Exporter, decision UserDecision) *Resolver {
	return &Resolver{exporter: exporter, decision: decision}
}

func (r *Resolver) Resolve(ctx context.Context, directory string) (Result, error) {
	placeholders, err := FindPlaceholders(directory)
	if err != nil {
		return Resolved, fmt.Errorf("searching placeholders in \"%s\": %w", directory, err)
	}
	log.Debug().Str("directory", directory).Int("placeholders", len(placeholders)).Msg("placeholders found")

	for _, p := range placeholders {
		if err := ctx.Err(); err != nil {
			return Resolved, err
		}

		reason := fmt.Sprintf("\"%s\" can not be backed up", p.Path)
		if p.Kind.Supported {
			if r.exporter != nil {
				err := r.backup(ctx, p)
				if err == nil {
					continue
				}
				if !errors.Is(err, ErrUnavailable) {
					return Resolved, err
				}
				log.Warn().Err(err).Str("placeholder", p.Path).Msg("cloud backup unavailable")
			}
			reason = fmt.Sprintf("cloud backup is unavailable for \"%s\"", p.Path)
		}

		ok, err := r.decision.Confirm(reason + ", proceed without backup")
		if err != nil {
			return Resolved, err
		}
		if !ok {
			return Declined, nil
		}
	}
	return Resolved, nil
}

func (r *Resolver) backup(ctx context.Context, p Placeholder) error {
	id := p.DocumentID
	if id == "" {
		var err error
		if id, err = r.lookup(ctx, p); err != nil {
			return err
		}
	}

	for _, format := range p.Kind.Exports {
		target := BackupPath(p.Path, format)
		log.Debug().Str("placeholder", p.Path).Str("id", id).Str("target", target).Msg("exporting")
		if err := r.export(ctx, id, format, target); err != nil {
			return fmt.Errorf("exporting \"%s\" as %s: %w", p.Path, format.Extension, err)
		}
		log.Info().Str("backup", target).Msg("placeholder exported")
	}
	return nil
}

func (r *Resolver) lookup(ctx context.Context, p Placeholder) (string, error) {
	matches, err := r.exporter.Lookup(ctx, p.Name(), p.Kind.MimeType)
	if err != nil {
		return "", fmt.Errorf("looking up \"%s\": %w", p.Path, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("\"%s\": %w", p.Path, ErrNoMatch)
	case 1:
		return matches[0].ID, nil
	}

	options := make([]string, 0, len(matches))
	for _, m := range matches {
		options = append(options, fmt.Sprintf("%s (%s, modified %s)", m.Name, m.ID, m.Modified))
	}
	idx, err := r.decision.Choose(fmt.Sprintf("Several documents match \"%s\"", p.Path), options)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(matches) {
		return "", fmt.Errorf("invalid choice %d for \"%s\"", idx, p.Path)
	}
	return matches[idx].ID, nil
}

func (r *Resolver) export(ctx context.Context, id string, format ExportFormat, target string) (err error) {
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(target)
		}
	}()

	return r.exporter.Export(ctx, id, format.MimeType, f)
}
