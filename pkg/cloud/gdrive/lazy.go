package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/cloud"
)

// Lazy is an Exporter that authorizes against Drive the first time a placeholder
// needs it, so runs without placeholders never prompt for an authorization code.
// A failed authorization is remembered and reported as cloud.ErrUnavailable.
type Lazy struct {
	ctx    context.Context
	cfg    Config
	prompt CodePrompter
	dial   func(ctx context.Context, cfg Config, prompt CodePrompter) (*Drive, error)

	once  sync.Once
	drive *Drive
	err   error
}

var _ cloud.Exporter = (*Lazy)(nil)

func NewLazy(ctx context.Context, cfg Config, prompt CodePrompter) *Lazy {
	return &Lazy{ctx: ctx, cfg: cfg, prompt: prompt, dial: New}
}

func (l *Lazy) get() (*Drive, error) {
	l.once.Do(func() {
		l.drive, l.err = l.dial(l.ctx, l.cfg, l.prompt)
		if l.err != nil {
			if errors.Is(l.err, ErrUnavailable) {
				log.Info().Err(l.err).Msg("cloud backup disabled")
			} else {
				log.Warn().Err(l.err).Msg("cloud backup unavailable")
			}
			l.err = fmt.Errorf("%w: %w", cloud.ErrUnavailable, l.err)
		}
	})
	return l.drive, l.err
}

func (l *Lazy) Lookup(ctx context.Context, name string, mimeType string) ([]cloud.RemoteFile, error) {
	d, err := l.get()
	if err != nil {
		return nil, err
	}
	return d.Lookup(ctx, name, mimeType)
}

func (l *Lazy) Export(ctx context.Context, id string, mimeType string, w io.Writer) error {
	d, err := l.get()
	if err != nil {
		return err
	}
	return d.Export(ctx, id, mimeType, w)
}
