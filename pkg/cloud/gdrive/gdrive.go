package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/gentoomaniac/filearchiver/pkg/cloud"
)

var ErrUnavailable = errors.New("google drive is not configured")

type Config struct {
	CredentialsFile string
	TokenFile       string
}

// CodePrompter asks the user for the OAuth authorization code.
type CodePrompter interface {
	Ask(label string) (string, error)
}

// Drive looks up and exports Google Docs editor files.
type Drive struct {
	service *drive.Service
}

var _ cloud.Exporter = (*Drive)(nil)

// New authorizes against Google Drive with the installed-app flow. A missing
// credentials file yields ErrUnavailable.
func New(ctx context.Context, cfg Config, prompt CodePrompter) (*Drive, error) {
	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no credentials at \"%s\"", ErrUnavailable, cfg.CredentialsFile)
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	config, err := google.ConfigFromJSON(credentials, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	token, err := LoadToken(cfg.TokenFile)
	if err != nil {
		log.Debug().Err(err).Str("token", cfg.TokenFile).Msg("no stored token, starting authorization")
		if token, err = requestToken(ctx, config, prompt); err != nil {
			return nil, err
		}
		if err := SaveToken(cfg.TokenFile, token); err != nil {
			log.Warn().Err(err).Str("token", cfg.TokenFile).Msg("failed storing token")
		}
	}

	return NewWithOptions(ctx, option.WithHTTPClient(config.Client(ctx, token)))
}

func NewWithOptions(ctx context.Context, opts ...option.ClientOption) (*Drive, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}
	return &Drive{service: service}, nil
}

func requestToken(ctx context.Context, config *oauth2.Config, prompt CodePrompter) (*oauth2.Token, error) {
	if prompt == nil {
		return nil, fmt.Errorf("%w: no token and no way to ask for one", ErrUnavailable)
	}
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	code, err := prompt.Ask(fmt.Sprintf("Open %s in a browser and enter the authorization code", authURL))
	if err != nil {
		return nil, err
	}
	token, err := config.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("decoding token \"%s\": %w", path, err)
	}
	return token, nil
}

func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// quote renders s as a Drive query string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func (d *Drive) Lookup(ctx context.Context, name string, mimeType string) ([]cloud.RemoteFile, error) {
	query := fmt.Sprintf("name = %s and mimeType = %s and trashed = false", quote(name), quote(mimeType))
	log.Debug().Str("query", query).Msg("searching drive")

	var files []cloud.RemoteFile
	err := d.service.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, modifiedTime)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, cloud.RemoteFile{ID: f.Id, Name: f.Name, Modified: f.ModifiedTime})
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (d *Drive) Export(ctx context.Context, id string, mimeType string, w io.Writer) error {
	resp, err := d.service.Files.Export(id, mimeType).Context(ctx).Download()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	log.Debug().Str("id", id).Str("mime", mimeType).Int64("bytes", n).Msg("document exported")
	return err
}
