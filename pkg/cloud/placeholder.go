package cloud

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/fsutil"
)

// Placeholder is a cloud-only document reference found on disk.
type Placeholder struct {
	Path string
	Kind Kind
	// DocumentID is empty when the file carries no usable identifier.
	DocumentID string
}

// Name is the document title, i.e. the file name without the placeholder extension.
func (p Placeholder) Name() string {
	base := filepath.Base(p.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type placeholderContent struct {
	DocID      string `json:"doc_id"`
	URL        string `json:"url"`
	ResourceID string `json:"resource_id"`
}

// documentID extracts the remote id from placeholder JSON. Older sync clients only
// wrote a url or a "<type>:<id>" resource id.
func documentID(data []byte) string {
	var content placeholderContent
	if err := json.Unmarshal(data, &content); err != nil {
		return ""
	}
	if content.DocID != "" {
		return content.DocID
	}
	if content.URL != "" {
		if u, err := url.Parse(content.URL); err == nil {
			if id := u.Query().Get("id"); id != "" {
				return id
			}
		}
	}
	if _, id, ok := strings.Cut(content.ResourceID, ":"); ok {
		return id
	}
	return ""
}

// FindPlaceholders lists all placeholder files below directory in walk order.
func FindPlaceholders(directory string) ([]Placeholder, error) {
	files, err := fsutil.Files(directory)
	if err != nil {
		return nil, err
	}

	var placeholders []Placeholder
	for _, f := range files {
		kind, ok := KindOf(f.Path)
		if !ok {
			continue
		}
		p := Placeholder{Path: f.Path, Kind: kind}
		if data, err := os.ReadFile(f.Path); err == nil {
			p.DocumentID = documentID(data)
		} else {
			log.Debug().Err(err).Str("path", f.Path).Msg("could not read placeholder")
		}
		placeholders = append(placeholders, p)
	}
	return placeholders, nil
}
