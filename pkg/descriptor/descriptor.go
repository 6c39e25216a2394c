package descriptor

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/fsutil"
	"github.com/gentoomaniac/filearchiver/pkg/output/local"
)

const Extension = ".md"

var (
	ErrEmptyDirectory = errors.New("directory is empty")
	ErrWrite          = errors.New("failed to write manifest")
)

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write manifest \"%s\": %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

type FileEntry struct {
	Path string
	Size int64
}

// Stats compares the original directory size with the archive size.
// SavePercentage is negative when the archive is smaller than the directory.
type Stats struct {
	OriginalSize       int64
	ArchiveSize        int64
	SpaceSaved         int64
	ArchivedPercentage int
	SavePercentage     int
}

func ComputeStats(directorySize, archiveSize int64) (Stats, error) {
	if directorySize <= 0 {
		return Stats{}, ErrEmptyDirectory
	}
	saved := directorySize - archiveSize
	return Stats{
		OriginalSize:       directorySize,
		ArchiveSize:        archiveSize,
		SpaceSaved:         saved,
		ArchivedPercentage: int(math.Round(float64(archiveSize) / float64(directorySize) * 100)),
		SavePercentage:     -int(math.Round(float64(saved) / float64(directorySize) * 100)),
	}, nil
}

type Manifest struct {
	Name        string
	ArchiveName string
	Files       []FileEntry
	Stats       Stats
}

func (m *Manifest) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", m.Name)
	fmt.Fprintf(&b, "\nThis file describes the contents of `%s`.\n", m.ArchiveName)

	b.WriteString("\n## Contents\n")
	for _, f := range m.Files {
		fmt.Fprintf(&b, "*%s* _(%s)_\n", f.Path, fsutil.ReadableSize(f.Size))
	}

	b.WriteString("\n## Info\n")
	fmt.Fprintf(&b, "- Original size: %s\n", fsutil.ReadableSize(m.Stats.OriginalSize))
	fmt.Fprintf(&b, "- Archived size: %s _(%d%%)_\n", fsutil.ReadableSize(m.Stats.ArchiveSize), m.Stats.ArchivedPercentage)
	fmt.Fprintf(&b, "- Save space: %s _(%d%%)_\n", fsutil.ReadableSize(m.Stats.SpaceSaved), m.Stats.SavePercentage)

	return b.String()
}

type Descriptor struct {
	OutputDir string
}

func New(outputDir string) *Descriptor {
	if outputDir == "" {
		outputDir = "."
	}
	return &Descriptor{OutputDir: outputDir}
}

// Name is the manifest file name used for directory.
func Name(directory string) string {
	return "_" + fsutil.BaseName(directory) + Extension
}

// Build measures directory and the existing archive. The archive and the manifest
// target are excluded from the listing when they live inside directory.
func (d *Descriptor) Build(directory string, archive string) (*Manifest, error) {
	archiveStat, err := os.Stat(archive)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	files, err := fsutil.Files(directory, archive, d.path(directory))
	if err != nil {
		return nil, fmt.Errorf("walking \"%s\": %w", directory, err)
	}

	stats, err := ComputeStats(fsutil.TotalSize(files), archiveStat.Size())
	if err != nil {
		return nil, fmt.Errorf("\"%s\": %w", directory, err)
	}

	manifest := &Manifest{
		Name:        fsutil.BaseName(directory),
		ArchiveName: filepath.Base(archive),
		Files:       make([]FileEntry, 0, len(files)),
		Stats:       stats,
	}
	for _, f := range files {
		manifest.Files = append(manifest.Files, FileEntry{Path: f.Path, Size: f.Size})
	}
	return manifest, nil
}

// Describe writes the manifest of directory and returns its path.
func (d *Descriptor) Describe(directory string, archive string) (string, error) {
	manifest, err := d.Build(directory, archive)
	if err != nil {
		return "", err
	}

	path := d.path(directory)
	log.Debug().Str("directory", directory).Str("manifest", path).Int("files", len(manifest.Files)).Msg("writing manifest")
	if _, err := local.Write([]byte(manifest.Markdown()), d.OutputDir, Name(directory)); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

func (d *Descriptor) path(directory string) string {
	return filepath.Join(d.OutputDir, Name(directory))
}
