package archiver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/fsutil"
	"github.com/gentoomaniac/filearchiver/pkg/output/local"
)

const Extension = ".zip"

var (
	ErrValidation = errors.New("invalid directory")
	ErrCreate     = errors.New("failed to create archive")
)

// ValidationError names the rejected path and why it was rejected.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("\"%s\" %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type CreateError struct {
	Directory string
	Err       error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("failed to zip \"%s\": %v", e.Directory, e.Err)
}

func (e *CreateError) Unwrap() []error { return []error{ErrCreate, e.Err} }

// Archiver zips a directory into _<name>.zip inside OutputDir.
type Archiver struct {
	OutputDir string
	Level     int
}

func New(outputDir string) *Archiver {
	if outputDir == "" {
		outputDir = "."
	}
	return &Archiver{OutputDir: outputDir, Level: flate.DefaultCompression}
}

// Name is the archive file name used for directory.
func Name(directory string) string {
	return "_" + fsutil.BaseName(directory) + Extension
}

func Validate(directory string) error {
	stat, err := os.Stat(directory)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ValidationError{Path: directory, Reason: "does not exist"}
		}
		return &ValidationError{Path: directory, Reason: err.Error()}
	}
	if !stat.IsDir() {
		return &ValidationError{Path: directory, Reason: "is not a directory"}
	}
	if fsutil.BaseName(directory) == "" {
		return &ValidationError{Path: directory, Reason: "is a filesystem root"}
	}
	return nil
}

// Archive validates directory and writes its archive, returning the archive path.
func (a *Archiver) Archive(directory string) (string, error) {
	if err := Validate(directory); err != nil {
		return "", err
	}

	archive := filepath.Join(a.OutputDir, Name(directory))
	log.Debug().Str("directory", directory).Str("archive", archive).Msg("creating archive")

	if err := a.write(directory, archive); err != nil {
		if rmErr := os.Remove(archive); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn().Err(rmErr).Str("archive", archive).Msg("failed removing partial archive")
		}
		return "", &CreateError{Directory: directory, Err: err}
	}
	return archive, nil
}

func (a *Archiver) write(directory string, archive string) (err error) {
	// a manifest from an earlier run may sit next to the archive
	manifest := strings.TrimSuffix(archive, Extension) + ".md"
	files, emptyDirs, err := fsutil.Tree(directory, archive, manifest)
	if err != nil {
		return err
	}

	out, err := local.Create(filepath.Dir(archive), filepath.Base(archive))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	level := a.Level
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	for _, f := range files {
		if err = addFile(zw, f); err != nil {
			return fmt.Errorf("adding %s: %w", f.RelPath, err)
		}
	}
	for _, d := range emptyDirs {
		if err = addDir(zw, d); err != nil {
			return fmt.Errorf("adding %s: %w", d.RelPath, err)
		}
	}
	return zw.Close()
}

// addDir records an empty directory; a trailing slash makes it a directory entry.
func addDir(zw *zip.Writer, d fsutil.File) error {
	header, err := zip.FileInfoHeader(d.Info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(d.RelPath) + "/"
	_, err = zw.CreateHeader(header)
	return err
}

func addFile(zw *zip.Writer, f fsutil.File) error {
	header, err := zip.FileInfoHeader(f.Info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(f.RelPath)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	in, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	n, err := io.Copy(w, in)
	log.Debug().Str("file", f.RelPath).Int64("bytes", n).Msg("added to archive")
	return err
}
