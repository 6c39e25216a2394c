package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"

	units "github.com/docker/go-units"
	"github.com/rs/zerolog/log"
)

var binaryAbbrs = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}

// File is a regular file found below a walked root.
type File struct {
	// Path is the root joined with RelPath.
	Path    string
	RelPath string
	Size    int64
	Info    fs.FileInfo
}

// Files returns all regular files below root in walk order. A symlinked root is
// followed, symlinks to regular files are listed with their target's size and
// content, symlinked directories are not descended into. Paths listed in skip
// (absolute or relative to the working directory) are left out.
func Files(root string, skip ...string) ([]File, error) {
	files, _, err := Tree(root, skip...)
	return files, err
}

// Tree is Files plus the directories below root that hold no file and no
// subdirectory, i.e. the ones an archive has to record explicitly.
func Tree(root string, skip ...string) (files []File, emptyDirs []File, err error) {
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = struct{}{}
		}
	}

	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, nil, err
	}

	var dirs []File
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		display := filepath.Join(root, rel)

		if d.IsDir() {
			if rel != "." {
				info, err := d.Info()
				if err != nil {
					return err
				}
				dirs = append(dirs, File{Path: display, RelPath: rel, Info: info})
			}
			return nil
		}
		if isSkipped(skipped, path, display) {
			return nil
		}

		info, err := regularInfo(path, d)
		if err != nil {
			return err
		}
		if info == nil {
			log.Debug().Str("path", display).Msg("skipping non regular file")
			return nil
		}
		files = append(files, File{Path: display, RelPath: rel, Size: info.Size(), Info: info})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, leafDirs(dirs, files), nil
}

// regularInfo returns the FileInfo of a regular file or of the regular file a
// symlink points to, nil for anything else.
func regularInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	switch {
	case d.Type().IsRegular():
		return d.Info()
	case d.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("dangling symlink")
			return nil, nil
		}
		if info.Mode().IsRegular() {
			return info, nil
		}
	}
	return nil, nil
}

func isSkipped(skipped map[string]struct{}, paths ...string) bool {
	if len(skipped) == 0 {
		return false
	}
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			if _, ok := skipped[abs]; ok {
				return true
			}
		}
	}
	return false
}

func leafDirs(dirs []File, files []File) []File {
	occupied := make(map[string]struct{})
	mark := func(rel string) {
		for parent := filepath.Dir(rel); parent != "."; parent = filepath.Dir(parent) {
			occupied[parent] = struct{}{}
		}
	}
	for _, f := range files {
		mark(f.RelPath)
	}
	for _, d := range dirs {
		mark(d.RelPath)
	}

	var leaves []File
	for _, d := range dirs {
		if _, ok := occupied[d.RelPath]; !ok {
			leaves = append(leaves, d)
		}
	}
	return leaves
}

// BaseName is the last element of the absolute form of path, empty for a
// filesystem root.
func BaseName(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	base := filepath.Base(filepath.Clean(path))
	if base == string(filepath.Separator) || base == "." {
		return ""
	}
	return base
}

// DirSize is the sum of all regular file sizes below root.
func DirSize(root string, skip ...string) (int64, error) {
	files, err := Files(root, skip...)
	if err != nil {
		return 0, err
	}
	return TotalSize(files), nil
}

func TotalSize(files []File) (size int64) {
	for _, f := range files {
		size += f.Size
	}
	return
}

// ReadableSize renders a byte count with binary prefixes and one decimal, e.g. "1.5 KiB".
func ReadableSize(size int64) string {
	return units.CustomSize("%.1f %s", float64(size), 1024.0, binaryAbbrs)
}
