package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestReadableSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadableSize(tt.size))
	}
}

func TestFilesWalkOrderAndSizes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), 20)
	writeFile(t, filepath.Join(root, "a.txt"), 10)
	writeFile(t, filepath.Join(root, "sub", "c.txt"), 30)

	files, err := Files(root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
		assert.Equal(t, filepath.Join(root, f.RelPath), f.Path)
	}
	assert.Equal(t, []string{"a.txt", "b.txt", filepath.Join("sub", "c.txt")}, rels)
	assert.EqualValues(t, 60, TotalSize(files))
}

func TestFilesSkip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep"), 5)
	writeFile(t, filepath.Join(root, "_root.zip"), 7)

	size, err := DirSize(root, filepath.Join(root, "_root.zip"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}

func TestFilesMissingRoot(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDirSizeEmpty(t *testing.T) {
	size, err := DirSize(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestFilesSymlinkedRoot(t *testing.T) {
	source := filepath.Join(t.TempDir(), "real")
	writeFile(t, filepath.Join(source, "a.txt"), 3)
	writeFile(t, filepath.Join(source, "sub", "b.txt"), 4)
	link := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.Symlink(source, link))

	files, err := Files(link)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(link, "a.txt"), files[0].Path)
	assert.Equal(t, filepath.Join(link, "sub", "b.txt"), files[1].Path)
	assert.Equal(t, filepath.Join("sub", "b.txt"), files[1].RelPath)
}

func TestFilesSkipThroughSymlinkedRoot(t *testing.T) {
	source := filepath.Join(t.TempDir(), "real")
	writeFile(t, filepath.Join(source, "keep"), 3)
	writeFile(t, filepath.Join(source, "_photos.zip"), 9)
	link := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.Symlink(source, link))

	size, err := DirSize(link, filepath.Join(link, "_photos.zip"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, size)
}

func TestFilesSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "outside")
	writeFile(t, filepath.Join(outside, "target.txt"), 11)
	writeFile(t, filepath.Join(outside, "nested", "hidden.txt"), 5)
	writeFile(t, filepath.Join(root, "plain.txt"), 2)
	require.NoError(t, os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "linked.txt")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "nested"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone"), filepath.Join(root, "dangling")))

	files, err := Files(root)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Equal(t, []string{"linked.txt", "plain.txt"}, rels)
	assert.EqualValues(t, 11, files[0].Size)
	assert.True(t, files[0].Info.Mode().IsRegular())
}

func TestTreeEmptyDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "full", "f.txt"), 1)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "outer", "inner"), 0o755))

	files, dirs, err := Tree(root)
	require.NoError(t, err)
	require.Len(t, files, 1)

	var rels []string
	for _, d := range dirs {
		rels = append(rels, d.RelPath)
		assert.True(t, d.Info.IsDir())
	}
	assert.Equal(t, []string{"empty", filepath.Join("outer", "inner")}, rels)
}
