package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentoomaniac/filearchiver/pkg/db"
)

func parse(t *testing.T, args ...string) (*CLI, bool, string) {
	t.Helper()
	c := &CLI{}
	parser, err := newParser(c)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return c, flagSet(ctx, "directories"), ctx.Command()
}

func TestParseDefaultsToArchive(t *testing.T) {
	c, set, command := parse(t)
	assert.Equal(t, "archive", command)
	assert.False(t, set)
	assert.Empty(t, c.Archive.Directories)
	assert.Equal(t, -1, c.Archive.Compression)
}

func TestParseDirectories(t *testing.T) {
	c, set, command := parse(t, "-d", "a,b", "--directories", "c")
	assert.Equal(t, "archive", command)
	assert.True(t, set)
	assert.Equal(t, []string{"a", "b", "c"}, c.Archive.Directories)
}

func TestParseEmptyDirectories(t *testing.T) {
	c, set, _ := parse(t, "archive", "-d", "")
	assert.True(t, set)
	assert.Empty(t, nonEmpty(c.Archive.Directories))
}

func TestParseInvalidCompression(t *testing.T) {
	parser, err := newParser(&CLI{})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"-d", "x", "--compression", "12"})
	assert.Error(t, err)
}

func TestParseHistory(t *testing.T) {
	c, _, command := parse(t, "history", "--db", "runs.db", "photos")
	assert.Equal(t, "history <directory>", command)
	assert.Equal(t, "photos", c.History.Directory)
	assert.Equal(t, 20, c.History.Limit)
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, nonEmpty([]string{"", " a ", "  ", "b"}))
	assert.Empty(t, nonEmpty(nil))
}

func TestArchiveNoDirectories(t *testing.T) {
	assert.Equal(t, 1, archive(context.Background(), &Archive{Directories: []string{""}, Plain: true, NoCloud: true}))
}

func TestArchiveAndHistory(t *testing.T) {
	out := t.TempDir()
	catalog := filepath.Join(t.TempDir(), "runs.db")

	valid := filepath.Join(t.TempDir(), "valid")
	require.NoError(t, os.MkdirAll(valid, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(valid, "data.txt"), bytes.Repeat([]byte("abc"), 1000), 0o644))
	missing := filepath.Join(t.TempDir(), "missing")

	code := archive(context.Background(), &Archive{
		Directories: []string{valid, missing},
		Output:      out,
		Compression: -1,
		NoCloud:     true,
		DBPath:      catalog,
		Plain:       true,
	})
	assert.Equal(t, 1, code)
	assert.FileExists(t, filepath.Join(out, "_valid.zip"))
	assert.FileExists(t, filepath.Join(out, "_valid.md"))

	database, err := db.NewSQLLite(catalog)
	require.NoError(t, err)
	defer database.Close()
	runs, err := database.GetRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	var buf bytes.Buffer
	renderHistory(&buf, runs)
	assert.Contains(t, buf.String(), valid)
	assert.Contains(t, buf.String(), "success")
	assert.Contains(t, buf.String(), "failed")

	assert.Equal(t, 0, history(&History{DBPath: catalog, Directory: valid}))
}

func TestArchiveAllValid(t *testing.T) {
	out := t.TempDir()
	dir := filepath.Join(t.TempDir(), "ok")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("content"), 0o644))

	assert.Equal(t, 0, archive(context.Background(), &Archive{Directories: []string{dir}, Output: out, Compression: 9, NoCloud: true, Plain: true}))
}
