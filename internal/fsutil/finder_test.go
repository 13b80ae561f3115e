package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.hcl"))
	touch(t, filepath.Join(dir, "sub", "b.hcl"))
	touch(t, filepath.Join(dir, "c.txt"))

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "sub", "b.hcl"),
	}, files)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(dir, "") })
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.hcl")
	b := filepath.Join(dir, "sub", "b.hcl")
	explicit := filepath.Join(dir, "grid.conf")
	touch(t, a)
	touch(t, b)
	touch(t, explicit)

	files, err := FindFiles([]string{
		dir,
		a,
		explicit,
		filepath.Join(dir, "missing"),
	}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{a, explicit, b}, files)

	files, err = FindFiles(nil, ".hcl")
	require.NoError(t, err)
	assert.Empty(t, files)
}
