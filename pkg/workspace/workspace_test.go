package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowscols/pkg/config"
	"github.com/ajitpratap0/rowscols/pkg/errors"
)

func TestResolveExplicitDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")

	p, err := Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, root, p.Root)
	assert.DirExists(t, p.Imports)
	assert.DirExists(t, p.Cache)

	again, err := Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestResolveNextToExecutable(t *testing.T) {
	binDir := t.TempDir()
	exe := filepath.Join(binDir, "rowscols")
	require.NoError(t, os.WriteFile(exe, nil, 0o755))

	original := executable
	executable = func() (string, error) { return exe, nil }
	t.Cleanup(func() { executable = original })

	p, err := Resolve("")
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(binDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wantRoot, config.DefaultDataDirName), p.Root)
	assert.DirExists(t, filepath.Join(p.Root, ImportsDirName))
}

func TestResolveRejectsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, CacheDirName), []byte("x"), 0o644))

	_, err := Resolve(root)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFileSystem))
}
