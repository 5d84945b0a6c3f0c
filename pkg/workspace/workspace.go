// Package workspace bootstraps the rowscols data directory:
//
//	rows_columns_data/
//	├── csv_imports/
//	└── analysis_cache/
//
// By default the root sits next to the running executable so an install
// carries its data with it.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/ajitpratap0/rowscols/pkg/config"
	"github.com/ajitpratap0/rowscols/pkg/errors"
)

const (
	// ImportsDirName holds imported datasets
	ImportsDirName = "csv_imports"
	// CacheDirName holds computed analysis artifacts
	CacheDirName = "analysis_cache"
)

// Paths are the absolute directories of a workspace.
type Paths struct {
	Root    string `json:"root" yaml:"root"`
	Imports string `json:"imports" yaml:"imports"`
	Cache   string `json:"cache" yaml:"cache"`
}

// executable is swapped in tests.
var executable = os.Executable

// Resolve creates (or verifies) the workspace under dataDir, or under the
// executable's directory when dataDir is empty.
func Resolve(dataDir string) (*Paths, error) {
	root, err := rootDir(dataDir)
	if err != nil {
		return nil, err
	}

	p := &Paths{
		Root:    root,
		Imports: filepath.Join(root, ImportsDirName),
		Cache:   filepath.Join(root, CacheDirName),
	}
	for _, dir := range []string{p.Root, p.Imports, p.Cache} {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func rootDir(dataDir string) (string, error) {
	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return "", errors.FileSystem(err, "resolve", dataDir)
		}
		return abs, nil
	}

	exe, err := executable()
	if err != nil {
		return "", errors.FileSystem(err, "locate", "executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), config.DefaultDataDirName), nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FileSystem(err, "create directory", dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.FileSystem(err, "access", dir)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrorTypeFileSystem, "workspace path is not a directory").
			WithDetail(errors.DetailPath, dir)
	}
	return nil
}
