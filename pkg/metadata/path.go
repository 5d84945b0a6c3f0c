package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/rowscols/pkg/compression"
	"github.com/ajitpratap0/rowscols/pkg/errors"
)

// Path derives the sidecar location for source: <dir>/<stem>.<suffix>.
// A recognised compression extension is removed before the last extension,
// so data.csv.gz and data.csv share a sidecar.
func Path(source, suffix string) (string, error) {
	if source == "" {
		return "", errors.Config("source path is empty")
	}
	base := filepath.Base(source)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", errors.Config(fmt.Sprintf("cannot derive a file stem from %q", source)).
			WithDetail(errors.DetailPath, source)
	}

	stem := Stem(base)
	if stem == "" {
		return "", errors.Config(fmt.Sprintf("cannot derive a file stem from %q", source)).
			WithDetail(errors.DetailPath, source)
	}

	return filepath.Join(filepath.Dir(source), stem+"."+strings.TrimPrefix(suffix, ".")), nil
}

// Stem returns the file name without its compression and last extensions.
// A name whose only dot is the leading one is returned unchanged.
func Stem(name string) string {
	name = compression.TrimExtension(name)
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
