package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicktill/heartbridge/pkg/health"
)

var errUnsafeName = errors.New("export name must be a plain file name")

// BuildPath returns where an export named base should be written. With no
// directory the path is relative to the working directory. A missing
// directory is created (one level only); an existing non-directory is an error.
// base must be a plain file name that does not start with a dot.
func BuildPath(base, dir, ext string) (string, error) {
	if base == "" || filepath.Base(base) != base || strings.ContainsAny(base, `/\`) || strings.HasPrefix(base, ".") {
		return "", health.NewExportError("build path", base, errUnsafeName)
	}
	name := base + "." + ext
	if dir == "" {
		return name, nil
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", health.NewExportError("prepare directory", dir, fmt.Errorf("path exists but is not a directory"))
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Mkdir(dir, 0o755); err != nil {
			return "", health.NewExportError("create directory", dir, err)
		}
	default:
		return "", health.NewExportError("stat directory", dir, err)
	}

	return filepath.Join(dir, name), nil
}
