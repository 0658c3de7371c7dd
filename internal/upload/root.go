package upload

import (
	"path/filepath"
	"strings"
)

// URLPrefix is the fixed first segment of every committed-file path. Records
// store paths like "uploads/mountains/3_1.png" no matter where the upload
// directory lives on disk, so the stored value doubles as the URL the static
// routes serve.
const URLPrefix = "uploads"

// Root owns the on-disk upload directory and maps the URL-relative paths
// stored in records to real file locations.
type Root struct {
	dir string
}

// NewRoot creates a Root over the given upload directory.
func NewRoot(dir string) *Root {
	return &Root{dir: dir}
}

// Dir returns the on-disk upload directory.
func (r *Root) Dir() string { return r.dir }

// Resolve maps a stored URL path ("uploads/pfp/a.png") to its location on
// disk. Paths without the URL prefix resolve relative to the upload directory
// as-is.
func (r *Root) Resolve(urlPath string) string {
	rel := strings.TrimPrefix(urlPath, URLPrefix+"/")
	return filepath.Join(r.dir, filepath.FromSlash(rel))
}
