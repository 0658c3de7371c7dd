// Package upload implements the image upload pipeline.
//
// Every uploaded file moves through two states: Staged (written to a
// temporary name in the staging directory, linked to nothing) and then either
// Committed (renamed into its permanent per-entity path) or Discarded (temp
// file deleted). Discard is a no-op after Commit, so handlers defer a
// Discard for every staged file and are guaranteed that no staged file
// survives any exit path — success, validation failure, or panic.
//
// Committed files are identified everywhere by a fixed URL-relative path
// ("uploads/mountains/3_1.png"); Root translates those to on-disk locations,
// so the configured upload directory never appears in a record or response.
//
// Validation happens before staging completes: the content must sniff as an
// image media type and must not exceed the caller's size ceiling.
package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tahmid/peakbook/internal/apperror"
)

// sniffLen is how many leading bytes http.DetectContentType needs.
const sniffLen = 512

// Stager writes incoming files into a staging directory.
type Stager struct {
	dir string
}

// NewStager creates a Stager that stages into dir. The directory is created
// lazily on first use.
func NewStager(dir string) *Stager {
	return &Stager{dir: dir}
}

// Dir returns the staging directory path.
func (s *Stager) Dir() string { return s.dir }

// Stage copies the upload into a collision-resistant temporary file and
// returns the staged handle.
//
// The first 512 bytes are sniffed and must declare an image media type;
// uploads larger than maxBytes are rejected. On any error nothing is left in
// the staging directory.
func (s *Stager) Stage(r io.Reader, filename string, maxBytes int64) (*File, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("upload: reading %s: %w", filename, err)
	}
	head = head[:n]

	if ct := http.DetectContentType(head); !strings.HasPrefix(ct, "image/") {
		return nil, apperror.ValidationFailed("images",
			fmt.Sprintf("%s is not an image (detected %s)", filename, ct))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating staging dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.dir, "staged-"+uuid.NewString()+ext)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("upload: creating staged file: %w", err)
	}

	// Copy at most one byte past the ceiling so oversize is detectable
	// without buffering the whole body.
	remaining := io.LimitReader(r, maxBytes-int64(len(head))+1)
	written, err := io.Copy(dst, io.MultiReader(strings.NewReader(string(head)), remaining))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("upload: staging %s: %w", filename, err)
	}
	if written > maxBytes {
		os.Remove(path)
		return nil, apperror.ValidationFailed("images",
			fmt.Sprintf("%s exceeds the %d byte limit", filename, maxBytes))
	}

	return &File{path: path, ext: ext}, nil
}

// File is one staged upload.
type File struct {
	path      string
	ext       string
	committed bool
}

// Path returns the current temp-file path of the staged upload.
func (f *File) Path() string { return f.path }

// Ext returns the lower-cased extension carried over from the original
// filename, dot included ("" if the original had none).
func (f *File) Ext() string { return f.ext }

// Commit renames the staged file into its permanent location under root and
// returns urlPath unchanged — the URL-relative form ("uploads/pfp/a.png") is
// what gets stored in records and served back, never the on-disk path. After
// Commit, Discard does nothing.
func (f *File) Commit(root *Root, urlPath string) (string, error) {
	if f.committed {
		return "", fmt.Errorf("upload: %s already committed", f.path)
	}

	dest := root.Resolve(urlPath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("upload: creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.Rename(f.path, dest); err != nil {
		return "", fmt.Errorf("upload: committing %s: %w", f.path, err)
	}
	f.committed = true
	return urlPath, nil
}

// Discard removes the staged temp file. Safe to call unconditionally: it is
// a no-op once the file has been committed, and an already-removed file is
// not an error.
func (f *File) Discard() error {
	if f.committed {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload: discarding %s: %w", f.path, err)
	}
	return nil
}

// DiscardAll discards every file in the slice. Cleanup failures are logged,
// never re-raised — an error unwinding a request must not be masked by a
// failed rollback.
func DiscardAll(logger *slog.Logger, files []*File) {
	for _, f := range files {
		if err := f.Discard(); err != nil {
			logger.Warn("failed to discard staged upload",
				slog.String("path", f.path),
				slog.String("error", err.Error()),
			)
		}
	}
}
