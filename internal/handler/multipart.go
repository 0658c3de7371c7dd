package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/upload"
)

// maxMultipartMemory is how much of a multipart body is held in memory
// before spilling to disk; the per-file size ceilings are enforced by the
// stager, not here.
const maxMultipartMemory = 32 << 20

// formFiles returns the file headers of a multipart field, nil when the
// request carried none. ParseMultipartForm must have run already.
func formFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

// stageAll stages every file header through the pipeline. If any file fails
// validation, the ones already staged are discarded before returning, so the
// caller either gets a fully staged set or nothing.
func stageAll(stager *upload.Stager, headers []*multipart.FileHeader, maxBytes int64, logger *slog.Logger) ([]*upload.File, error) {
	staged := make([]*upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			upload.DiscardAll(logger, staged)
			return nil, apperror.ValidationFailed("images", "could not read uploaded file "+fh.Filename)
		}
		sf, err := stager.Stage(f, fh.Filename, maxBytes)
		f.Close()
		if err != nil {
			upload.DiscardAll(logger, staged)
			return nil, err
		}
		staged = append(staged, sf)
	}
	return staged, nil
}

// stageOne stages a single optional form file. Returns (nil, nil) when the
// field is absent.
func stageOne(r *http.Request, stager *upload.Stager, field string, maxBytes int64) (*upload.File, error) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, apperror.ValidationFailed(field, "could not read uploaded file")
	}
	defer f.Close()
	return stager.Stage(f, fh.Filename, maxBytes)
}
