// Package service contains the business logic layer.
//
// Handlers parse HTTP and hand primitives down; services validate, enforce
// ownership, and orchestrate the stores and the upload pipeline; the stores
// do the file I/O. Services return domain errors from the apperror package
// and never see a status code.
//
// One rule holds everywhere: the authenticated caller arrives as an id only.
// The id was resolved from the token by the middleware, but any user record
// fetched at that point could be stale by the time a mutation runs, so every
// method re-fetches the authoritative record from the store before using or
// mutating it.
package service

import (
	"errors"
	"log/slog"
	"os"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
	"github.com/tahmid/peakbook/internal/upload"
)

// pfpURL and mountainImageURL build the URL-relative paths stored in records.
// These are fixed regardless of where the upload directory lives on disk; the
// static routes serve exactly these prefixes.
func pfpURL(name string) string {
	return upload.URLPrefix + "/pfp/" + name
}

func mountainImageURL(name string) string {
	return upload.URLPrefix + "/mountains/" + name
}

// resolveCaller re-reads the caller's record from the store. A token whose
// subject no longer resolves to a user (deleted account) is an
// authentication failure, not a 404 — but a logically distinct one from a
// bad token, which surfaces as auth.ErrInvalidToken before any service runs.
func resolveCaller(users *store.Users, id string) (*model.User, error) {
	caller, err := users.FindByID(id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("account no longer exists")
		}
		return nil, err
	}
	return caller, nil
}

// requireOwnerOrAdmin permits the operation when the caller is an admin or
// owns the resource; anyone else gets Forbidden, never Unauthenticated.
func requireOwnerOrAdmin(caller *model.User, ownerUsername, action string) error {
	if caller.IsAdmin() || caller.Username == ownerUsername {
		return nil
	}
	return apperror.Forbidden("not authorized to " + action)
}

// requireAdmin gates admin-only operations.
func requireAdmin(caller *model.User) error {
	if caller.IsAdmin() {
		return nil
	}
	return apperror.Forbidden("admin role required")
}

// removeFiles purges committed image files best-effort: a record deletion
// that succeeded must not fail the request because a file was already gone.
// paths are the URL-relative form from records, resolved through root.
func removeFiles(logger *slog.Logger, root *upload.Root, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(root.Resolve(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove image file",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}
