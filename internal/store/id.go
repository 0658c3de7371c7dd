package store

import (
	"github.com/rs/xid"

	"github.com/tahmid/peakbook/internal/model"
)

// NewUserID returns a new unique user id. xids are short, sortable by
// creation time, and collision-resistant, which is exactly the contract the
// user store needs (ids are opaque strings, never reused).
func NewUserID() string {
	return xid.New().String()
}

// NextMountainID scans the existing mountains for the highest id and returns
// one past it, or 1 for an empty collection. Deleted ids are never handed out
// again, so gaps are normal.
//
// Callers must invoke this inside the mountain collection's Update closure:
// assignment is only race-free while the collection lock is held.
func NextMountainID(existing []model.Mountain) int {
	maxID := 0
	for _, m := range existing {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	return maxID + 1
}
