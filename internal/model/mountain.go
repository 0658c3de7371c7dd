package model

import "time"

// Mountain represents one catalogued mountain.
//
// IDs are positive integers assigned as max(existing)+1 at creation and never
// reused after deletion, so gaps in the sequence are normal. Creation requires
// at least one image; individual image deletions may later empty the list.
type Mountain struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Country        string    `json:"country"`
	Description    string    `json:"description"`
	Height         int       `json:"height"` // meters, positive
	NeedsEquipment bool      `json:"needsEquipment"`
	Images         []string  `json:"images"`     // relative paths under the upload dir, ordered
	UploadedBy     string    `json:"uploadedBy"` // creator's username, immutable
	CreatedAt      time.Time `json:"createdAt"`
}
