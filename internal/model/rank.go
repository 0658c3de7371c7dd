package model

// HighestPointEntry is one row of the highest-point leaderboard: the tallest
// mountain a user has summited. Users with no summits rank with 0.
type HighestPointEntry struct {
	Username         string  `json:"username"`
	Nickname         string  `json:"nickname"`
	ProfileImagePath *string `json:"profileImagePath"`
	HighestPoint     int     `json:"highestPoint"`
}

// SummitedCountEntry is one row of the summit-count leaderboard.
type SummitedCountEntry struct {
	Username         string  `json:"username"`
	Nickname         string  `json:"nickname"`
	ProfileImagePath *string `json:"profileImagePath"`
	SummitedCount    int     `json:"summitedCount"`
}
