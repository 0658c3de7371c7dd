// Package model defines the data structures used throughout the application.
package model

import "time"

// Roles a user account can hold. Admins pass every ownership check and may
// remove individual mountain pictures.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account as it is persisted in the user store.
//
// PasswordHash is part of the stored record (the JSON file is the database),
// so it carries a json tag — but it must never appear in an API response.
// Handlers only ever serialize the projection types below, which omit it.
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"` // unique, immutable after signup
	PasswordHash      string    `json:"passwordHash"`
	Nickname          string    `json:"nickname"` // display name, defaults to username
	Role              string    `json:"role"`
	Wishlist          []int     `json:"wishlist"` // mountain ids, insertion order, no duplicates
	Summited          []int     `json:"summited"` // same shape, independent of wishlist
	UploadedMountains []int     `json:"uploadedMountains"`
	ProfileImagePath  *string   `json:"profileImagePath"` // relative path under the upload dir, nil if unset
	Bio               string    `json:"bio"`
	CreatedAt         time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Profile is the caller-facing projection of a User, returned by signup,
// login, and /api/auth/me.
type Profile struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Nickname         string  `json:"nickname"`
	Role             string  `json:"role"`
	Wishlist         []int   `json:"wishlist"`
	Summited         []int   `json:"summited"`
	ProfileImagePath *string `json:"profileImagePath"`
}

// Profile builds the caller-facing projection. Nil list fields (possible in
// hand-edited or older records) come back as empty slices so clients always
// see JSON arrays.
func (u *User) Profile() Profile {
	p := Profile{
		ID:               u.ID,
		Username:         u.Username,
		Nickname:         u.Nickname,
		Role:             u.Role,
		Wishlist:         u.Wishlist,
		Summited:         u.Summited,
		ProfileImagePath: u.ProfileImagePath,
	}
	if p.Wishlist == nil {
		p.Wishlist = []int{}
	}
	if p.Summited == nil {
		p.Summited = []int{}
	}
	return p
}

// PublicProfile is what GET /api/users/{username} returns: the wishlist and
// summited id lists are populated into full mountain records.
type PublicProfile struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Nickname         string     `json:"nickname"`
	ProfileImagePath *string    `json:"profileImagePath"`
	Bio              string     `json:"bio"`
	Wishlist         []Mountain `json:"wishlistMountains"`
	Summited         []Mountain `json:"summitedMountains"`
}

// SearchUser is the minimal public projection returned by search results.
type SearchUser struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Nickname         string  `json:"nickname"`
	ProfileImagePath *string `json:"profileImagePath"`
}

// SearchUser builds the search projection for this user.
func (u *User) SearchUser() SearchUser {
	return SearchUser{
		ID:               u.ID,
		Username:         u.Username,
		Nickname:         u.Nickname,
		ProfileImagePath: u.ProfileImagePath,
	}
}
