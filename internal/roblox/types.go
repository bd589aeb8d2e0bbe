package roblox

import "time"

// GameEntry is one game record from the games endpoint.
type GameEntry struct {
	UniverseID     int64      `json:"id"`
	RootPlaceID    int64      `json:"rootPlaceId"`
	Name           string     `json:"name"`
	Playing        int        `json:"playing"`
	Visits         int64      `json:"visits"`
	MaxPlayers     int        `json:"maxPlayers"`
	FavoritedCount int        `json:"favoritedCount"`
	Created        *time.Time `json:"created"`
	Updated        *time.Time `json:"updated"`
}

type gamesResponse struct {
	Data []GameEntry `json:"data"`
}

// VoteEntry is one game's vote counts.
type VoteEntry struct {
	UniverseID int64 `json:"id"`
	UpVotes    int   `json:"upVotes"`
	DownVotes  int   `json:"downVotes"`
}

type votesResponse struct {
	Data []VoteEntry `json:"data"`
}

// MediaEntry is one thumbnail descriptor from the thumbnails endpoint.
type MediaEntry struct {
	TargetID int64  `json:"targetId"`
	State    string `json:"state"`
	ImageURL string `json:"imageUrl"`
}

type iconsResponse struct {
	Data []MediaEntry `json:"data"`
}

// GroupEntry is the groups endpoint response body.
type GroupEntry struct {
	GroupID     int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
}
