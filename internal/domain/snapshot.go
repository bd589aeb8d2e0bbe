package domain

import "time"

// Totals is the aggregate block of a snapshot. It is always derived from the
// entity and group lists and never mutated independently.
type Totals struct {
	Playing int   `json:"playing"`
	Visits  int64 `json:"visits"`
	Members int   `json:"members"`
}

// GameStat is one tracked game's upstream metrics at capture time. Values are
// built fresh every assembly cycle and never mutated in place.
type GameStat struct {
	UniverseID int64      `json:"entityId"`
	Name       string     `json:"name"`
	Playing    int        `json:"playing"`
	Visits     int64      `json:"visits"`
	Favorites  int        `json:"favorites"`
	Likes      int        `json:"likes"`
	MaxPlayers int        `json:"maxPlayers"`
	Created    *time.Time `json:"createdAt"`
	Updated    *time.Time `json:"updatedAt"`
	IsActive   bool       `json:"isActive"`
	IsPlayable bool       `json:"isPlayable"`
}

// GroupStat is one tracked community group's upstream metrics.
type GroupStat struct {
	GroupID     int64  `json:"groupId"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
	Description string `json:"description,omitempty"`
}

// GameMedia is a single thumbnail descriptor for a game.
type GameMedia struct {
	ImageURL string `json:"imageUrl"`
	State    string `json:"state,omitempty"`
}

// Snapshot is one immutable point-in-time aggregation of every tracked game
// and group. The JSON field names are the wire contract the landing page and
// admin charts depend on.
type Snapshot struct {
	CapturedAt time.Time             `json:"capturedAt"`
	Games      []GameStat            `json:"entities"`
	Groups     []GroupStat           `json:"groups"`
	Images     map[int64][]GameMedia `json:"images"`
	Totals     Totals                `json:"totals"`
	IsFallback bool                  `json:"isFallback,omitempty"`
}

// ComputeTotals derives the aggregate block from the given lists.
func ComputeTotals(games []GameStat, groups []GroupStat) Totals {
	var t Totals
	for _, g := range games {
		t.Playing += g.Playing
		t.Visits += g.Visits
	}
	for _, g := range groups {
		t.Members += g.MemberCount
	}
	return t
}

// GamePoint is one sample of a game's historical time series.
type GamePoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Playing    int       `json:"playing"`
	Visits     int64     `json:"visits"`
	MaxPlayers int       `json:"maxPlayers"`
	IsPlayable bool      `json:"isPlayable"`
}

// GroupPoint is one sample of a group's historical time series.
type GroupPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	MemberCount int       `json:"memberCount"`
	Name        string    `json:"name"`
}

// RevenuePoint is one sample of the derived per-game revenue series.
type RevenuePoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Daily      float64   `json:"dailyRevenue"`
	Hourly     float64   `json:"hourlyRevenue"`
	Cumulative float64   `json:"cumulativeRevenue"`
	Currency   string    `json:"currency"`
}
