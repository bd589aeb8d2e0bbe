package domain

// ActiveGame is one row of the CMS-managed active game list. The pipeline
// treats it as read-only input at the start of each assembly cycle.
type ActiveGame struct {
	UniverseID   int64  `json:"universeId"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	IsFeatured   bool   `json:"isFeatured"`
	DisplayOrder int    `json:"displayOrder"`
}

// ActiveGroup is one row of the CMS-managed active group list.
type ActiveGroup struct {
	GroupID int64  `json:"groupId"`
	Name    string `json:"name"`
}
