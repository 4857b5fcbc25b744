package model

// SportStatus is the lifecycle state of a catalog item.
type SportStatus string

const (
	StatusActive    SportStatus = "Active"
	StatusUpcoming  SportStatus = "Upcoming"
	StatusCompleted SportStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s SportStatus) Valid() bool {
	switch s {
	case StatusActive, StatusUpcoming, StatusCompleted:
		return true
	}
	return false
}

// SportCategory is the kind of entity a catalog item describes.
type SportCategory string

const (
	CategoryMatch  SportCategory = "Match"
	CategoryPlayer SportCategory = "Player"
	CategoryTeam   SportCategory = "Team"
)

// Valid reports whether c is one of the known categories.
func (c SportCategory) Valid() bool {
	switch c {
	case CategoryMatch, CategoryPlayer, CategoryTeam:
		return true
	}
	return false
}

// SportItem is a browsable catalog entry: a match, a player or a team.
// Image is an emoji or a URL. Date is only set for scheduled matches.
type SportItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Status      SportStatus   `json:"status"`
	Category    SportCategory `json:"category"`
	Date        string        `json:"date,omitempty"`
}
