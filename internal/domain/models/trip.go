package models

// Trip dates are YYYY-MM-DD strings. Participants carries the member
// usernames (owner included) when loaded for a response.
type Trip struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	OwnerID      int64    `json:"ownerId"`
	Participants []string `json:"participants"`
}
