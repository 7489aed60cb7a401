package models

// Flight is one leg of a trip. Type is "Outbound" or "Inbound".
type Flight struct {
	ID            int64    `json:"id"`
	TripID        int64    `json:"tripId"`
	Type          string   `json:"type"`
	Date          string   `json:"date"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	Departure     string   `json:"departure"`
	Arrival       string   `json:"arrival"`
	Airline       string   `json:"airline"`
	Number        string   `json:"number"`
	Participants  []string `json:"participants"`
}
