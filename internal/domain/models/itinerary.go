package models

// ItineraryItem is a single scheduled stop. Temperature and WeatherIcon are
// filled at read time and never persisted.
type ItineraryItem struct {
	ID           int64    `json:"id"`
	TripID       int64    `json:"tripId"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Location     string   `json:"location"`
	Note         string   `json:"note"`
	Participants []string `json:"participants"`

	Temperature string `json:"temperature,omitempty"`
	WeatherIcon string `json:"weatherIcon,omitempty"`
}
