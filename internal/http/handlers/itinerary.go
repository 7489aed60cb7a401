package handlers

import (
	"math/rand"
	"net/http"
	"strconv"

	"travelplan/internal/domain/models"
	"travelplan/internal/repositories"
	"travelplan/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/itinerary?tripId=&date=2026-04-10
func GetItinerary(c *gin.Context) {
	tripID, ok := parseInt64Query(c, "tripId")
	if !ok {
		return
	}
	date := utils.NormalizeDate(c.Query("date"))

	items, err := repositories.ItineraryRepository{}.ListByTripDate(tripID, date)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list itinerary", err)
		return
	}

	// Simulated weather; swap for a real provider later.
	for i := range items {
		items[i].Temperature = strconv.Itoa(15 + rand.Intn(10))
		items[i].WeatherIcon = "fa-solid fa-cloud-sun"
	}

	c.JSON(http.StatusOK, items)
}

// POST /api/itinerary
func CreateItinerary(c *gin.Context) {
	var in models.ItineraryItem
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.TripID == 0 {
		respondError(c, http.StatusBadRequest, "invalid_trip_id", "tripId cannot be 0", nil)
		return
	}
	if utils.TrimOrEmpty(in.Location) == "" || utils.TrimOrEmpty(in.Time) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "time and location are required", nil)
		return
	}
	in.Date = utils.NormalizeDate(in.Date)

	participantIDs, err := resolveParticipantIDs(utils.CleanNames(in.Participants))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to resolve participants", err)
		return
	}

	id, err := repositories.ItineraryRepository{}.Insert(in, participantIDs)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create itinerary item", err)
		return
	}
	in.ID = id
	c.JSON(http.StatusCreated, in)
}

// PUT /api/itinerary/:id
func UpdateItinerary(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var in models.ItineraryItem
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.ID != 0 && in.ID != id {
		respondError(c, http.StatusBadRequest, "id_mismatch", "path and body id differ", nil)
		return
	}
	in.ID = id
	in.Date = utils.NormalizeDate(in.Date)

	repo := repositories.ItineraryRepository{}
	if _, err := repo.GetByID(id); err != nil {
		if isNoRows(err) {
			respondError(c, http.StatusNotFound, "not_found", "itinerary item not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load itinerary item", err)
		return
	}

	participantIDs, err := resolveParticipantIDs(utils.CleanNames(in.Participants))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to resolve participants", err)
		return
	}

	if err := repo.Update(in, participantIDs); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update itinerary item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/itinerary/:id
func DeleteItinerary(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	repo := repositories.ItineraryRepository{}
	if _, err := repo.GetByID(id); err != nil {
		if isNoRows(err) {
			respondError(c, http.StatusNotFound, "not_found", "itinerary item not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load itinerary item", err)
		return
	}

	if err := repo.Delete(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete itinerary item", err)
		return
	}
	c.Status(http.StatusNoContent)
}
