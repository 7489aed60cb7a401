package handlers

import (
	"net/http"

	"travelplan/internal/domain/models"
	"travelplan/internal/repositories"
	"travelplan/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/flights?tripId=
func GetFlights(c *gin.Context) {
	tripID, ok := parseInt64Query(c, "tripId")
	if !ok {
		return
	}

	flights, err := repositories.FlightRepository{}.ListByTrip(tripID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list flights", err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

// POST /api/flights — upsert: id=0 inserts a new leg, otherwise the
// existing row's fields are overwritten.
func CreateOrUpdateFlight(c *gin.Context) {
	var in models.Flight
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.TripID == 0 {
		respondError(c, http.StatusBadRequest, "invalid_trip_id", "tripId cannot be 0", nil)
		return
	}
	in.Date = utils.NormalizeDate(in.Date)

	participantIDs, err := resolveParticipantIDs(utils.CleanNames(in.Participants))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to resolve participants", err)
		return
	}

	repo := repositories.FlightRepository{}

	if in.ID != 0 {
		existing, err := repo.GetByID(in.ID)
		if err != nil {
			if isNoRows(err) {
				respondError(c, http.StatusNotFound, "not_found", "flight not found", nil)
				return
			}
			RespondError(c, http.StatusInternalServerError, "failed to load flight", err)
			return
		}
		in.TripID = existing.TripID
		if err := repo.Update(in, participantIDs); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to update flight", err)
			return
		}
		names, err := repo.ListParticipants(in.ID)
		if err == nil {
			in.Participants = names
		}
		c.JSON(http.StatusOK, in)
		return
	}

	id, err := repo.Insert(in, participantIDs)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create flight", err)
		return
	}
	in.ID = id
	names, err := repo.ListParticipants(id)
	if err == nil {
		in.Participants = names
	}
	c.JSON(http.StatusOK, in)
}

// DELETE /api/flights/:id — used when a connection leg is removed.
func DeleteFlight(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	repo := repositories.FlightRepository{}
	if _, err := repo.GetByID(id); err != nil {
		if isNoRows(err) {
			respondError(c, http.StatusNotFound, "not_found", "flight not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load flight", err)
		return
	}

	if err := repo.Delete(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete flight", err)
		return
	}
	c.Status(http.StatusNoContent)
}
