package handlers

import (
	"net/http"

	"travelplan/internal/http/middleware"
	"travelplan/internal/repositories"
	"travelplan/internal/services"

	"github.com/gin-gonic/gin"
)

func tripService(c *gin.Context) services.TripService {
	return services.TripService{
		Trips:     repositories.TripRepository{},
		Users:     repositories.UserRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/trips?userId= — trips owned by or shared with the user.
func GetTrips(c *gin.Context) {
	userID, ok := parseInt64Query(c, "userId")
	if !ok {
		return
	}

	trips, err := tripService(c).List(userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list trips", err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var in services.TripInput
	if !BindJSONOrError(c, &in) {
		return
	}

	trip, err := tripService(c).Create(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// PUT /api/trips/:id — only the owner may edit; members are reconciled
// against the participants list in the body.
func UpdateTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var in services.TripInput
	if !BindJSONOrError(c, &in) {
		return
	}

	trip, err := tripService(c).Update(id, in.OwnerID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DELETE /api/trips/:id?userId= — owner deletes the trip, a member leaves it.
func DeleteTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, ok := parseInt64Query(c, "userId")
	if !ok {
		return
	}

	if err := tripService(c).DeleteOrLeave(id, userID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/trips/:id/summary — printable PDF overview.
func GetTripSummaryPDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	svc := services.DocsService{
		Trips:     repositories.TripRepository{},
		Flights:   repositories.FlightRepository{},
		Expenses:  repositories.ExpenseRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateTripSummary(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
