package handlers

import (
	"net/http"

	"travelplan/internal/domain/models"
	"travelplan/internal/repositories"
	"travelplan/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/expenses?tripId=
func GetExpenses(c *gin.Context) {
	tripID, ok := parseInt64Query(c, "tripId")
	if !ok {
		return
	}

	expenses, err := repositories.ExpenseRepository{}.ListByTrip(tripID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list expenses", err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// POST /api/expenses — upsert by id.
func CreateOrUpdateExpense(c *gin.Context) {
	var in models.Expense
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.TripID == 0 {
		respondError(c, http.StatusBadRequest, "invalid_trip_id", "tripId cannot be 0", nil)
		return
	}
	if utils.TrimOrEmpty(in.ItemName) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "itemName is required", nil)
		return
	}

	repo := repositories.ExpenseRepository{}

	if in.ID != 0 {
		existing, err := repo.GetByID(in.ID)
		if err != nil {
			if isNoRows(err) {
				respondError(c, http.StatusNotFound, "not_found", "expense not found", nil)
				return
			}
			RespondError(c, http.StatusInternalServerError, "failed to load expense", err)
			return
		}
		in.TripID = existing.TripID
		if err := repo.Update(in); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to update expense", err)
			return
		}
		c.JSON(http.StatusOK, in)
		return
	}

	id, err := repo.Insert(in)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create expense", err)
		return
	}
	in.ID = id
	c.JSON(http.StatusOK, in)
}

// DELETE /api/expenses/:id
func DeleteExpense(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	repo := repositories.ExpenseRepository{}
	if _, err := repo.GetByID(id); err != nil {
		if isNoRows(err) {
			respondError(c, http.StatusNotFound, "not_found", "expense not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load expense", err)
		return
	}

	if err := repo.Delete(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete expense", err)
		return
	}
	c.Status(http.StatusNoContent)
}
