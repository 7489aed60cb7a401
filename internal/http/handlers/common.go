package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"travelplan/internal/repositories"

	"github.com/gin-gonic/gin"
)

// RespondError sends a standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	var details any
	if err != nil {
		details = err.Error()
	}
	respondError(c, status, "", message, details)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid id", nil)
		return 0, false
	}
	return id, true
}

func parseInt64Query(c *gin.Context, key string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || v <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_"+key, key+" query param is required", nil)
		return 0, false
	}
	return v, true
}

// resolveParticipantIDs maps usernames to user ids; unknown names are
// dropped without error.
func resolveParticipantIDs(names []string) ([]int64, error) {
	users, err := repositories.UserRepository{}.ResolveUsernames(names)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
