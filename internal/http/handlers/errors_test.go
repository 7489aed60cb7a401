package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"travelplan/internal/domain"

	"github.com/gin-gonic/gin"
)

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRespondDomainError_SinglePayloadShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/trips/7", nil)

	RespondDomainError(c, domain.ForbiddenError{Msg: "only the owner can edit this trip"})

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	body := errorBody(t, w)
	if body["error"] != "only the owner can edit this trip" {
		t.Fatalf("unexpected error field: %v", body["error"])
	}
	if body["code"] != "forbidden" {
		t.Fatalf("unexpected code field: %v", body["code"])
	}
	if _, dup := body["message"]; dup {
		t.Fatalf("payload must not duplicate the error under a message key: %v", body)
	}
}

func TestRespondError_SharesPayloadShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/trips", nil)

	RespondError(c, http.StatusInternalServerError, "failed to list trips", errors.New("db gone"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := errorBody(t, w)
	if body["error"] != "failed to list trips" {
		t.Fatalf("unexpected error field: %v", body["error"])
	}
	if body["details"] != "db gone" {
		t.Fatalf("unexpected details field: %v", body["details"])
	}
	if _, dup := body["message"]; dup {
		t.Fatalf("payload must not duplicate the error under a message key: %v", body)
	}
}
