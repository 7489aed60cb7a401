package services

import (
	"testing"

	"travelplan/internal/domain"
	"travelplan/internal/domain/models"
	"travelplan/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTripService(t *testing.T) (TripService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := TripService{
		Trips: repositories.TripRepository{DB: db},
		Users: repositories.UserRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func tripRow(id int64, title string, ownerID int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "start_date", "end_date", "owner_id"}).
		AddRow(id, title, "2026-04-01", "2026-04-05", ownerID)
}

func memberRows(pairs ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username"})
	for i := 0; i+1 < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1])
	}
	return rows
}

func userRows(pairs ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "google_id"})
	for i := 0; i+1 < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1], "", "")
	}
	return rows
}

func TestUpdateTrip_ReconcilesMembers(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	// current members: alice (owner), bob, carol; target: alice, carol, dora.
	// dora does not exist -> ignored; bob missing from target -> removed.
	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))
	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(2), "bob", int64(3), "carol"))
	mock.ExpectQuery("WHERE username IN").WithArgs("alice", "carol", "dora").
		WillReturnRows(userRows(int64(1), "alice", int64(3), "carol"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM trip_members").WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(3), "carol"))

	trip, err := svc.Update(7, 1, TripInput{
		Title:        "Kyoto",
		StartDate:    "2026-04-01",
		EndDate:      "2026-04-05",
		OwnerID:      1,
		Participants: []string{"alice", "carol", "dora"},
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if len(trip.Participants) != 2 || trip.Participants[0] != "alice" || trip.Participants[1] != "carol" {
		t.Fatalf("unexpected members after reconcile: %v", trip.Participants)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_OwnerKeptWhenOmitted(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	// owner alice omitted from the target list; she must not be removed.
	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))
	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(2), "bob"))
	mock.ExpectQuery("WHERE username IN").WithArgs("bob").
		WillReturnRows(userRows(int64(2), "bob"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(2), "bob"))

	trip, err := svc.Update(7, 1, TripInput{
		Title:        "Kyoto",
		StartDate:    "2026-04-01",
		EndDate:      "2026-04-05",
		OwnerID:      1,
		Participants: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if len(trip.Participants) != 2 {
		t.Fatalf("owner should remain a member, got %v", trip.Participants)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_OmittedParticipantsKeepsMembers(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	// no participants field in the payload: trip fields update, membership
	// is left exactly as it was.
	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(2), "bob"))

	trip, err := svc.Update(7, 1, TripInput{
		Title:     "Kyoto reloaded",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-05",
		OwnerID:   1,
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if len(trip.Participants) != 2 {
		t.Fatalf("membership must be untouched, got %v", trip.Participants)
	}

	// no member delete may have run
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_EmptyParticipantsClearsNonOwners(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	// an explicit empty list is a real target: everyone but the owner goes.
	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))
	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(2), "bob"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM trip_members").WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice"))

	trip, err := svc.Update(7, 1, TripInput{
		Title:        "Kyoto",
		StartDate:    "2026-04-01",
		EndDate:      "2026-04-05",
		OwnerID:      1,
		Participants: []string{},
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if len(trip.Participants) != 1 || trip.Participants[0] != "alice" {
		t.Fatalf("expected only the owner left, got %v", trip.Participants)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_EmptyTitleRejected(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))

	_, err := svc.Update(7, 1, TripInput{
		Title:     "   ",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-05",
		OwnerID:   1,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// nothing may have been written
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_MalformedDateRejected(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))

	_, err := svc.Update(7, 1, TripInput{
		Title:     "Kyoto",
		StartDate: "next tuesday",
		EndDate:   "2026-04-05",
		OwnerID:   1,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_NonOwnerForbidden(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))

	_, err := svc.Update(7, 2, TripInput{Title: "Hijack", OwnerID: 2})
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	// no mutation statements may have run
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrip_NotFound(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_date", "end_date", "owner_id"}))

	_, err := svc.Update(99, 1, TripInput{OwnerID: 1})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateTrip_OwnerUnionParticipants(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	// "ghost" resolves to nobody and is dropped; alice appears once even
	// though she is both owner and listed participant.
	mock.ExpectQuery("FROM users").WithArgs(int64(1)).
		WillReturnRows(userRows(int64(1), "alice"))
	mock.ExpectQuery("WHERE username IN").WithArgs("alice", "bob", "ghost").
		WillReturnRows(userRows(int64(1), "alice", int64(2), "bob"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT IGNORE INTO trip_members").WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT IGNORE INTO trip_members").WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM trip_members m").WithArgs(int64(7)).
		WillReturnRows(memberRows(int64(1), "alice", int64(2), "bob"))

	trip, err := svc.Create(TripInput{
		Title:        "Kyoto",
		StartDate:    "2026-04-01",
		EndDate:      "2026-04-05",
		OwnerID:      1,
		Participants: []string{"alice", "bob", "ghost"},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if trip.ID != 7 {
		t.Fatalf("unexpected trip id %d", trip.ID)
	}
	if len(trip.Participants) != 2 {
		t.Fatalf("expected members {alice, bob}, got %v", trip.Participants)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTrip_UnknownOwnerRejected(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM users").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "google_id"}))

	_, err := svc.Create(TripInput{Title: "Nowhere", OwnerID: 42})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteOrLeave_OwnerCascades(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))

	mock.ExpectBegin()
	for _, frag := range []string{
		"DELETE fp FROM flight_participants",
		"DELETE FROM flights",
		"DELETE ip FROM itinerary_participants",
		"DELETE FROM itinerary_items",
		"DELETE FROM expenses",
		"DELETE FROM trip_members",
		"DELETE FROM trips",
	} {
		mock.ExpectExec(frag).WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := svc.DeleteOrLeave(7, 1); err != nil {
		t.Fatalf("owner delete error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteOrLeave_MemberLeaves(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trip_members`).WithArgs(int64(7), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("DELETE FROM trip_members").WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.DeleteOrLeave(7, 2); err != nil {
		t.Fatalf("leave error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteOrLeave_NonMemberRejected(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips").WithArgs(int64(7)).
		WillReturnRows(tripRow(7, "Kyoto", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trip_members`).WithArgs(int64(7), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := svc.DeleteOrLeave(7, 9)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDiffMembers_OwnerNeverRemoved(t *testing.T) {
	current := []models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}
	add, remove := diffMembers(current, []string{}, nil, 1)
	if len(add) != 0 {
		t.Fatalf("unexpected additions: %v", add)
	}
	if len(remove) != 1 || remove[0] != 2 {
		t.Fatalf("expected only bob removed, got %v", remove)
	}
}

func TestDiffMembers_AddsOnlyNewResolved(t *testing.T) {
	current := []models.User{{ID: 1, Username: "alice"}}
	resolved := []models.User{{ID: 1, Username: "alice"}, {ID: 4, Username: "dave"}}
	add, remove := diffMembers(current, []string{"alice", "dave"}, resolved, 1)
	if len(add) != 1 || add[0] != 4 {
		t.Fatalf("expected only dave added, got %v", add)
	}
	if len(remove) != 0 {
		t.Fatalf("unexpected removals: %v", remove)
	}
}
