package services

import (
	"database/sql"
	"errors"
	"fmt"

	"travelplan/internal/domain"
	"travelplan/internal/domain/models"
	"travelplan/internal/repositories"
	"travelplan/internal/utils"
)

// TripService owns trip lifecycle and membership reconciliation.
type TripService struct {
	Trips     repositories.TripRepository
	Users     repositories.UserRepository
	RequestID string
}

// TripInput is the client payload for create and update.
type TripInput struct {
	Title        string   `json:"title"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	OwnerID      int64    `json:"ownerId"`
	Participants []string `json:"participants"`
}

// List returns trips the user owns or shares, member names attached.
func (s TripService) List(userID int64) ([]models.Trip, error) {
	trips, err := s.Trips.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range trips {
		members, err := s.Trips.ListMembers(trips[i].ID)
		if err != nil {
			return nil, err
		}
		trips[i].Participants = usernames(members)
	}
	return trips, nil
}

// Create builds the initial member set {owner} ∪ resolved participants.
// Unknown usernames are dropped silently; the owner is never duplicated.
func (s TripService) Create(in TripInput) (models.Trip, error) {
	owner, err := s.Users.GetByID(in.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.ValidationError{Field: "ownerId", Msg: "user not found"}
		}
		return models.Trip{}, err
	}

	if utils.TrimOrEmpty(in.Title) == "" {
		return models.Trip{}, domain.ValidationError{Field: "title", Msg: "required"}
	}
	startDate := utils.NormalizeDate(in.StartDate)
	endDate := utils.NormalizeDate(in.EndDate)
	if _, err := utils.ParseDate(startDate); err != nil {
		return models.Trip{}, domain.ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"}
	}
	if _, err := utils.ParseDate(endDate); err != nil {
		return models.Trip{}, domain.ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"}
	}

	resolved, err := s.Users.ResolveUsernames(utils.CleanNames(in.Participants))
	if err != nil {
		return models.Trip{}, err
	}

	memberIDs := []int64{owner.ID}
	for _, u := range resolved {
		if u.ID != owner.ID {
			memberIDs = append(memberIDs, u.ID)
		}
	}

	trip := models.Trip{
		Title:     utils.TrimOrEmpty(in.Title),
		StartDate: startDate,
		EndDate:   endDate,
		OwnerID:   owner.ID,
	}
	id, err := s.Trips.Create(trip, memberIDs)
	if err != nil {
		return models.Trip{}, err
	}
	trip.ID = id

	members, err := s.Trips.ListMembers(id)
	if err != nil {
		return models.Trip{}, err
	}
	trip.Participants = usernames(members)

	utils.LogEvent(s.RequestID, "trip", "create", fmt.Sprintf("trip_id=%d owner_id=%d members=%d", id, owner.ID, len(members)))
	return trip, nil
}

// Update edits trip fields and, when the payload carries a participants
// list, reconciles members against it. Only the owner may edit; on any
// failure nothing persists.
func (s TripService) Update(tripID, requesterID int64, in TripInput) (models.Trip, error) {
	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip"}
		}
		return models.Trip{}, err
	}
	if trip.OwnerID != requesterID {
		return models.Trip{}, domain.ForbiddenError{Msg: "only the owner can edit this trip"}
	}

	if utils.TrimOrEmpty(in.Title) == "" {
		return models.Trip{}, domain.ValidationError{Field: "title", Msg: "required"}
	}
	startDate := utils.NormalizeDate(in.StartDate)
	endDate := utils.NormalizeDate(in.EndDate)
	if _, err := utils.ParseDate(startDate); err != nil {
		return models.Trip{}, domain.ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"}
	}
	if _, err := utils.ParseDate(endDate); err != nil {
		return models.Trip{}, domain.ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"}
	}

	// A body without a participants field leaves membership alone; an
	// explicit empty list removes every non-owner.
	var addIDs, removeIDs []int64
	if in.Participants != nil {
		current, err := s.Trips.ListMembers(tripID)
		if err != nil {
			return models.Trip{}, err
		}

		target := utils.CleanNames(in.Participants)
		resolved, err := s.Users.ResolveUsernames(target)
		if err != nil {
			return models.Trip{}, err
		}
		addIDs, removeIDs = diffMembers(current, target, resolved, trip.OwnerID)
	}

	trip.Title = utils.TrimOrEmpty(in.Title)
	trip.StartDate = startDate
	trip.EndDate = endDate

	if err := s.Trips.UpdateWithMembers(trip, addIDs, removeIDs); err != nil {
		return models.Trip{}, err
	}

	members, err := s.Trips.ListMembers(tripID)
	if err != nil {
		return models.Trip{}, err
	}
	trip.Participants = usernames(members)

	utils.LogEvent(s.RequestID, "trip", "update",
		fmt.Sprintf("trip_id=%d added=%d removed=%d", tripID, len(addIDs), len(removeIDs)))
	return trip, nil
}

// DeleteOrLeave hard-deletes the trip when the owner asks, or removes just
// the caller's membership edge when a non-owner member asks.
func (s TripService) DeleteOrLeave(tripID, userID int64) error {
	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "trip"}
		}
		return err
	}

	if trip.OwnerID == userID {
		if err := s.Trips.DeleteCascade(tripID); err != nil {
			return err
		}
		utils.LogEvent(s.RequestID, "trip", "delete", fmt.Sprintf("trip_id=%d owner_id=%d", tripID, userID))
		return nil
	}

	member, err := s.Trips.IsMember(tripID, userID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ValidationError{Msg: "not a member of this trip"}
	}
	if err := s.Trips.RemoveMember(tripID, userID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "trip", "leave", fmt.Sprintf("trip_id=%d user_id=%d", tripID, userID))
	return nil
}

// diffMembers computes the membership diff on id sets collected before any
// mutation. Additions are resolved targets not yet members; removals are
// current members missing from the target names, never the owner.
func diffMembers(current []models.User, targetNames []string, resolved []models.User, ownerID int64) (addIDs, removeIDs []int64) {
	currentIDs := map[int64]bool{}
	for _, m := range current {
		currentIDs[m.ID] = true
	}

	for _, u := range resolved {
		if !currentIDs[u.ID] {
			addIDs = append(addIDs, u.ID)
		}
	}

	for _, m := range current {
		if m.ID == ownerID {
			continue
		}
		if !utils.ContainsName(targetNames, m.Username) {
			removeIDs = append(removeIDs, m.ID)
		}
	}
	return addIDs, removeIDs
}

func usernames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
