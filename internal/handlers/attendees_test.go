package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/google/uuid"
)

func TestAttendeeSelections(t *testing.T) {
	f := newFixture(t)
	handler := NewAttendeeHandler(f.db, f.auth)
	ctx := context.Background()

	start := f.convention.StartDate.Add(9 * time.Hour)
	slot := f.newSlot(t, start, start.Add(90*time.Minute))
	workshop := f.newHostedWorkshop(t, "Low Washing Machines", 2)
	if err := f.db.Model(&slot).Update("workshop_id", workshop.ID).Error; err != nil {
		t.Fatalf("failed to bind slot: %v", err)
	}

	input := &CreateSelectionInput{}
	input.Cookie = f.attendeeCookie
	input.Body.WorkshopID = workshop.ID
	input.Body.EventSlotID = slot.ID
	input.Body.CommitmentLevel = models.CommitmentInterested

	out, err := handler.HandleCreateSelection(ctx, input)
	if err != nil {
		t.Fatalf("HandleCreateSelection returned error: %v", err)
	}
	if out.Body.CommitmentLevel != models.CommitmentInterested {
		t.Errorf("expected interested selection, got %s", out.Body.CommitmentLevel)
	}

	t.Run("DuplicateTriple", func(t *testing.T) {
		_, err := handler.HandleCreateSelection(ctx, input)
		wantStatus(t, err, http.StatusConflict)
	})

	t.Run("WorkshopNotInSlot", func(t *testing.T) {
		other := f.newHostedWorkshop(t, "Icarian Games", 5)
		taken := f.newSlot(t, start.Add(3*time.Hour), start.Add(4*time.Hour))
		if err := f.db.Model(&taken).Update("workshop_id", other.ID).Error; err != nil {
			t.Fatalf("failed to bind slot: %v", err)
		}
		bad := *input
		bad.Body.EventSlotID = taken.ID
		_, err := handler.HandleCreateSelection(ctx, &bad)
		wantStatus(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("UpdateOwnSelection", func(t *testing.T) {
		update := &UpdateSelectionInput{ID: out.Body.ID}
		update.Cookie = f.attendeeCookie
		update.Body.CommitmentLevel = models.CommitmentMaybe
		updated, err := handler.HandleUpdateSelection(ctx, update)
		if err != nil {
			t.Fatalf("HandleUpdateSelection returned error: %v", err)
		}
		if updated.Body.CommitmentLevel != models.CommitmentMaybe {
			t.Errorf("expected maybe, got %s", updated.Body.CommitmentLevel)
		}
	})

	t.Run("ForeignSelectionForbidden", func(t *testing.T) {
		otherUser := models.User{ID: uuid.NewString(), Email: "second@example.com", Name: "second"}
		mustCreate(t, f.db, &otherUser)
		mustCreate(t, f.db, &models.Attendee{ID: uuid.NewString(), UserID: otherUser.ID, ConventionID: &f.convention.ID})

		del := &DeleteSelectionInput{ID: out.Body.ID}
		del.Cookie = cookieFor(t, f.auth, otherUser.ID)
		_, err := handler.HandleDeleteSelection(ctx, del)
		wantStatus(t, err, http.StatusForbidden)
	})

	t.Run("DeleteOwnSelection", func(t *testing.T) {
		del := &DeleteSelectionInput{ID: out.Body.ID}
		del.Cookie = f.attendeeCookie
		if _, err := handler.HandleDeleteSelection(ctx, del); err != nil {
			t.Fatalf("HandleDeleteSelection returned error: %v", err)
		}
	})
}

func TestAttendeeCommit(t *testing.T) {
	f := newFixture(t)
	handler := NewAttendeeHandler(f.db, f.auth)
	ctx := context.Background()

	start := f.convention.StartDate.Add(9 * time.Hour)
	slot := f.newSlot(t, start, start.Add(time.Hour))
	workshop := f.newHostedWorkshop(t, "Standing Acrobatics", 1)
	if err := f.db.Model(&slot).Update("workshop_id", workshop.ID).Error; err != nil {
		t.Fatalf("failed to bind slot: %v", err)
	}

	commit := &CommitInput{WorkshopID: workshop.ID, EventSlotID: slot.ID}
	commit.Cookie = f.attendeeCookie
	out, err := handler.HandleCommit(ctx, commit)
	if err != nil {
		t.Fatalf("HandleCommit returned error: %v", err)
	}
	if out.Body.CommitmentLevel != models.CommitmentCommitted {
		t.Errorf("expected committed, got %s", out.Body.CommitmentLevel)
	}

	t.Run("RepeatCommitConflicts", func(t *testing.T) {
		_, err := handler.HandleCommit(ctx, commit)
		wantStatus(t, err, http.StatusConflict)
	})

	t.Run("FullWorkshopRejectsNextCommit", func(t *testing.T) {
		otherUser := models.User{ID: uuid.NewString(), Email: "late@example.com", Name: "late"}
		mustCreate(t, f.db, &otherUser)
		mustCreate(t, f.db, &models.Attendee{ID: uuid.NewString(), UserID: otherUser.ID, ConventionID: &f.convention.ID})

		late := &CommitInput{WorkshopID: workshop.ID, EventSlotID: slot.ID}
		late.Cookie = cookieFor(t, f.auth, otherUser.ID)
		_, err := handler.HandleCommit(ctx, late)
		wantStatus(t, err, http.StatusConflict)
	})
}

func TestAttendeeSchedule(t *testing.T) {
	f := newFixture(t)
	handler := NewAttendeeHandler(f.db, f.auth)
	ctx := context.Background()

	start := f.convention.StartDate.Add(9 * time.Hour)
	for i, level := range []models.CommitmentLevel{
		models.CommitmentCommitted, models.CommitmentMaybe, models.CommitmentMaybe, models.CommitmentInterested,
	} {
		slotStart := start.Add(time.Duration(i*2) * time.Hour)
		slot := f.newSlot(t, slotStart, slotStart.Add(time.Hour))
		workshop := f.newHostedWorkshop(t, "Workshop "+slot.ID[:8], 10)
		mustCreate(t, f.db, &models.Selection{
			ID:              uuid.NewString(),
			AttendeeID:      f.attendee.ID,
			WorkshopID:      workshop.ID,
			EventSlotID:     &slot.ID,
			CommitmentLevel: level,
		})
	}

	input := &ScheduleInput{}
	input.Cookie = f.attendeeCookie
	out, err := handler.HandleSchedule(ctx, input)
	if err != nil {
		t.Fatalf("HandleSchedule returned error: %v", err)
	}
	if len(out.Body.Selections) != 4 {
		t.Errorf("expected 4 selections, got %d", len(out.Body.Selections))
	}
	if out.Body.CommittedCount != 1 || out.Body.MaybeCount != 2 || out.Body.InterestedCount != 1 {
		t.Errorf("unexpected counts: committed=%d maybe=%d interested=%d",
			out.Body.CommittedCount, out.Body.MaybeCount, out.Body.InterestedCount)
	}
}

func TestAttendeeFulfillable(t *testing.T) {
	f := newFixture(t)
	handler := NewAttendeeHandler(f.db, f.auth)
	ctx := context.Background()

	cartwheel := models.Capability{ID: uuid.NewString(), Name: "Cartwheel"}
	mustCreate(t, f.db, &cartwheel)
	basics := f.newHostedWorkshop(t, "Cartwheel", 10)
	advanced := f.newHostedWorkshop(t, "Aerial Cartwheel", 10, cartwheel.ID)
	open := f.newHostedWorkshop(t, "Open Training", 10)

	input := &FulfillableInput{}
	input.Cookie = f.attendeeCookie

	out, err := handler.HandleFulfillable(ctx, input)
	if err != nil {
		t.Fatalf("HandleFulfillable returned error: %v", err)
	}
	if containsWorkshop(out.Body, advanced.ID) {
		t.Errorf("advanced workshop should require the cartwheel capability")
	}
	if !containsWorkshop(out.Body, open.ID) {
		t.Errorf("workshop without prerequisites should always be fulfillable")
	}

	mustCreate(t, f.db, &models.Selection{
		ID:              uuid.NewString(),
		AttendeeID:      f.attendee.ID,
		WorkshopID:      basics.ID,
		CommitmentLevel: models.CommitmentCommitted,
	})

	out, err = handler.HandleFulfillable(ctx, input)
	if err != nil {
		t.Fatalf("HandleFulfillable returned error: %v", err)
	}
	if !containsWorkshop(out.Body, advanced.ID) {
		t.Errorf("committing to %q should unlock the advanced workshop", basics.Name)
	}
}

func containsWorkshop(workshops []models.Workshop, id string) bool {
	for _, w := range workshops {
		if w.ID == id {
			return true
		}
	}
	return false
}
