package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxBulkDays    = 30
	maxBulkWindows = 20
)

// TimeWindow is a time-of-day range in "HH:MM" form, applied to each
// convention day during bulk creation.
type TimeWindow struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SlotAllocator creates and destroys event slots for a convention.
type SlotAllocator struct {
	db *gorm.DB
}

func NewSlotAllocator(db *gorm.DB) *SlotAllocator {
	return &SlotAllocator{db: db}
}

// CreateSlot creates a single slot. The day number is derived from the
// slot's start date relative to the convention's start date.
func (a *SlotAllocator) CreateSlot(conventionID, locationID string, start, end time.Time) (*models.EventSlot, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidState)
	}

	var slot models.EventSlot
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var convention models.Convention
		if err := tx.First(&convention, "id = ?", conventionID).Error; err != nil {
			return wrapNotFound(err, "convention", conventionID)
		}
		var location models.Location
		if err := tx.First(&location, "id = ?", locationID).Error; err != nil {
			return wrapNotFound(err, "location", locationID)
		}
		if location.ConventionID != conventionID {
			return fmt.Errorf("%w: location %s does not belong to convention %s", ErrNotFound, locationID, conventionID)
		}

		slot = models.EventSlot{
			ID:           uuid.NewString(),
			ConventionID: conventionID,
			LocationID:   locationID,
			StartTime:    start,
			EndTime:      end,
			DayNumber:    dayNumber(convention.StartDate, start),
		}
		return tx.Create(&slot).Error
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// BulkCreate materializes the cartesian product of days, time windows
// and locations as unassigned slots. Validation happens up front and
// the insert is all-or-nothing.
func (a *SlotAllocator) BulkCreate(conventionID string, locationIDs []string, windows []TimeWindow, numberOfDays int) ([]models.EventSlot, error) {
	if numberOfDays < 1 || numberOfDays > maxBulkDays {
		return nil, fmt.Errorf("%w: number of days must be between 1 and %d", ErrInvalidState, maxBulkDays)
	}
	if len(windows) < 1 || len(windows) > maxBulkWindows {
		return nil, fmt.Errorf("%w: between 1 and %d time windows required", ErrInvalidState, maxBulkWindows)
	}
	if len(locationIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one location required", ErrInvalidState)
	}

	type window struct {
		start, end time.Duration
	}
	parsed := make([]window, 0, len(windows))
	for _, w := range windows {
		start, err := parseTimeOfDay(w.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseTimeOfDay(w.EndTime)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, fmt.Errorf("%w: end time %s must be after start time %s", ErrInvalidState, w.EndTime, w.StartTime)
		}
		parsed = append(parsed, window{start: start, end: end})
	}

	var slots []models.EventSlot
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var convention models.Convention
		if err := tx.First(&convention, "id = ?", conventionID).Error; err != nil {
			return wrapNotFound(err, "convention", conventionID)
		}

		for _, locID := range locationIDs {
			var location models.Location
			if err := tx.First(&location, "id = ? AND convention_id = ?", locID, conventionID).Error; err != nil {
				return wrapNotFound(err, "location", locID)
			}
		}

		base := convention.StartDate
		for day := 1; day <= numberOfDays; day++ {
			dayStart := base.AddDate(0, 0, day-1)
			for _, w := range parsed {
				for _, locID := range locationIDs {
					slots = append(slots, models.EventSlot{
						ID:           uuid.NewString(),
						ConventionID: conventionID,
						LocationID:   locID,
						StartTime:    dayStart.Add(w.start),
						EndTime:      dayStart.Add(w.end),
						DayNumber:    day,
					})
				}
			}
		}
		return tx.Create(&slots).Error
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// DeleteSlot removes a slot. A slot with an assigned workshop must be
// unassigned first.
func (a *SlotAllocator) DeleteSlot(id string) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var slot models.EventSlot
		if err := tx.First(&slot, "id = ?", id).Error; err != nil {
			return wrapNotFound(err, "event slot", id)
		}
		if slot.WorkshopID != nil {
			return fmt.Errorf("%w: slot %s has a scheduled workshop", ErrInvalidState, id)
		}
		return tx.Delete(&slot).Error
	})
}

// dayNumber is the 1-based calendar-date offset of the slot from the
// convention start. Dates are compared by wall clock, not absolute
// time, so two slots on the same local day always share a day number.
func dayNumber(conventionStart, slotStart time.Time) int {
	start := time.Date(conventionStart.Year(), conventionStart.Month(), conventionStart.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(slotStart.Year(), slotStart.Month(), slotStart.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(start).Hours()/24) + 1
}

func parseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrInvalidState, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidState, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidState, s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}
