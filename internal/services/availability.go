package services

import (
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"gorm.io/datatypes"
)

// AvailabilityPolicy are the calendar rules for visit booking
type AvailabilityPolicy struct {
	RestDay       time.Weekday
	DailyCapacity int
	WindowDays    int
}

// AvailableDate is a bookable day and its free slots
type AvailableDate struct {
	Date           string `json:"date"`
	AvailableSlots int    `json:"available_slots"`
}

// ComputeAvailability walks [today, today+WindowDays] and reports each day
// that is not the rest day and still has capacity. booked maps YYYY-MM-DD
// to the number of active visits on that day.
func ComputeAvailability(today datatypes.Date, booked map[string]int, policy AvailabilityPolicy) []AvailableDate {
	out := []AvailableDate{}
	start := time.Time(models.DateOf(time.Time(today)))

	for i := 0; i <= policy.WindowDays; i++ {
		day := start.AddDate(0, 0, i)
		if day.Weekday() == policy.RestDay {
			continue
		}
		key := day.Format(models.DateLayout)
		slots := policy.DailyCapacity - booked[key]
		if slots <= 0 {
			continue
		}
		out = append(out, AvailableDate{Date: key, AvailableSlots: slots})
	}
	return out
}
