package lifts

import (
	"errors"
	"math"
	"sort"
	"time"
)

const (
	SetTypeNormal = "NORMAL_SET"

	// entries logged before this year are dropped on import
	firstTrackedYear = 2024
)

var (
	ErrNoData          = errors.New("workout log is empty")
	ErrNotEnoughData   = errors.New("not enough sessions for a prediction")
	ErrInvalidCSV      = errors.New("csv has no usable entries")
	ErrInvalidEntry    = errors.New("invalid entry")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Entry is a single logged set.
type Entry struct {
	Date     time.Time `json:"date"`
	Exercise string    `json:"exercise"`
	Weight   float64   `json:"weight"`
	Reps     int       `json:"reps"`
	SetType  string    `json:"set_type"`
	Volume   float64   `json:"volume"`
	E1RM     float64   `json:"e1rm"`
}

// NewEntry fills in the derived volume and estimated 1RM.
func NewEntry(date time.Time, exercise string, weight float64, reps int) Entry {
	return Entry{
		Date:     date,
		Exercise: exercise,
		Weight:   weight,
		Reps:     reps,
		SetType:  SetTypeNormal,
		Volume:   weight * float64(reps),
		E1RM:     EstimateOneRepMax(weight, reps),
	}
}

// EstimateOneRepMax uses the Epley formula, rounded to 2 decimals.
func EstimateOneRepMax(weight float64, reps int) float64 {
	return round2(weight * (1 + float64(reps)/30))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SortByDate keeps the relative order of same-day entries.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
