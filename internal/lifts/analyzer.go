package lifts

import (
	"math"
	"sort"
	"strings"
	"time"
)

const (
	predictionWeeks = 4
	heavyFactor     = 0.85
	hyperFactor     = 0.75
	seriesDateFmt   = "2006-01-02"
)

type Series struct {
	Dates  []string `json:"dates"`
	Values []int    `json:"values"`
}

type Recommendations struct {
	Heavy int `json:"heavy"`
	Hyper int `json:"hyper"`
}

// Prediction is the per-exercise progress report shown on the dashboard.
type Prediction struct {
	History    Series          `json:"history"`
	Prediction Series          `json:"prediction"`
	CurrentPR  int             `json:"current_pr"`
	NextWeekPR int             `json:"next_week_pr"`
	Rank       string          `json:"rank"`
	Recs       Recommendations `json:"recs"`
}

// Anatomy is the training volume split by muscle group; Labels and Data are parallel.
type Anatomy struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

var MuscleGroup = struct {
	Chest     string
	Legs      string
	Back      string
	Biceps    string
	Triceps   string
	Shoulders string
	Other     string
}{
	Chest:     "CHEST",
	Legs:      "LEGS",
	Back:      "BACK",
	Biceps:    "BICEPS",
	Triceps:   "TRICEPS",
	Shoulders: "SHOULDERS",
	Other:     "OTHER",
}

// checked in order, first match wins
var muscleGroupKeywords = []struct {
	group    string
	keywords []string
}{
	{MuscleGroup.Chest, []string{"bench", "fly", "push up", "press"}},
	{MuscleGroup.Legs, []string{"squat", "leg", "calf", "deadlift", "lunge"}},
	{MuscleGroup.Back, []string{"row", "pull", "chin", "lat"}},
	{MuscleGroup.Biceps, []string{"curl", "bicep"}},
	{MuscleGroup.Triceps, []string{"extension", "pushdown", "skull", "dips"}},
	{MuscleGroup.Shoulders, []string{"raise", "face pull", "shoulder"}},
}

var (
	compoundKeywords  = []string{"bench", "press", "squat", "deadlift", "row", "dips"}
	isolationKeywords = []string{"curl", "extension", "raise", "pushdown", "fly"}
)

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// MuscleGroupOf classifies an exercise by keywords in its name.
func MuscleGroupOf(exercise string) string {
	name := strings.ToLower(exercise)
	for _, mg := range muscleGroupKeywords {
		if containsAny(name, mg.keywords) {
			return mg.group
		}
	}
	return MuscleGroup.Other
}

// Rank classifies the strength level from the 1RM to bodyweight ratio.
func Rank(exercise string, oneRM, bodyweight float64) string {
	if oneRM == 0 || bodyweight == 0 {
		return "-"
	}
	ratio := oneRM / bodyweight
	name := strings.ToLower(exercise)

	switch {
	case containsAny(name, compoundKeywords):
		switch {
		case ratio < 0.8:
			return "BEGINNER"
		case ratio < 1.2:
			return "INTERMEDIATE"
		case ratio < 1.5:
			return "ADVANCED"
		default:
			return "THE PUNISHER"
		}
	case containsAny(name, isolationKeywords):
		switch {
		case ratio < 0.4:
			return "BEGINNER"
		case ratio < 0.7:
			return "INTERMEDIATE"
		default:
			return "ELITE ARMS"
		}
	default:
		return "UNRANKED"
	}
}

// ExerciseNames returns the sorted unique exercise names.
func ExerciseNames(entries []Entry) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, e := range entries {
		if seen[e.Exercise] {
			continue
		}
		seen[e.Exercise] = true
		names = append(names, e.Exercise)
	}
	sort.Strings(names)
	return names
}

// AnatomyOf sums the volume per muscle group, labels sorted alphabetically.
func AnatomyOf(entries []Entry) Anatomy {
	group2volume := make(map[string]float64)
	for _, e := range entries {
		group2volume[MuscleGroupOf(e.Exercise)] += e.Volume
	}

	anatomy := Anatomy{
		Labels: make([]string, 0, len(group2volume)),
		Data:   make([]float64, 0, len(group2volume)),
	}
	for group := range group2volume {
		anatomy.Labels = append(anatomy.Labels, group)
	}
	sort.Strings(anatomy.Labels)
	for _, group := range anatomy.Labels {
		anatomy.Data = append(anatomy.Data, group2volume[group])
	}
	return anatomy
}

// dayNumber counts whole days since the unix epoch, ignoring the time of day.
func dayNumber(t time.Time) float64 {
	y, m, d := t.Date()
	return float64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// linearFit is an ordinary least squares fit of y = intercept + slope*x.
func linearFit(xs, ys []float64) (intercept, slope float64) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX float64
	for i := range xs {
		dx := xs[i] - meanX
		cov += dx * (ys[i] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		return meanY, 0
	}
	slope = cov / varX
	return meanY - slope*meanX, slope
}

// Predict fits the estimated 1RM of the exercise over time and projects it
// for the next four weeks starting from today. Entries must be sorted by date.
func Predict(entries []Entry, exercise string, bodyweight float64, today time.Time) (*Prediction, error) {
	if len(entries) == 0 {
		return nil, ErrNoData
	}

	var sessions []Entry
	for _, e := range entries {
		if e.Exercise == exercise {
			sessions = append(sessions, e)
		}
	}
	if len(sessions) < 2 {
		return nil, ErrNotEnoughData
	}

	xs := make([]float64, len(sessions))
	ys := make([]float64, len(sessions))
	history := Series{
		Dates:  make([]string, len(sessions)),
		Values: make([]int, len(sessions)),
	}
	maxE1RM := math.Inf(-1)
	for i, s := range sessions {
		xs[i] = dayNumber(s.Date)
		ys[i] = s.E1RM
		history.Dates[i] = s.Date.Format(seriesDateFmt)
		history.Values[i] = int(math.RoundToEven(s.E1RM))
		maxE1RM = math.Max(maxE1RM, s.E1RM)
	}

	intercept, slope := linearFit(xs, ys)
	forecast := Series{
		Dates:  make([]string, predictionWeeks),
		Values: make([]int, predictionWeeks),
	}
	for week := 1; week <= predictionWeeks; week++ {
		day := today.AddDate(0, 0, 7*week)
		forecast.Dates[week-1] = day.Format(seriesDateFmt)
		forecast.Values[week-1] = int(math.RoundToEven(intercept + slope*dayNumber(day)))
	}

	currentPR := int(maxE1RM)
	target := forecast.Values[0]

	return &Prediction{
		History:    history,
		Prediction: forecast,
		CurrentPR:  currentPR,
		NextWeekPR: target,
		Rank:       Rank(exercise, float64(currentPR), bodyweight),
		Recs: Recommendations{
			Heavy: int(float64(target) * heavyFactor),
			Hyper: int(float64(target) * hyperFactor),
		},
	}, nil
}
