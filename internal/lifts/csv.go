package lifts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const csvDateLayout = "2006-01-02 15:04:05"

// export column names as exported by common workout tracking apps
var csvColumnRenames = map[string]string{
	"Title":  "exercise",
	"Date":   "date",
	"Weight": "weight",
	"Reps":   "reps",
}

var csvDateLayouts = []string{
	csvDateLayout,
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2 Jan 2006, 15:04",
	"2 Jan 2006",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02",
}

var csvHeader = []string{"date", "exercise", "weight", "reps", "set_type", "volume", "e1rm"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format: %q", s)
}

// ParseCSV reads a workout export and returns the cleaned entries, sorted by date.
// A file without the exercise/date/weight/reps columns yields no entries;
// rows with unparseable or non-positive values, or logged before 2024, are dropped.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if renamed, ok := csvColumnRenames[name]; ok {
			name = renamed
		}
		name = strings.ToLower(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	for _, required := range []string{"exercise", "date", "weight", "reps"} {
		if _, ok := columns[required]; !ok {
			log.Debugf("csv import: missing column [%s]", required)
			return []Entry{}, nil
		}
	}
	setTypeCol, hasSetType := columns["set_type"]

	field := func(record []string, col int) string {
		if col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	entries := make([]Entry, 0)
	dropped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		date, err := parseDate(field(record, columns["date"]))
		if err != nil {
			dropped++
			continue
		}
		weight, err := strconv.ParseFloat(field(record, columns["weight"]), 64)
		if err != nil {
			dropped++
			continue
		}
		reps, err := strconv.ParseFloat(field(record, columns["reps"]), 64)
		if err != nil {
			dropped++
			continue
		}
		if weight <= 0 || reps <= 0 || date.Year() < firstTrackedYear {
			dropped++
			continue
		}

		entry := NewEntry(date, field(record, columns["exercise"]), weight, int(reps))
		if hasSetType {
			if setType := field(record, setTypeCol); setType != "" {
				entry.SetType = setType
			}
		}
		entries = append(entries, entry)
	}

	SortByDate(entries)
	log.Debugf("csv import: %d entries parsed, %d rows dropped", len(entries), dropped)

	return entries, nil
}

// WriteCSV writes entries in the cleaned format ParseCSV reads back.
func WriteCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Date.Format(csvDateLayout),
			e.Exercise,
			strconv.FormatFloat(e.Weight, 'f', -1, 64),
			strconv.Itoa(e.Reps),
			e.SetType,
			strconv.FormatFloat(e.Volume, 'f', -1, 64),
			strconv.FormatFloat(e.E1RM, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
