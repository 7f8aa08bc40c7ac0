package record

import (
	"fmt"
	"strings"
)

// Columns is the header row shared by every records CSV table. The scraper
// writes tables in this order and the store reads them back in this order.
var Columns = []string{
	"team", "event", "course", "gender", "age_group",
	"time", "swimmer", "date", "meet", "year", "rank",
}

// Raw is a single leaderboard row exactly as scraped, before normalization.
// All fields are strings; course and gender keep their source forms
// ("SCY", "M") until transform time. Date is usually empty because the
// results page does not carry swim dates.
type Raw struct {
	Team     string `json:"team"`
	Event    string `json:"event"`
	Course   string `json:"course"`
	Gender   string `json:"gender"`
	AgeGroup string `json:"age_group"`
	Time     string `json:"time"`
	Swimmer  string `json:"swimmer"`
	Date     string `json:"date,omitempty"`
	Meet     string `json:"meet,omitempty"`
	Year     string `json:"year"`
	Rank     string `json:"rank"`
}

// Fields returns the row values in Columns order.
func (r Raw) Fields() []string {
	return []string{
		r.Team, r.Event, r.Course, r.Gender, r.AgeGroup,
		r.Time, r.Swimmer, r.Date, r.Meet, r.Year, r.Rank,
	}
}

// RawFromFields builds a Raw from a CSV row in Columns order.
func RawFromFields(fields []string) (Raw, error) {
	if len(fields) < len(Columns) {
		return Raw{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(fields))
	}
	return Raw{
		Team:     fields[0],
		Event:    fields[1],
		Course:   fields[2],
		Gender:   fields[3],
		AgeGroup: fields[4],
		Time:     fields[5],
		Swimmer:  fields[6],
		Date:     fields[7],
		Meet:     fields[8],
		Year:     fields[9],
		Rank:     fields[10],
	}, nil
}

// Record is the canonical, normalized form of a team record as published to
// the website and the Firestore import bundle. Field order matches the
// published JSON document order.
type Record struct {
	ID            string  `json:"id"`
	Team          string  `json:"team"`
	Event         string  `json:"event"`
	Course        string  `json:"course"`
	Gender        string  `json:"gender"`
	AgeGroup      string  `json:"ageGroup"`
	Time          string  `json:"time"`
	TimeInSeconds float64 `json:"timeInSeconds"`
	Swimmer       string  `json:"swimmer"`
	Date          string  `json:"date"`
	Meet          string  `json:"meet"`
	Year          string  `json:"year"`
}

// DocumentID creates a deterministic document ID from a record's stable slot.
// The same team, event, course, gender, and age group always map to the same
// ID, so a faster swim overwrites the previous record in keyed outputs.
func DocumentID(team, event, course, gender, ageGroup string) string {
	eventSlug := strings.ToLower(event)
	eventSlug = strings.ReplaceAll(eventSlug, " ", "_")
	eventSlug = strings.ReplaceAll(eventSlug, "-", "_")

	ageSlug := strings.ReplaceAll(ageGroup, "-", "_")
	ageSlug = strings.ReplaceAll(ageSlug, "+", "plus")

	return team + "_" + eventSlug + "_" + course + "_" + gender + "_" + ageSlug
}

// New normalizes and validates a raw row into a canonical Record.
// The team code is uppercased, course and gender are normalized, and the
// swim time is parsed to seconds. Rows missing a required field or carrying
// an unparseable time are rejected with an error describing the problem.
func New(raw Raw) (*Record, error) {
	team := strings.ToUpper(strings.TrimSpace(raw.Team))
	event := strings.TrimSpace(raw.Event)
	course := NormalizeCourse(raw.Course)
	gender := NormalizeGender(raw.Gender)
	ageGroup := strings.TrimSpace(raw.AgeGroup)
	timeStr := strings.TrimSpace(raw.Time)
	swimmer := strings.TrimSpace(raw.Swimmer)

	required := []struct {
		name, value string
	}{
		{"team", team},
		{"event", event},
		{"course", course},
		{"gender", gender},
		{"age_group", ageGroup},
		{"time", timeStr},
		{"swimmer", swimmer},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, fmt.Errorf("missing required field %s", f.name)
		}
	}

	seconds := ParseTimeToSeconds(timeStr)
	if seconds <= 0 {
		return nil, fmt.Errorf("invalid time %q", timeStr)
	}

	return &Record{
		ID:            DocumentID(team, event, course, gender, ageGroup),
		Team:          team,
		Event:         event,
		Course:        course,
		Gender:        gender,
		AgeGroup:      ageGroup,
		Time:          timeStr,
		TimeInSeconds: seconds,
		Swimmer:       swimmer,
		Date:          strings.TrimSpace(raw.Date),
		Meet:          strings.TrimSpace(raw.Meet),
		Year:          strings.TrimSpace(raw.Year),
	}, nil
}
