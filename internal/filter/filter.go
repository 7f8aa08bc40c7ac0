// Package filter narrows record listings by swim criteria.
//
// Filters match canonical records on course, gender, event, age group,
// year and swimmer. Course and gender inputs are normalized the same way
// records are, so "SCY" and "scy" select the same rows; event and swimmer
// criteria are substring matches.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Courses = []string{"SCY"}
//	f.Events = []string{"free"}
//	matching := f.Apply(records)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/usms-records/internal/record"
)

// Filter holds record selection criteria. Within one field the values
// are alternatives; across fields every active criterion must match.
type Filter struct {
	// Course codes, normalized before matching (scy, scm, lcm).
	Courses []string

	// Genders, normalized before matching (men, women).
	Genders []string

	// Event text, matched as a substring of the normalized event name.
	Events []string

	// Age groups, matched exactly (45-49).
	AgeGroups []string

	// Record years, matched exactly.
	Years []string

	// Swimmer names, case-insensitive substring match.
	Swimmers []string
}

// NewFilter creates an empty filter that matches every record.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter has no active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Courses) == 0 &&
		len(f.Genders) == 0 &&
		len(f.Events) == 0 &&
		len(f.AgeGroups) == 0 &&
		len(f.Years) == 0 &&
		len(f.Swimmers) == 0
}

// Matches reports whether a record passes every active criterion.
func (f *Filter) Matches(rec *record.Record) bool {
	if f.IsEmpty() {
		return true
	}

	if len(f.Courses) > 0 {
		matched := false
		for _, course := range f.Courses {
			if record.NormalizeCourse(course) == rec.Course {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Genders) > 0 {
		matched := false
		for _, gender := range f.Genders {
			if record.NormalizeGender(gender) == rec.Gender {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Events) > 0 {
		matched := false
		eventName := record.NormalizeEvent(rec.Event)
		for _, event := range f.Events {
			if strings.Contains(eventName, record.NormalizeEvent(event)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.AgeGroups) > 0 {
		matched := false
		for _, ageGroup := range f.AgeGroups {
			if strings.TrimSpace(ageGroup) == rec.AgeGroup {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Years) > 0 {
		matched := false
		for _, year := range f.Years {
			if strings.TrimSpace(year) == rec.Year {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Swimmers) > 0 {
		matched := false
		swimmerLower := strings.ToLower(rec.Swimmer)
		for _, swimmer := range f.Swimmers {
			if strings.Contains(swimmerLower, strings.ToLower(swimmer)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the records that pass the filter. An empty filter
// returns the original slice unchanged.
func (f *Filter) Apply(records []record.Record) []record.Record {
	if f.IsEmpty() {
		return records
	}

	var filtered []record.Record
	for i := range records {
		if f.Matches(&records[i]) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if len(f.Courses) > 0 {
		parts = append(parts, fmt.Sprintf("Courses: %s", strings.Join(f.Courses, ", ")))
	}
	if len(f.Genders) > 0 {
		parts = append(parts, fmt.Sprintf("Genders: %s", strings.Join(f.Genders, ", ")))
	}
	if len(f.Events) > 0 {
		parts = append(parts, fmt.Sprintf("Events: %s", strings.Join(f.Events, ", ")))
	}
	if len(f.AgeGroups) > 0 {
		parts = append(parts, fmt.Sprintf("Age groups: %s", strings.Join(f.AgeGroups, ", ")))
	}
	if len(f.Years) > 0 {
		parts = append(parts, fmt.Sprintf("Years: %s", strings.Join(f.Years, ", ")))
	}
	if len(f.Swimmers) > 0 {
		parts = append(parts, fmt.Sprintf("Swimmers: %s", strings.Join(f.Swimmers, ", ")))
	}
	return strings.Join(parts, " | ")
}
