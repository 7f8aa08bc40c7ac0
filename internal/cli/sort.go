package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/usms-records/internal/record"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByEvent   SortOrder = "event"
	SortByTime    SortOrder = "time"
	SortBySwimmer SortOrder = "swimmer"
)

// sortRecords sorts records in place based on the specified sort order
func sortRecords(records []record.Record, order SortOrder) {
	switch order {
	case SortByEvent:
		sort.Slice(records, func(i, j int) bool {
			ei, ej := strings.ToLower(records[i].Event), strings.ToLower(records[j].Event)
			if ei != ej {
				return ei < ej
			}
			return compareBySlot(&records[i], &records[j])
		})
	case SortByTime:
		sort.Slice(records, func(i, j int) bool {
			if records[i].TimeInSeconds != records[j].TimeInSeconds {
				return records[i].TimeInSeconds < records[j].TimeInSeconds
			}
			return compareBySlot(&records[i], &records[j])
		})
	case SortBySwimmer:
		sort.Slice(records, func(i, j int) bool {
			si, sj := strings.ToLower(records[i].Swimmer), strings.ToLower(records[j].Swimmer)
			if si != sj {
				return si < sj
			}
			return records[i].TimeInSeconds < records[j].TimeInSeconds
		})
	}
}

// compareBySlot orders records by course, gender and age group so equal
// keys group together. Returns true if record i should come before j.
func compareBySlot(i, j *record.Record) bool {
	if i.Course != j.Course {
		return i.Course < j.Course
	}
	if i.Gender != j.Gender {
		return i.Gender < j.Gender
	}
	if i.AgeGroup != j.AgeGroup {
		return i.AgeGroup < j.AgeGroup
	}
	return i.TimeInSeconds < j.TimeInSeconds
}
