package record

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// hoursPattern matches hours:minutes:seconds times for long distance events
	hoursPattern = regexp.MustCompile(`^(\d+):(\d+):(\d+\.?\d*)`)
	// minutesPattern matches minutes:seconds times
	minutesPattern = regexp.MustCompile(`^(\d+):(\d+\.?\d*)`)
)

// ParseTimeToSeconds converts a swim time string to seconds.
//
// Handles formats:
//   - "22.45" (seconds.hundredths)
//   - "1:02.45" (minutes:seconds.hundredths)
//   - "10:02.45" (minutes:seconds.hundredths)
//   - "1:02:45.67" (hours:minutes:seconds.hundredths) for distance events
//
// The colon patterns match at the start of the string only, so trailing
// garbage is ignored ("1:02.45x" parses to 62.45). Malformed input returns
// 0.0 rather than an error; callers treat non-positive times as invalid.
func ParseTimeToSeconds(timeStr string) float64 {
	timeStr = strings.TrimSpace(timeStr)

	// Hour:min:sec.hundredths (rare, for very long events)
	if strings.Count(timeStr, ":") == 2 {
		if m := hoursPattern.FindStringSubmatch(timeStr); m != nil {
			hours, _ := strconv.Atoi(m[1])
			minutes, _ := strconv.Atoi(m[2])
			seconds, _ := strconv.ParseFloat(m[3], 64)
			return float64(hours)*3600 + float64(minutes)*60 + seconds
		}
	}

	// Min:sec.hundredths
	if strings.Contains(timeStr, ":") {
		if m := minutesPattern.FindStringSubmatch(timeStr); m != nil {
			minutes, _ := strconv.Atoi(m[1])
			seconds, _ := strconv.ParseFloat(m[2], 64)
			return float64(minutes)*60 + seconds
		}
	}

	// Just seconds
	seconds, err := strconv.ParseFloat(timeStr, 64)
	if err != nil {
		return 0.0
	}
	return seconds
}

// courseNames maps the course spellings seen in USMS pages and query
// parameters to the canonical lowercase codes used in published documents.
var courseNames = map[string]string{
	"SCY":                 "scy",
	"SHORT COURSE YARDS":  "scy",
	"YARDS":               "scy",
	"Y":                   "scy",
	"SCM":                 "scm",
	"SHORT COURSE METERS": "scm",
	"LCM":                 "lcm",
	"LONG COURSE METERS":  "lcm",
	"LONG COURSE":         "lcm",
	"LC":                  "lcm",
}

// NormalizeCourse normalizes a course code to scy, scm, or lcm.
// Unrecognized courses pass through lowercased.
func NormalizeCourse(course string) string {
	c := strings.ToUpper(strings.TrimSpace(course))
	if mapped, ok := courseNames[c]; ok {
		return mapped
	}
	return strings.ToLower(c)
}

// NormalizeGender normalizes a gender marker to "men" or "women".
// Unrecognized values pass through lowercased.
func NormalizeGender(gender string) string {
	g := strings.ToLower(strings.TrimSpace(gender))
	switch g {
	case "m", "male", "men", "man":
		return "men"
	case "f", "female", "women", "woman", "w":
		return "women"
	}
	return g
}

// eventReplacements maps stroke name spellings to their short forms.
// Replacements run in declaration order, so this is a slice rather than a map.
var eventReplacements = []struct {
	old, new string
}{
	{"free", "free"},
	{"freestyle", "free"},
	{"back", "back"},
	{"backstroke", "back"},
	{"breast", "breast"},
	{"breaststroke", "breast"},
	{"fly", "fly"},
	{"butterfly", "fly"},
	{"im", "im"},
	{"individual medley", "im"},
	{"medley", "medley"},
}

// NormalizeEvent normalizes an event name to a consistent slug form:
// lowercase, stroke names shortened, words joined with underscores.
// "50 Y Freestyle" becomes "50_y_free".
func NormalizeEvent(event string) string {
	event = strings.ToLower(strings.TrimSpace(event))

	for _, r := range eventReplacements {
		event = strings.ReplaceAll(event, r.old, r.new)
	}

	return strings.Join(strings.Fields(event), "_")
}
