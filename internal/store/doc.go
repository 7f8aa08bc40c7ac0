// Package store provides CSV and JSON persistence for record tables.
//
// Each (team, course, year) partition is one CSV table named
// TEAM_course_year_records.csv, holding raw scraped rows under a fixed
// header. JSON output comes in three shapes: a plain array per table, a
// document bundle keyed by record ID for bulk imports, and a
// newline-delimited stream with one document per line.
package store
