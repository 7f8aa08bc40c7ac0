// Package transform converts raw CSV tables into canonical JSON records.
//
// Conversion normalizes course, gender and team casing, computes the
// numeric time and the document ID, and drops rows that fail validation.
// Each CSV table yields a JSON file of the same base name, and a combined
// file can collect every table in one array.
package transform
