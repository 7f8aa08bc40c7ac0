// Package record provides types and functions for managing masters swim team records.
//
// The record package handles the two shapes a record takes through the pipeline:
// the raw leaderboard row exactly as scraped from the USMS results page, and the
// canonical JSON document published to the website. Each canonical record carries
// a deterministic document ID derived from its stable slot (team, event, course,
// gender, age group), enabling reliable overwrites across runs. Change detection
// between scrapes is handled by table diffing on raw rows.
package record
