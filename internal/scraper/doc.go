// Package scraper provides HTTP fetching and HTML parsing for USMS top-ten results.
//
// The scraper package queries the public toptenlocal.php results form and
// extracts team records from the <pre>-formatted leaderboard block, tracking
// running header state (gender, age group, event) as it scans lines. Fetching
// and parsing are separate stages: the Fetcher interface is the boundary to
// the external site, and ParseResults consumes whatever HTML a fetcher
// returns, so the form mechanics can change without touching the parser.
package scraper
