// Package cli implements the command-line interface for usms-records.
//
// The cli package provides the Cobra-based CLI with subcommands for
// scraping USMS top-ten results into CSV tables (scrape), converting
// tables to JSON documents (transform), refreshing the current year and
// republishing on change (update), regenerating and shipping JSON
// without scraping (publish), a full scrape-and-convert pass (all), and
// inspecting stored records (list). It coordinates the scraper, store,
// transform and publish packages; flag defaults are seeded from the
// loaded configuration.
package cli
