package scraper

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/usms-records/internal/logger"
	"github.com/pfrederiksen/usms-records/internal/record"
)

// ErrNoResultsBlock is returned when the page has no <pre> results block,
// which means the site layout changed or the request was rejected.
var ErrNoResultsBlock = errors.New("no results block found on page")

var (
	headerPattern = regexp.MustCompile(`<strong><u>(Men|Women)\s+(\d+-\d+)\s+(.+?)\s*</u></strong>`)
	dataPattern   = regexp.MustCompile(`^\s*(\d+)\s+([\d:]+\.\d+)\s+(.+?),\s*([MF]\d+),\s*(\w+),\s*([\w-]+),`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	linkPattern   = regexp.MustCompile(`<a\s+href="[^"]*">([^<]+)</a>`)
)

// ParseResults extracts record rows from a results page. The page carries
// its data as preformatted text inside the first <pre> element: section
// headers name the gender, age group and event, and each following line is
// one ranked swim.
func ParseResults(pageHTML string, q Query) ([]record.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return nil, ErrNoResultsBlock
	}

	inner, err := pre.Html()
	if err != nil {
		return nil, fmt.Errorf("reading results block: %w", err)
	}
	return parseLines(inner, q), nil
}

// parseLines walks the results block line by line, tracking the current
// section header and emitting a row for each ranked swim under it.
func parseLines(block string, q Query) []record.Raw {
	var records []record.Raw

	var gender, ageGroup, event string
	for _, line := range strings.Split(block, "\n") {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			if m[1] == "Men" {
				gender = "M"
			} else {
				gender = "W"
			}
			ageGroup = m[2]
			event = strings.TrimSpace(html.UnescapeString(m[3]))
			continue
		}

		clean := html.UnescapeString(tagPattern.ReplaceAllString(line, ""))
		m := dataPattern.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		// Data rows before the first header have no slot to attach to.
		if event == "" {
			continue
		}

		meet := ""
		if links := linkPattern.FindAllStringSubmatch(line, -1); len(links) >= 2 {
			meet = strings.TrimSpace(html.UnescapeString(links[1][1]))
		}

		records = append(records, record.Raw{
			Team:     q.Team,
			Event:    event,
			Course:   q.Course,
			Gender:   gender,
			AgeGroup: ageGroup,
			Time:     m[2],
			Swimmer:  strings.TrimSpace(m[3]),
			Date:     "",
			Meet:     meet,
			Year:     strconv.Itoa(q.Year),
			Rank:     m[1],
		})
	}
	return records
}

// Config holds the scrape plan: which team to query, over which years and
// courses, and how long to pause between consecutive queries.
type Config struct {
	Team     string
	LMSC     string
	Years    []int
	Courses  []string
	Delay    time.Duration
	DebugDir string
}

// Result is the outcome of one (year, course) query. Err is set when the
// fetch or parse failed; Records may be empty when the site has no data
// for the partition.
type Result struct {
	Year    int
	Course  string
	Records []record.Raw
	Err     error
}

// Scraper runs the full scrape plan against a Fetcher.
type Scraper struct {
	cfg     Config
	fetcher Fetcher
	log     *logger.Logger
}

// New creates a Scraper with the given plan and fetcher.
func New(cfg Config, fetcher Fetcher) *Scraper {
	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		log:     logger.Default(),
	}
}

// Run executes every (year, course) query in the plan and returns one
// Result per query, in plan order. A failed query is reported in its
// Result and does not stop the remaining queries. Consecutive queries are
// separated by the configured delay.
func (s *Scraper) Run(ctx context.Context) []Result {
	defer func() {
		if err := s.fetcher.Close(); err != nil {
			s.log.Warn("closing fetcher", logger.Fields{"error": err.Error()})
		}
	}()

	var results []Result
	first := true
	for _, year := range s.cfg.Years {
		for _, course := range s.cfg.Courses {
			if !first && s.cfg.Delay > 0 {
				time.Sleep(s.cfg.Delay)
			}
			first = false
			results = append(results, s.scrapeOne(ctx, year, course))
		}
	}

	s.log.Debug("run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
	return results
}

func (s *Scraper) scrapeOne(ctx context.Context, year int, course string) Result {
	res := Result{Year: year, Course: course}
	q := Query{Team: s.cfg.Team, LMSC: s.cfg.LMSC, Year: year, Course: course}

	s.log.Info("fetching results", logger.Fields{
		"team":   q.Team,
		"course": course,
		"year":   year,
	})

	start := time.Now()
	pageHTML, err := s.fetcher.Fetch(ctx, q)
	logger.RecordTiming("scrape.fetch", time.Since(start))
	logger.IncrCounter("scrape.queries", 1)
	if err != nil {
		logger.IncrCounter("scrape.failures", 1)
		s.log.Error("fetch failed", logger.Fields{"course": course, "year": year}, err)
		res.Err = fmt.Errorf("fetching %s %d: %w", course, year, err)
		return res
	}

	if s.cfg.DebugDir != "" {
		s.dumpPage(pageHTML, year, course)
	}

	records, err := ParseResults(pageHTML, q)
	if err != nil {
		logger.IncrCounter("scrape.failures", 1)
		s.log.Error("parse failed", logger.Fields{"course": course, "year": year}, err)
		res.Err = fmt.Errorf("parsing %s %d: %w", course, year, err)
		return res
	}

	logger.IncrCounter("scrape.records", int64(len(records)))
	s.log.Debug("parsed records", logger.Fields{
		"course": course,
		"year":   year,
		"count":  len(records),
	})
	res.Records = records
	return res
}

// dumpPage writes the raw page HTML for offline inspection. Failures are
// logged and ignored; debug dumps never fail a scrape.
func (s *Scraper) dumpPage(pageHTML string, year int, course string) {
	if err := os.MkdirAll(s.cfg.DebugDir, 0755); err != nil {
		s.log.Warn("creating debug dir", logger.Fields{"error": err.Error()})
		return
	}
	name := fmt.Sprintf("results_%s_%d.html", strings.ToLower(course), year)
	path := filepath.Join(s.cfg.DebugDir, name)
	if err := os.WriteFile(path, []byte(pageHTML), 0644); err != nil {
		s.log.Warn("writing debug page", logger.Fields{"path": path, "error": err.Error()})
		return
	}
	s.log.Debug("wrote debug page", logger.Fields{"path": path})
}
