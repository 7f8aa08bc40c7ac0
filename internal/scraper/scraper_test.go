package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/usms-records/internal/record"
)

const samplePage = `<html><body>
<h2>Top Times</h2>
<pre>
<strong><u>Men 45-49 50 Y Freestyle</u></strong>
    1    26.85  Joshua McDuffie, M48, COLM, 554U-YZFEE, <a href="/meets/1">View</a> | <a href="/meets/1/results">Spring Open</a>
    2    27.10  Lee, Brian K, M46, COLM, 554U-AAQRS, <a href="/meets/2">View</a> | <a href="/meets/2/results">Fall Classic</a>
<strong><u>Women 25-29 100 Y Backstroke</u></strong>
    1  1:02.45  Chen, Amy, F27, COLM, 554U-BBXYZ, <a href="/meets/3">View</a> | <a href="/meets/3/results">State Champs</a>
</pre>
</body></html>`

func TestParseResults(t *testing.T) {
	q := Query{Team: "COLM", LMSC: "55", Year: 2025, Course: "SCY"}
	records, err := ParseResults(samplePage, q)
	if err != nil {
		t.Fatalf("ParseResults() error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("ParseResults() returned %d records, want 3", len(records))
	}

	first := records[0]
	if first.Team != "COLM" {
		t.Errorf("team = %q, want COLM", first.Team)
	}
	if first.Event != "50 Y Freestyle" {
		t.Errorf("event = %q, want '50 Y Freestyle'", first.Event)
	}
	if first.Course != "SCY" {
		t.Errorf("course = %q, want SCY", first.Course)
	}
	if first.Gender != "M" {
		t.Errorf("gender = %q, want M", first.Gender)
	}
	if first.AgeGroup != "45-49" {
		t.Errorf("age group = %q, want 45-49", first.AgeGroup)
	}
	if first.Time != "26.85" {
		t.Errorf("time = %q, want 26.85", first.Time)
	}
	if first.Swimmer != "Joshua McDuffie" {
		t.Errorf("swimmer = %q, want 'Joshua McDuffie'", first.Swimmer)
	}
	if first.Date != "" {
		t.Errorf("date = %q, want empty", first.Date)
	}
	if first.Meet != "Spring Open" {
		t.Errorf("meet = %q, want 'Spring Open'", first.Meet)
	}
	if first.Year != "2025" {
		t.Errorf("year = %q, want 2025", first.Year)
	}
	if first.Rank != "1" {
		t.Errorf("rank = %q, want 1", first.Rank)
	}

	third := records[2]
	if third.Gender != "W" {
		t.Errorf("gender = %q, want W", third.Gender)
	}
	if third.Event != "100 Y Backstroke" {
		t.Errorf("event = %q, want '100 Y Backstroke'", third.Event)
	}
	if third.AgeGroup != "25-29" {
		t.Errorf("age group = %q, want 25-29", third.AgeGroup)
	}
	if third.Time != "1:02.45" {
		t.Errorf("time = %q, want 1:02.45", third.Time)
	}
	if third.Meet != "State Champs" {
		t.Errorf("meet = %q, want 'State Champs'", third.Meet)
	}
}

func TestParseResults_NoResultsBlock(t *testing.T) {
	page := `<html><body><p>Please select a club.</p></body></html>`
	_, err := ParseResults(page, Query{Team: "COLM", Year: 2025, Course: "SCY"})
	if !errors.Is(err, ErrNoResultsBlock) {
		t.Errorf("ParseResults() error = %v, want ErrNoResultsBlock", err)
	}
}

func TestParseResults_EmptyBlock(t *testing.T) {
	page := `<html><body><pre>
No individual times found.
</pre></body></html>`
	records, err := ParseResults(page, Query{Team: "COLM", Year: 2025, Course: "SCY"})
	if err != nil {
		t.Fatalf("ParseResults() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ParseResults() returned %d records, want 0", len(records))
	}
}

func TestParseResults_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		block     string
		wantCount int
		check     func(*testing.T, []record.Raw)
	}{
		{
			name: "data before first header is dropped",
			block: `    1    25.99  Stray, Row, M30, COLM, 554U-AAAAA, <a href="/a">View</a> | <a href="/b">Orphan Meet</a>
<strong><u>Men 30-34 50 Y Freestyle</u></strong>
    1    24.50  Doe, John, M31, COLM, 554U-BBBBB, <a href="/c">View</a> | <a href="/d">Real Meet</a>`,
			wantCount: 1,
			check: func(t *testing.T, records []record.Raw) {
				if records[0].Swimmer != "Doe, John" {
					t.Errorf("swimmer = %q, want 'Doe, John'", records[0].Swimmer)
				}
			},
		},
		{
			name: "non-matching lines are skipped",
			block: `<strong><u>Men 30-34 50 Y Freestyle</u></strong>
--- club totals follow ---

    1    24.50  Doe, John, M31, COLM, 554U-BBBBB, <a href="/c">View</a> | <a href="/d">Real Meet</a>
(end of listing)`,
			wantCount: 1,
		},
		{
			name: "single link leaves meet empty",
			block: `<strong><u>Men 30-34 50 Y Freestyle</u></strong>
    1    24.50  Doe, John, M31, COLM, 554U-BBBBB, <a href="/c">View</a>`,
			wantCount: 1,
			check: func(t *testing.T, records []record.Raw) {
				if records[0].Meet != "" {
					t.Errorf("meet = %q, want empty", records[0].Meet)
				}
			},
		},
		{
			name: "hour-long times match",
			block: `<strong><u>Women 50-54 1650 Y Freestyle</u></strong>
    1  1:02:45.67  Long, Distance, F52, COLM, 554U-CCCCC, <a href="/e">View</a> | <a href="/f">Distance Meet</a>`,
			wantCount: 1,
			check: func(t *testing.T, records []record.Raw) {
				if records[0].Time != "1:02:45.67" {
					t.Errorf("time = %q, want 1:02:45.67", records[0].Time)
				}
			},
		},
		{
			name: "entities decoded in meet names",
			block: `<strong><u>Men 30-34 50 Y Freestyle</u></strong>
    1    24.50  Doe, John, M31, COLM, 554U-BBBBB, <a href="/c">View</a> | <a href="/d">Town &amp; Country Invite</a>`,
			wantCount: 1,
			check: func(t *testing.T, records []record.Raw) {
				if records[0].Meet != "Town & Country Invite" {
					t.Errorf("meet = %q, want 'Town & Country Invite'", records[0].Meet)
				}
			},
		},
		{
			name: "header resets slot for following rows",
			block: `<strong><u>Men 30-34 50 Y Freestyle</u></strong>
    1    24.50  Doe, John, M31, COLM, 554U-BBBBB, <a href="/c">View</a> | <a href="/d">Meet A</a>
<strong><u>Women 30-34 50 Y Freestyle</u></strong>
    1    27.30  Roe, Jane, F32, COLM, 554U-DDDDD, <a href="/e">View</a> | <a href="/f">Meet B</a>`,
			wantCount: 2,
			check: func(t *testing.T, records []record.Raw) {
				if records[0].Gender != "M" || records[1].Gender != "W" {
					t.Errorf("genders = %q, %q, want M, W", records[0].Gender, records[1].Gender)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := "<html><body><pre>\n" + tt.block + "\n</pre></body></html>"
			records, err := ParseResults(page, Query{Team: "COLM", Year: 2025, Course: "SCY"})
			if err != nil {
				t.Fatalf("ParseResults() error: %v", err)
			}
			if len(records) != tt.wantCount {
				t.Fatalf("ParseResults() returned %d records, want %d", len(records), tt.wantCount)
			}
			if tt.check != nil {
				tt.check(t, records)
			}
		})
	}
}

type fakeFetcher struct {
	pages  map[string]string
	errs   map[string]error
	calls  []Query
	closed bool
}

func queryKey(course string, year int) string {
	return fmt.Sprintf("%s-%d", course, year)
}

func (f *fakeFetcher) Fetch(ctx context.Context, q Query) (string, error) {
	f.calls = append(f.calls, q)
	key := queryKey(q.Course, q.Year)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.pages[key], nil
}

func (f *fakeFetcher) Close() error {
	f.closed = true
	return nil
}

func TestScraper_Run(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			queryKey("SCY", 2024): samplePage,
			queryKey("LCM", 2024): samplePage,
			queryKey("SCY", 2025): samplePage,
		},
		errs: map[string]error{
			queryKey("LCM", 2025): errors.New("connection refused"),
		},
	}

	s := New(Config{
		Team:    "COLM",
		LMSC:    "55",
		Years:   []int{2024, 2025},
		Courses: []string{"SCY", "LCM"},
	}, fetcher)

	results := s.Run(context.Background())

	if len(results) != 4 {
		t.Fatalf("Run() returned %d results, want 4", len(results))
	}

	wantOrder := []string{
		queryKey("SCY", 2024),
		queryKey("LCM", 2024),
		queryKey("SCY", 2025),
		queryKey("LCM", 2025),
	}
	for i, want := range wantOrder {
		got := queryKey(results[i].Course, results[i].Year)
		if got != want {
			t.Errorf("result %d = %s, want %s", i, got, want)
		}
	}

	for i, res := range results[:3] {
		if res.Err != nil {
			t.Errorf("result %d unexpected error: %v", i, res.Err)
		}
		if len(res.Records) != 3 {
			t.Errorf("result %d has %d records, want 3", i, len(res.Records))
		}
	}

	failed := results[3]
	if failed.Err == nil {
		t.Error("failed query should carry an error")
	}
	if !strings.Contains(fmt.Sprint(failed.Err), "connection refused") {
		t.Errorf("error = %v, should mention the fetch failure", failed.Err)
	}
	if len(failed.Records) != 0 {
		t.Errorf("failed query has %d records, want 0", len(failed.Records))
	}

	if !fetcher.closed {
		t.Error("fetcher was not closed after Run")
	}
	if len(fetcher.calls) != 4 {
		t.Errorf("fetcher saw %d calls, want 4", len(fetcher.calls))
	}
}

func TestScraper_Run_ParseFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			queryKey("SCY", 2025): "<html><body>layout changed</body></html>",
		},
	}

	s := New(Config{
		Team:    "COLM",
		Years:   []int{2025},
		Courses: []string{"SCY"},
	}, fetcher)

	results := s.Run(context.Background())
	if len(results) != 1 {
		t.Fatalf("Run() returned %d results, want 1", len(results))
	}
	if !errors.Is(results[0].Err, ErrNoResultsBlock) {
		t.Errorf("error = %v, want ErrNoResultsBlock", results[0].Err)
	}
}

func TestScraper_Run_DebugDir(t *testing.T) {
	debugDir := t.TempDir()
	fetcher := &fakeFetcher{
		pages: map[string]string{
			queryKey("SCY", 2025): samplePage,
		},
	}

	s := New(Config{
		Team:     "COLM",
		Years:    []int{2025},
		Courses:  []string{"SCY"},
		DebugDir: debugDir,
	}, fetcher)

	s.Run(context.Background())

	path := filepath.Join(debugDir, "results_scy_2025.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("debug page not written: %v", err)
	}
	if string(data) != samplePage {
		t.Error("debug page does not match fetched HTML")
	}
}
