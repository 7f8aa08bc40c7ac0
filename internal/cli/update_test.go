package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/usms-records/internal/record"
	"github.com/pfrederiksen/usms-records/internal/scraper"
	"github.com/pfrederiksen/usms-records/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return st
}

func rawRow(event, ageGroup, rank, timeStr, swimmer, meet string) record.Raw {
	return record.Raw{
		Team: "COLM", Event: event, Course: "SCY", Gender: "M",
		AgeGroup: ageGroup, Time: timeStr, Swimmer: swimmer, Meet: meet,
		Year: "2025", Rank: rank,
	}
}

func TestApplyResults_FirstRun(t *testing.T) {
	st := newTestStore(t)
	fresh := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.85", "Joshua McDuffie", "Spring Open"),
		rawRow("50 Y Freestyle", "45-49", "2", "27.10", "Lee, Brian", "Spring Open"),
	}

	report, err := applyResults(st, "COLM", 2025, []scraper.Result{
		{Year: 2025, Course: "SCY", Records: fresh},
	})
	if err != nil {
		t.Fatalf("applyResults() error: %v", err)
	}

	if !report.Changed {
		t.Error("first run should report changes")
	}
	if len(report.Partitions) != 1 {
		t.Fatalf("report has %d partitions, want 1", len(report.Partitions))
	}
	part := report.Partitions[0]
	if !part.Changed || len(part.Added) != 2 || len(part.Updated) != 0 || part.Removed != 0 {
		t.Errorf("partition = %+v, want 2 added only", part)
	}

	stored, err := st.Load("COLM", "SCY", "2025")
	if err != nil {
		t.Fatalf("loading table: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored %d rows, want 2", len(stored))
	}
}

func TestApplyResults_NoChanges(t *testing.T) {
	st := newTestStore(t)
	rows := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.85", "Joshua McDuffie", "Spring Open"),
	}
	if err := st.Save("COLM", "SCY", "2025", rows); err != nil {
		t.Fatalf("seeding table: %v", err)
	}

	report, err := applyResults(st, "COLM", 2025, []scraper.Result{
		{Year: 2025, Course: "SCY", Records: rows},
	})
	if err != nil {
		t.Fatalf("applyResults() error: %v", err)
	}

	if report.Changed {
		t.Error("identical results should be a no-op")
	}
	if report.Partitions[0].Changed {
		t.Error("partition should be unchanged")
	}
}

func TestApplyResults_UpdatedAndRemoved(t *testing.T) {
	st := newTestStore(t)
	existing := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.85", "Joshua McDuffie", "Spring Open"),
		rawRow("50 Y Freestyle", "45-49", "2", "27.10", "Lee, Brian", "Spring Open"),
	}
	if err := st.Save("COLM", "SCY", "2025", existing); err != nil {
		t.Fatalf("seeding table: %v", err)
	}

	// Rank 1 was beaten, rank 2 fell off the list.
	fresh := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.50", "New, Champion", "Fall Classic"),
	}

	report, err := applyResults(st, "COLM", 2025, []scraper.Result{
		{Year: 2025, Course: "SCY", Records: fresh},
	})
	if err != nil {
		t.Fatalf("applyResults() error: %v", err)
	}

	part := report.Partitions[0]
	if !part.Changed {
		t.Fatal("partition should have changed")
	}
	if len(part.Added) != 0 {
		t.Errorf("added = %d, want 0", len(part.Added))
	}
	if len(part.Updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(part.Updated))
	}
	if part.Updated[0].Previous.Swimmer != "Joshua McDuffie" {
		t.Errorf("previous holder = %q, want Joshua McDuffie", part.Updated[0].Previous.Swimmer)
	}
	if part.Removed != 1 {
		t.Errorf("removed = %d, want 1", part.Removed)
	}

	stored, err := st.Load("COLM", "SCY", "2025")
	if err != nil {
		t.Fatalf("loading table: %v", err)
	}
	if len(stored) != 1 || stored[0].Swimmer != "New, Champion" {
		t.Errorf("stored table = %+v, want only the fresh row", stored)
	}
}

func TestApplyResults_SkipsFailedPartitions(t *testing.T) {
	st := newTestStore(t)
	existing := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.85", "Joshua McDuffie", "Spring Open"),
	}
	if err := st.Save("COLM", "SCY", "2025", existing); err != nil {
		t.Fatalf("seeding table: %v", err)
	}

	report, err := applyResults(st, "COLM", 2025, []scraper.Result{
		{Year: 2025, Course: "SCY", Err: errors.New("no results block found on page")},
	})
	if err != nil {
		t.Fatalf("applyResults() error: %v", err)
	}

	if report.Changed {
		t.Error("a failed partition must not count as a change")
	}
	part := report.Partitions[0]
	if !part.Skipped || !strings.Contains(part.Error, "no results block") {
		t.Errorf("partition = %+v, want skipped with error", part)
	}

	stored, err := st.Load("COLM", "SCY", "2025")
	if err != nil {
		t.Fatalf("loading table: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("failed partition wiped the table: %d rows left", len(stored))
	}
}

func TestApplyResults_EmptyFreshWipes(t *testing.T) {
	st := newTestStore(t)
	existing := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.85", "Joshua McDuffie", "Spring Open"),
	}
	if err := st.Save("COLM", "SCY", "2025", existing); err != nil {
		t.Fatalf("seeding table: %v", err)
	}

	// The page parsed fine but listed nothing; that is a real emptying.
	report, err := applyResults(st, "COLM", 2025, []scraper.Result{
		{Year: 2025, Course: "SCY", Records: nil},
	})
	if err != nil {
		t.Fatalf("applyResults() error: %v", err)
	}

	part := report.Partitions[0]
	if !part.Changed || part.Removed != 1 {
		t.Errorf("partition = %+v, want 1 removed", part)
	}

	stored, err := st.Load("COLM", "SCY", "2025")
	if err != nil {
		t.Fatalf("loading table: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("table should be empty, has %d rows", len(stored))
	}
}

func TestRegenerateOutputs(t *testing.T) {
	st := newTestStore(t)
	rows := []record.Raw{
		rawRow("50 Y Freestyle", "45-49", "1", "26.85", "Joshua McDuffie", "Spring Open"),
		rawRow("100 Y Backstroke", "45-49", "1", "1:02.45", "Lee, Brian", "Fall Classic"),
	}
	if err := st.Save("COLM", "SCY", "2025", rows); err != nil {
		t.Fatalf("seeding table: %v", err)
	}

	jsonDir := t.TempDir()
	combined, err := regenerateOutputs(st, "COLM", jsonDir, "teamRecords", true)
	if err != nil {
		t.Fatalf("regenerateOutputs() error: %v", err)
	}

	if combined != filepath.Join(jsonDir, "COLM_all_records.json") {
		t.Errorf("combined path = %q", combined)
	}
	for _, name := range []string{
		"COLM_all_records.json",
		"COLM_scy_2025_records.json",
		"COLM_firebase_import.json",
	} {
		if _, err := os.Stat(filepath.Join(jsonDir, name)); err != nil {
			t.Errorf("output %s missing: %v", name, err)
		}
	}

	data, err := os.ReadFile(combined)
	if err != nil {
		t.Fatalf("reading combined output: %v", err)
	}
	if !strings.Contains(string(data), "COLM_50_y_freestyle_scy_men_45_49") ||
		!strings.Contains(string(data), "COLM_100_y_backstroke_scy_men_45_49") {
		t.Error("combined output missing expected document IDs")
	}
}

func TestRegenerateOutputs_NoTables(t *testing.T) {
	st := newTestStore(t)
	if _, err := regenerateOutputs(st, "COLM", t.TempDir(), "teamRecords", false); err == nil {
		t.Error("regenerateOutputs() with no tables should fail")
	}
}
