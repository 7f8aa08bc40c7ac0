package transform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/usms-records/internal/logger"
	"github.com/pfrederiksen/usms-records/internal/record"
	"github.com/pfrederiksen/usms-records/internal/store"
)

// OutputPath returns the JSON path for a CSV table: same base name,
// .json extension, under jsonDir.
func OutputPath(jsonDir, csvPath string) string {
	base := strings.TrimSuffix(filepath.Base(csvPath), ".csv") + ".json"
	return filepath.Join(jsonDir, base)
}

// ConvertTable reads one CSV table, converts its rows to canonical
// records, and writes them to jsonPath. Rows that fail validation are
// logged and dropped, never fatal.
func ConvertTable(csvPath, jsonPath string, pretty bool) ([]record.Record, error) {
	rows, err := store.ReadTable(csvPath)
	if err != nil {
		return nil, err
	}

	docs := make([]record.Record, 0, len(rows))
	for _, raw := range rows {
		doc, err := record.New(raw)
		if err != nil {
			logger.Warn("skipping record", logger.Fields{
				"table":   filepath.Base(csvPath),
				"event":   raw.Event,
				"swimmer": raw.Swimmer,
				"reason":  err.Error(),
			})
			logger.IncrCounter("transform.skipped", 1)
			continue
		}
		docs = append(docs, *doc)
	}
	logger.IncrCounter("transform.records", int64(len(docs)))

	if err := store.WriteJSON(docs, jsonPath, pretty); err != nil {
		return nil, fmt.Errorf("writing %s: %w", jsonPath, err)
	}
	return docs, nil
}

// ConvertAll converts every listed table into jsonDir and, when
// combinedPath is set, writes all records together as one array.
func ConvertAll(csvPaths []string, jsonDir, combinedPath string, pretty bool) ([]record.Record, error) {
	var all []record.Record
	for _, csvPath := range csvPaths {
		docs, err := ConvertTable(csvPath, OutputPath(jsonDir, csvPath), pretty)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", csvPath, err)
		}
		logger.Debug("converted table", logger.Fields{
			"table": filepath.Base(csvPath),
			"count": len(docs),
		})
		all = append(all, docs...)
	}

	if combinedPath != "" {
		if err := store.WriteJSON(all, combinedPath, pretty); err != nil {
			return nil, fmt.Errorf("writing combined output: %w", err)
		}
	}
	return all, nil
}
