package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/usms-records/internal/record"
)

// Store manages the CSV tables under one data directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// TablePath returns the CSV path for one (team, course, year) partition.
func (s *Store) TablePath(team, course, year string) string {
	name := fmt.Sprintf("%s_%s_%s_records.csv", team, strings.ToLower(course), year)
	return filepath.Join(s.dir, name)
}

// Load reads the table for a partition. A missing table is an empty one.
func (s *Store) Load(team, course, year string) ([]record.Raw, error) {
	return ReadTable(s.TablePath(team, course, year))
}

// Save rewrites the table for a partition with the given rows.
func (s *Store) Save(team, course, year string, rows []record.Raw) error {
	return WriteTable(s.TablePath(team, course, year), rows)
}

// List returns the paths of every CSV table in the store, sorted by name.
func (s *Store) List() ([]string, error) {
	return ListTables(s.dir)
}

// ReadTable reads raw rows from a CSV table. A missing file yields an
// empty table, not an error.
func ReadTable(path string) ([]record.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	// First line is the header.
	rows := make([]record.Raw, 0, len(lines)-1)
	for i, fields := range lines[1:] {
		raw, err := record.RawFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filepath.Base(path), i+2, err)
		}
		rows = append(rows, raw)
	}
	return rows, nil
}

// WriteTable rewrites a CSV table with a header and the given rows,
// creating parent directories as needed.
func WriteTable(path string, rows []record.Raw) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(record.Columns); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Fields()); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// ListTables returns the paths of the CSV files in dir, sorted by name.
// A missing directory yields an empty list.
func ListTables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
