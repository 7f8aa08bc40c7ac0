package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/usms-records/internal/record"
)

// WriteJSON writes records as a JSON array. A nil slice becomes an empty
// array, never null, so downstream consumers always see a list.
func WriteJSON(docs []record.Record, path string, pretty bool) error {
	if docs == nil {
		docs = []record.Record{}
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(docs, "", "  ")
	} else {
		data, err = json.Marshal(docs)
	}
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// WriteDocumentBundle writes records as a bulk-import bundle shaped
// {collection: {id: document}}. Records sharing an ID collapse to the
// last one written.
func WriteDocumentBundle(docs []record.Record, path, collection string) error {
	byID := make(map[string]record.Record, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	bundle := map[string]map[string]record.Record{collection: byID}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// WriteStreaming writes records as newline-delimited JSON, one compact
// document per line.
func WriteStreaming(docs []record.Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding %s: %w", doc.ID, err)
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
