package record

// SlotKey identifies a unique leaderboard slot within a table:
// one (event, course, gender, age group, rank) position.
type SlotKey struct {
	Event    string
	Course   string
	Gender   string
	AgeGroup string
	Rank     string
}

// SlotContent is the part of a row that can change while its slot stays
// the same, typically a new swim displacing the previous record holder.
type SlotContent struct {
	Time    string `json:"time"`
	Swimmer string `json:"swimmer"`
	Meet    string `json:"meet"`
}

// Slot returns the row's slot key.
func (r Raw) Slot() SlotKey {
	return SlotKey{
		Event:    r.Event,
		Course:   r.Course,
		Gender:   r.Gender,
		AgeGroup: r.AgeGroup,
		Rank:     r.Rank,
	}
}

// Content returns the row's change-detection content.
func (r Raw) Content() SlotContent {
	return SlotContent{
		Time:    r.Time,
		Swimmer: r.Swimmer,
		Meet:    r.Meet,
	}
}

// Update pairs a fresh row with the content it replaced.
type Update struct {
	Row      Raw         `json:"row"`
	Previous SlotContent `json:"previous"`
}

// DiffResult contains the results of comparing a stored table against a
// freshly scraped one.
type DiffResult struct {
	Added   []Raw    `json:"added"`
	Updated []Update `json:"updated"`
	Removed int      `json:"removed"`

	existingCount int
	freshCount    int
}

// Diff compares existing table rows against freshly scraped rows.
// Rows are matched by slot key; matched slots with different content are
// reported as updated, unmatched fresh slots as added, both in scrape
// order. Removed is a count only: slots present in the stored table but
// absent from the fresh scrape.
func Diff(existing, fresh []Raw) *DiffResult {
	result := &DiffResult{
		Added:         make([]Raw, 0),
		Updated:       make([]Update, 0),
		existingCount: len(existing),
		freshCount:    len(fresh),
	}

	existingByKey := make(map[SlotKey]SlotContent, len(existing))
	for _, r := range existing {
		existingByKey[r.Slot()] = r.Content()
	}

	freshKeys := make(map[SlotKey]struct{}, len(fresh))
	for _, r := range fresh {
		freshKeys[r.Slot()] = struct{}{}
	}

	for _, r := range fresh {
		previous, exists := existingByKey[r.Slot()]
		if !exists {
			result.Added = append(result.Added, r)
			continue
		}
		if r.Content() != previous {
			result.Updated = append(result.Updated, Update{Row: r, Previous: previous})
		}
	}

	for key := range existingByKey {
		if _, ok := freshKeys[key]; !ok {
			result.Removed++
		}
	}

	return result
}

// Unchanged reports whether the fresh scrape matches the stored table:
// nothing added, nothing updated, and the same number of rows. An
// unchanged table is left untouched on disk.
func (d *DiffResult) Unchanged() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && d.freshCount == d.existingCount
}
