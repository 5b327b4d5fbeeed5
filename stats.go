package changelog

// Stats holds statistical metadata about a changelog
type Stats struct {
	Languages      int `json:"languages"`                // count of diffed languages
	StringsAdded   int `json:"stringsAdded,omitempty"`   // hashes added, summed over languages
	StringsRemoved int `json:"stringsRemoved,omitempty"` // hashes removed, summed over languages
	StringsUpdated int `json:"stringsUpdated,omitempty"` // hashes with changed text, summed over languages

	Tables         int `json:"tables"`                   // count of diffed tables
	RecordsAdded   int `json:"recordsAdded,omitempty"`   // records present only in current
	RecordsRemoved int `json:"recordsRemoved,omitempty"` // records present only in previous
	RecordsUpdated int `json:"recordsUpdated,omitempty"` // records with at least one field change
	FieldChanges   int `json:"fieldChanges,omitempty"`   // field changes across updated records
	TextChanges    int `json:"textChanges,omitempty"`    // referenced-text changes across fields
}

// StringChanges is the total number of changed hashes
func (s Stats) StringChanges() int {
	return s.StringsAdded + s.StringsRemoved + s.StringsUpdated
}

// RecordChanges is the total number of changed records
func (s Stats) RecordChanges() int {
	return s.RecordsAdded + s.RecordsRemoved + s.RecordsUpdated
}

// Stats tallies the changelog
func (c *Changelog) Stats() Stats {
	var s Stats
	for _, cs := range c.Strings {
		s.Languages++
		if cs == nil {
			continue
		}
		s.StringsAdded += len(cs.Added)
		s.StringsRemoved += len(cs.Removed)
		s.StringsUpdated += len(cs.Updated)
	}

	for _, tc := range c.Excel {
		s.Tables++
		if tc == nil {
			continue
		}
		for _, rec := range tc.ChangeRecordMap {
			switch rec.ChangeType {
			case ChangeAdded:
				s.RecordsAdded++
			case ChangeRemoved:
				s.RecordsRemoved++
			case ChangeUpdated:
				s.RecordsUpdated++
				s.FieldChanges += len(rec.UpdatedFields)
				for _, fc := range rec.UpdatedFields {
					s.TextChanges += len(fc.TextChanges)
				}
			}
		}
	}
	return s
}
