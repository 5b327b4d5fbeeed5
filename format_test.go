package changelog

import "testing"

func TestFormatStatsPretty(t *testing.T) {
	cases := []struct {
		description string
		input       *Stats
		expect      string
	}{
		{"all plural",
			&Stats{Languages: 2, StringsAdded: 3, StringsRemoved: 0, StringsUpdated: 4, Tables: 5, RecordsAdded: 2, RecordsRemoved: 2, RecordsUpdated: 2, FieldChanges: 6, TextChanges: 2},
			"2 languages: 3 strings added. 0 strings removed. 4 strings updated.\n5 tables: 2 records added. 2 records removed. 2 records updated (6 fields, 2 text changes).\n",
		},
		{"all singular",
			&Stats{Languages: 1, StringsAdded: 1, StringsRemoved: 1, StringsUpdated: 1, Tables: 1, RecordsAdded: 1, RecordsRemoved: 1, RecordsUpdated: 1, FieldChanges: 1, TextChanges: 1},
			"1 language: 1 string added. 1 string removed. 1 string updated.\n1 table: 1 record added. 1 record removed. 1 record updated (1 field, 1 text change).\n",
		},
		{"no text changes",
			&Stats{Languages: 2, StringsAdded: 1, StringsUpdated: 3, Tables: 4, RecordsAdded: 1, RecordsUpdated: 2, FieldChanges: 5},
			"2 languages: 1 string added. 0 strings removed. 3 strings updated.\n4 tables: 1 record added. 0 records removed. 2 records updated (5 fields).\n",
		},
	}

	for i, c := range cases {
		got := FormatPrettyStats(c.input)
		if got != c.expect {
			t.Errorf("%d %s\nwant:\n%s\ngot:\n%s", i, c.description, c.expect, got)
		}
	}
}

func TestFormatStatsColor(t *testing.T) {
	st := &Stats{Languages: 1, Tables: 1}
	expect := "\x1b[37m1 language:\x1b[0m \x1b[32m0 strings added.\x1b[0m \x1b[31m0 strings removed.\x1b[0m \x1b[34m0 strings updated.\x1b[0m\n" +
		"\x1b[37m1 table:\x1b[0m \x1b[32m0 records added.\x1b[0m \x1b[31m0 records removed.\x1b[0m \x1b[34m0 records updated (0 fields).\x1b[0m\n"
	if got := FormatPrettyStatsColor(st); got != expect {
		t.Errorf("want:\n%q\ngot:\n%q", expect, got)
	}
}

func TestFormatStatsNull(t *testing.T) {
	got := FormatPrettyStats(nil)
	expect := `<nil>`
	if got != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, got)
	}
}
