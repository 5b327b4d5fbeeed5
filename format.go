package changelog

import (
	"bytes"
	"fmt"
)

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(st *Stats) string {
	return formatStats(st, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(st *Stats) string {
	return formatStats(st, true)
}

func formatStats(st *Stats, color bool) string {
	var (
		neutralColor, insertColor, deleteColor, updateColor, closeColor string
	)

	if st == nil {
		return "<nil>"
	}

	if color {
		neutralColor = "\x1b[37m"
		insertColor = "\x1b[32m"
		deleteColor = "\x1b[31m"
		updateColor = "\x1b[34m"
		closeColor = "\x1b[0m"
	}

	buf := &bytes.Buffer{}

	buf.WriteString(fmt.Sprintf("%s%s:%s", neutralColor, plural(st.Languages, "language"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s added.%s", insertColor, plural(st.StringsAdded, "string"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s removed.%s", deleteColor, plural(st.StringsRemoved, "string"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s updated.%s", updateColor, plural(st.StringsUpdated, "string"), closeColor))
	buf.WriteRune('\n')

	buf.WriteString(fmt.Sprintf("%s%s:%s", neutralColor, plural(st.Tables, "table"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s added.%s", insertColor, plural(st.RecordsAdded, "record"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s removed.%s", deleteColor, plural(st.RecordsRemoved, "record"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%s updated", updateColor, plural(st.RecordsUpdated, "record")))
	buf.WriteString(fmt.Sprintf(" (%s", plural(st.FieldChanges, "field")))
	if st.TextChanges > 0 {
		buf.WriteString(fmt.Sprintf(", %s", plural(st.TextChanges, "text change")))
	}
	buf.WriteString(fmt.Sprintf(").%s", closeColor))
	buf.WriteRune('\n')

	return buf.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
