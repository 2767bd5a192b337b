package flow

import (
	"cmp"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Column identifies one column of the flow table
type Column string

// Flow table columns, in display order
const (
	ColumnName    Column = "name"
	ColumnAverage Column = "avr"
	ColumnPre1    Column = "pre1"
	ColumnPre5    Column = "pre5"
	ColumnPre15   Column = "pre15"
)

// ColumnDefinition describes how a display collaborator should render a column
type ColumnDefinition struct {
	ID        Column `json:"id"`
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
	Sortable  bool   `json:"sortable"`
}

var columnDefinitions = []ColumnDefinition{
	{ID: ColumnName, Title: "Name", DataIndex: "key", Sortable: true},
	{ID: ColumnAverage, Title: "Average", DataIndex: "avr", Sortable: true},
	{ID: ColumnPre1, Title: "Last 1 minute", DataIndex: "pre1", Sortable: true},
	{ID: ColumnPre5, Title: "Last 5 minutes", DataIndex: "pre5", Sortable: true},
	{ID: ColumnPre15, Title: "Last 15 minutes", DataIndex: "pre15", Sortable: true},
}

// Columns returns the flow table column definitions in display order
func Columns() []ColumnDefinition {
	out := make([]ColumnDefinition, len(columnDefinitions))
	copy(out, columnDefinitions)

	return out
}

// ParseColumn converts a column identifier, as received from a client, into a Column
func ParseColumn(s string) (Column, error) {
	switch s {
	case string(ColumnName), "key":
		return ColumnName, nil
	case string(ColumnAverage):
		return ColumnAverage, nil
	case string(ColumnPre1):
		return ColumnPre1, nil
	case string(ColumnPre5):
		return ColumnPre5, nil
	case string(ColumnPre15):
		return ColumnPre15, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
}

// LabelFor returns the name column label of a metric key, annotated with its unit where one applies
func LabelFor(key string) string {
	switch key {
	case MetricByteRejected:
		return key + "(B/s)"
	case MetricByteIn, MetricByteOut:
		return key + "(KB/s)"
	default:
		return key
	}
}

// Labels returns the labels of all the provided rows, indexed by key
func Labels(rows []DisplayRow) map[string]string {
	labels := make(map[string]string, len(rows))
	for _, row := range rows {
		labels[row.Key] = LabelFor(row.Key)
	}

	return labels
}

// CompareFunc orders two rows, returning a negative number, zero or a positive number
type CompareFunc func(a, b DisplayRow) int

// Comparator returns the ascending compare function of a column
func Comparator(col Column) (CompareFunc, error) {
	switch col {
	case ColumnName:
		return compareFirstCodePoint, nil
	case ColumnAverage, ColumnPre1, ColumnPre5, ColumnPre15:
		return func(a, b DisplayRow) int {
			return cmp.Compare(a.Value(col), b.Value(col))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
}

// compareFirstCodePoint only looks at the first character of the keys, so "byteIn" and "byteOut" compare equal
func compareFirstCodePoint(a, b DisplayRow) int {
	return cmp.Compare(firstCodePoint(a.Key), firstCodePoint(b.Key))
}

func firstCodePoint(s string) rune {
	if len(s) == 0 {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// SortRows sorts the rows in place by the provided column. Rows comparing equal keep their relative order.
func SortRows(rows []DisplayRow, col Column, desc bool) error {
	compare, err := Comparator(col)
	if err != nil {
		return err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return compare(rows[j], rows[i]) < 0
		}

		return compare(rows[i], rows[j]) < 0
	})

	return nil
}
