package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/multiversx/mx-chain-core-go/core/check"
)

// Source supplies the record a table renders
type Source interface {
	Record(ctx context.Context) (MetricsRecord, error)
	IsInterfaceNil() bool
}

// SourceFunc adapts a plain function to the Source interface
type SourceFunc func(ctx context.Context) (MetricsRecord, error)

// Record calls the underlying function
func (f SourceFunc) Record(ctx context.Context) (MetricsRecord, error) {
	return f(ctx)
}

// IsInterfaceNil returns true if there is no function behind the adapter
func (f SourceFunc) IsInterfaceNil() bool {
	return f == nil
}

// SortSpec describes the user triggered sort action. An empty column keeps the projection order.
type SortSpec struct {
	Column     Column
	Descending bool
}

// ParseSortSpec builds a SortSpec from the column and order strings received from a client.
// Empty strings are allowed and mean "no sorting" and "ascending".
func ParseSortSpec(column string, order string) (SortSpec, error) {
	spec := SortSpec{}
	if len(column) > 0 {
		col, err := ParseColumn(column)
		if err != nil {
			return SortSpec{}, err
		}
		spec.Column = col
	}

	switch strings.ToLower(order) {
	case "", "asc", "ascend":
		spec.Descending = false
	case "desc", "descend":
		spec.Descending = true
	default:
		return SortSpec{}, fmt.Errorf("unknown sort order %q", order)
	}

	return spec, nil
}

// Table recomputes the display rows from its source on every call
type Table struct {
	source Source
}

// NewTable creates a table bound to the provided source
func NewTable(source Source) (*Table, error) {
	if check.IfNil(source) {
		return nil, ErrNilSource
	}

	return &Table{
		source: source,
	}, nil
}

// Rows fetches the current record, projects it and applies the requested sorting
func (t *Table) Rows(ctx context.Context, spec SortSpec) ([]DisplayRow, error) {
	record, err := t.source.Record(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w while reading the flow record", err)
	}

	rows, err := Project(record)
	if err != nil {
		return nil, err
	}

	if len(spec.Column) == 0 {
		return rows, nil
	}

	err = SortRows(rows, spec.Column, spec.Descending)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
