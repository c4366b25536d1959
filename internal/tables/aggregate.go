package tables

import "strings"

// aggregateSeparator joins values of the same column
const aggregateSeparator = ", "

// ColumnAggregate maps column names to their concatenated non-empty values.
// Keys keep first-seen order and values only ever grow.
type ColumnAggregate struct {
	keys   []string
	values map[string][]string
}

// NewColumnAggregate creates an empty aggregate
func NewColumnAggregate() *ColumnAggregate {
	return &ColumnAggregate{values: make(map[string][]string)}
}

// Fold appends every non-empty cell of the tables, in table-then-row order
func (a *ColumnAggregate) Fold(tables []NormalizedTable) *ColumnAggregate {
	for _, table := range tables {
		for _, row := range table.Rows {
			for c, header := range table.Headers {
				if c >= len(row) {
					break
				}
				a.add(header, row[c])
			}
		}
	}
	return a
}

// Merge appends another aggregate's values after this one's
func (a *ColumnAggregate) Merge(other *ColumnAggregate) *ColumnAggregate {
	if other == nil {
		return a
	}
	for _, key := range other.keys {
		for _, v := range other.values[key] {
			a.add(key, v)
		}
	}
	return a
}

func (a *ColumnAggregate) add(column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := a.values[column]; !ok {
		a.keys = append(a.keys, column)
	}
	a.values[column] = append(a.values[column], value)
}

// Get returns the comma-separated values of a column
func (a *ColumnAggregate) Get(column string) (string, bool) {
	values, ok := a.values[column]
	if !ok {
		return "", false
	}
	return strings.Join(values, aggregateSeparator), true
}

// Keys returns column names in first-seen order
func (a *ColumnAggregate) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Len returns the number of columns with at least one value
func (a *ColumnAggregate) Len() int {
	return len(a.keys)
}
