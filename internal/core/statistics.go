package core

import (
	"github.com/montanaflynn/stats"
)

// Summarize computes descriptive statistics for d.
//
// Column names come from the keys present in the first row. Each column's
// type is the majority among number, boolean and string over its non-empty
// cells; a column with no non-empty cells is "empty". Ties go to the type
// seen first in the column. EmptyValues counts null, missing and "" cells in
// every row and column.
func Summarize(d *Dataset) Statistics {
	st := Statistics{
		ColumnNames: []string{},
		ColumnTypes: map[string]ColumnType{},
	}
	if d == nil || d.Len() == 0 {
		return st
	}

	st.TotalRows = d.Len()
	st.ColumnNames = d.presentKeys(0)
	st.TotalColumns = len(st.ColumnNames)

	for _, col := range st.ColumnNames {
		st.ColumnTypes[col] = inferColumnType(d, col)
		if agg := aggregateColumn(d, col); agg != nil {
			if st.Aggregations == nil {
				st.Aggregations = make(map[string]*ColumnAggregation)
			}
			st.Aggregations[col] = agg
		}
	}

	for _, row := range d.rows {
		for _, v := range row {
			if v.IsEmpty() {
				st.EmptyValues++
			}
		}
	}

	return st
}

// inferColumnType tallies cell types in first-seen order and returns the
// first one to reach the highest count.
func inferColumnType(d *Dataset, col string) ColumnType {
	var order []ColumnType
	counts := make(map[ColumnType]int, 3)

	for i := 0; i < d.Len(); i++ {
		v, _ := d.Value(i, col)
		if v.IsEmpty() {
			continue
		}
		t := cellType(v)
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	if len(order) == 0 {
		return ColumnEmpty
	}

	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

func cellType(v Value) ColumnType {
	switch v.Kind() {
	case KindInt, KindFloat:
		return ColumnNumber
	case KindBool:
		return ColumnBoolean
	}
	if s, ok := v.Str(); ok && IsNumeric(s) {
		return ColumnNumber
	}
	return ColumnString
}

// aggregateColumn summarizes the int and float cells of col.
// It returns nil when the column holds no numbers.
func aggregateColumn(d *Dataset, col string) *ColumnAggregation {
	var data stats.Float64Data
	for i := 0; i < d.Len(); i++ {
		v, _ := d.Value(i, col)
		if f, ok := v.Float64(); ok {
			data = append(data, f)
		}
	}
	if len(data) == 0 {
		return nil
	}

	agg := &ColumnAggregation{Column: col, Count: len(data)}
	// The stats functions only fail on empty input, which is ruled out above.
	agg.Sum, _ = stats.Sum(data)
	agg.Mean, _ = stats.Mean(data)
	agg.Median, _ = stats.Median(data)
	agg.Min, _ = stats.Min(data)
	agg.Max, _ = stats.Max(data)
	return agg
}
