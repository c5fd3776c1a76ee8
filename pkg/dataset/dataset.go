/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package dataset projects the stored event table through an interpretation
// into the minimal, column-oriented table the model consumes.
package dataset

import (
	"time"

	"github.com/dburkart/furrow/pkg/query"
	"github.com/dburkart/furrow/pkg/vocab"
)

// A Record is one event row: its calendar date plus the string fields.
type Record struct {
	Date   time.Time
	Fields map[string]string
}

// A Row is a projected record, reduced to the selected columns.
type Row map[string]string

// A Table is the pivoted, column-oriented form: one entry per column, each
// holding that column's values across all rows in row order. This is the
// tabular shape of the request payload.
type Table map[string][]string

// A Selection is the filter/projection specification extracted from a valid
// interpretation: which values each dimension may take, which columns
// survive projection, and the inclusive date range.
type Selection struct {
	Crops     vocab.Set
	Actions   vocab.Set
	Locations vocab.Set
	Columns   vocab.Set
	Range     query.DateRange
}

// SelectionFrom lifts the filterable parts out of an interpretation. The
// caller is responsible for only passing valid interpretations; an invalid
// one carries the (today, today) sentinel range.
func SelectionFrom(in *query.Interpretation) Selection {
	return Selection{
		Crops:     in.Crops,
		Actions:   in.Actions,
		Locations: in.Locations,
		Columns:   in.Columns,
		Range:     in.Dates.Range(),
	}
}

// Filter retains the records matching the selection: every non-empty
// dimension set must contain the record's corresponding field, and the
// record's date must fall inside the range, inclusive. An empty dimension
// set imposes no filter — it never rejects rows.
func Filter(records []Record, sel Selection) []Record {
	var kept []Record
	for _, rec := range records {
		if !matchesDimension(rec, "crop", sel.Crops) {
			continue
		}
		if !matchesDimension(rec, "action", sel.Actions) {
			continue
		}
		if !matchesDimension(rec, "location", sel.Locations) {
			continue
		}
		if !sel.Range.Contains(rec.Date) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func matchesDimension(rec Record, field string, matched vocab.Set) bool {
	if len(matched) == 0 {
		return true
	}
	return matched.Has(rec.Fields[field])
}

// Project reduces each record to the selected columns, preserving row order.
func Project(records []Record, columns vocab.Set) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row)
		for field, value := range rec.Fields {
			if columns.Has(field) {
				row[field] = value
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Pivot converts row-oriented projected rows into one column-oriented
// mapping of parallel value lists. N rows sharing K keys yield K entries of
// length N each, values in original row order.
func Pivot(rows []Row) Table {
	if len(rows) == 0 {
		return Table{}
	}

	table := make(Table, len(rows[0]))
	for key := range rows[0] {
		values := make([]string, 0, len(rows))
		for _, row := range rows {
			values = append(values, row[key])
		}
		table[key] = values
	}
	return table
}

// ModelReady runs the full pipeline: filter, project to the selected
// columns, pivot for transmission. Zero surviving rows (or a selection with
// no columns) come back as an empty table, not an error.
func ModelReady(records []Record, sel Selection) Table {
	if len(sel.Columns) == 0 {
		return Table{}
	}
	return Pivot(Project(Filter(records, sel), sel.Columns))
}
