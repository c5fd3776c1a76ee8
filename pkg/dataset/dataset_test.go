/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"reflect"
	"testing"
	"time"

	"github.com/dburkart/furrow/pkg/query"
	"github.com/dburkart/furrow/pkg/vocab"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(day time.Time, action, crop, quantity string) Record {
	return Record{
		Date: day,
		Fields: map[string]string{
			"date":          day.Format("2006-01-02"),
			"action":        action,
			"crop":          crop,
			"quantity":      quantity,
			"duration":      "",
			"location":      "kitchen",
			"location_type": "indoors-window-box",
		},
	}
}

// cressSelection mirrors "How much cress did I sow last year?" asked on
// 2024-06-15.
func cressSelection() Selection {
	return Selection{
		Crops:     vocab.NewSet("cress"),
		Actions:   vocab.NewSet("sow"),
		Locations: vocab.NewSet(),
		Columns:   vocab.NewSet("action", "crop", "quantity"),
		Range: query.DateRange{
			Start: date(2023, time.January, 1),
			End:   date(2023, time.December, 31),
		},
	}
}

func mockRecords() []Record {
	return []Record{
		record(date(2023, time.April, 28), "sow", "cress", "1sqft"),
		record(date(2023, time.April, 29), "sow", "cress", "2sqft"),
		record(date(2023, time.May, 2), "harvest", "carrot", "3"),
		record(date(2022, time.April, 28), "sow", "cress", "9sqft"),
	}
}

func TestModelReady(t *testing.T) {
	got := ModelReady(mockRecords(), cressSelection())
	want := Table{
		"action":   {"sow", "sow"},
		"crop":     {"cress", "cress"},
		"quantity": {"1sqft", "2sqft"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wanted %v, got %v", want, got)
	}
}

func TestFilterEmptyDimensionImposesNoFilter(t *testing.T) {
	sel := cressSelection()
	sel.Crops = vocab.NewSet()
	sel.Actions = vocab.NewSet()

	kept := Filter(mockRecords(), sel)
	// Only the date range applies: all three 2023 rows survive.
	if len(kept) != 3 {
		t.Errorf("wanted 3 records, got %d", len(kept))
	}
}

func TestFilterDateRangeIsInclusive(t *testing.T) {
	sel := cressSelection()
	sel.Range = query.DateRange{
		Start: date(2023, time.April, 28),
		End:   date(2023, time.April, 29),
	}

	kept := Filter(mockRecords(), sel)
	if len(kept) != 2 {
		t.Errorf("both boundary dates should survive, got %d records", len(kept))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	sel := cressSelection()
	once := Filter(mockRecords(), sel)
	twice := Filter(once, sel)
	if !reflect.DeepEqual(once, twice) {
		t.Error("re-filtering a filtered dataset should change nothing")
	}
}

func TestFilterNoSurvivorsIsEmptyNotError(t *testing.T) {
	sel := cressSelection()
	sel.Crops = vocab.NewSet("zucchini")

	got := ModelReady(mockRecords(), sel)
	if len(got) != 0 {
		t.Errorf("wanted an empty table, got %v", got)
	}
}

func TestPivotShape(t *testing.T) {
	rows := []Row{
		{"action": "sow", "crop": "cress", "quantity": "1sqft"},
		{"action": "sow", "crop": "cress", "quantity": "2sqft"},
	}

	table := Pivot(rows)
	if len(table) != 3 {
		t.Fatalf("wanted 3 columns, got %d", len(table))
	}
	for key, values := range table {
		if len(values) != 2 {
			t.Errorf("column %q: wanted 2 values, got %d", key, len(values))
		}
	}
	if !reflect.DeepEqual(table["quantity"], []string{"1sqft", "2sqft"}) {
		t.Errorf("row order not preserved: %v", table["quantity"])
	}
}

func TestPivotSingleRow(t *testing.T) {
	table := Pivot([]Row{{"action": "sow", "crop": "cress", "quantity": "1sqft"}})
	want := Table{
		"action":   {"sow"},
		"crop":     {"cress"},
		"quantity": {"1sqft"},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("wanted %v, got %v", want, table)
	}
}

func TestProjectKeepsOnlySelectedColumns(t *testing.T) {
	rows := Project(mockRecords()[:1], vocab.NewSet("crop", "quantity"))
	want := []Row{{"crop": "cress", "quantity": "1sqft"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("wanted %v, got %v", want, rows)
	}
}
