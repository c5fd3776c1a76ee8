/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"strings"
	"testing"
	"time"

	"github.com/dburkart/furrow/pkg/annotate"
	"github.com/dburkart/furrow/pkg/vocab"
)

// fakeAnnotator lowercases words as lemmas, with a small irregular table,
// and emits the date entities it was seeded with. Keeps the core tests
// hermetic — no NLP models involved.
type fakeAnnotator struct {
	dates map[string][]string
}

var irregularLemmas = map[string]string{
	"did": "do", "potatoes": "potato", "broadbeans": "broadbean",
	"planted": "plant", "sowed": "sow", "beds": "bed",
}

func (f *fakeAnnotator) Annotate(text string) (*annotate.Query, error) {
	q := &annotate.Query{Text: text}

	for _, word := range strings.Fields(strings.TrimSuffix(text, "?")) {
		lemma := strings.ToLower(word)
		if irr, ok := irregularLemmas[lemma]; ok {
			lemma = irr
		}
		q.Tokens = append(q.Tokens, annotate.Token{Text: word, Lemma: lemma})
	}

	for _, ent := range f.dates[text] {
		q.Entities = append(q.Entities, annotate.Entity{Text: ent, Label: annotate.LabelDate})
	}
	return q, nil
}

func testInterpreter(dates map[string][]string, resolver stubResolver) *Interpreter {
	return NewInterpreter(&fakeAnnotator{dates: dates}, resolver, vocab.Default()).
		WithClock(func() time.Time { return today })
}

func TestInterpretSowQuery(t *testing.T) {
	text := "How much cress did I sow last year?"
	i := testInterpreter(
		map[string][]string{text: {"last year"}},
		stubResolver{"last year": date(2023, time.June, 15)},
	)

	in, err := i.Interpret(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !in.Crops.Equal(vocab.NewSet("cress")) {
		t.Errorf("wanted crops {cress}, got %v", in.Crops.Values())
	}
	if !in.Actions.Equal(vocab.NewSet("sow")) {
		t.Errorf("wanted actions {sow}, got %v", in.Actions.Values())
	}
	if in.Crux != CruxQuantity {
		t.Errorf("wanted crux %q, got %q", CruxQuantity, in.Crux)
	}
	if !in.Columns.Equal(vocab.NewSet("crop", "action", "quantity")) {
		t.Errorf("wanted columns {action, crop, quantity}, got %v", in.Columns.Values())
	}

	want := DateRange{Start: date(2023, time.January, 1), End: date(2023, time.December, 31)}
	if got := in.Dates.Range(); got != want {
		t.Errorf("wanted range %v, got %v", want, got)
	}
	if !in.Valid() {
		t.Error("interpretation should be valid")
	}
	if in.Warning() != "" {
		t.Errorf("valid interpretation should carry no warning, got %q", in.Warning())
	}
}

func TestInterpretMaintenanceQueryYieldsDurationCrux(t *testing.T) {
	// "how much" is present but not followed by a crop lemma, so only the
	// duration test fires.
	text := "How much time did I spend on maintenance last month?"
	i := testInterpreter(
		map[string][]string{text: {"last month"}},
		stubResolver{"last month": date(2024, time.May, 15)},
	)

	in, err := i.Interpret(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if in.Crux != CruxDuration {
		t.Errorf("wanted crux %q, got %q", CruxDuration, in.Crux)
	}
	if !in.Columns.Has("duration") {
		t.Error("duration column should be selected")
	}
	if in.Columns.Has("quantity") {
		t.Error("quantity column should not be selected")
	}

	want := DateRange{Start: date(2024, time.May, 1), End: date(2024, time.May, 31)}
	if got := in.Dates.Range(); got != want {
		t.Errorf("wanted range %v, got %v", want, got)
	}
}

func TestInterpretPlantNormalizesAndMatchesLocation(t *testing.T) {
	text := "How much cress did I plant in the kitchen last year?"
	i := testInterpreter(
		map[string][]string{text: {"last year"}},
		stubResolver{"last year": date(2023, time.June, 15)},
	)

	in, err := i.Interpret(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !in.Actions.Equal(vocab.NewSet("sow")) {
		t.Errorf("plant should normalize to sow, got %v", in.Actions.Values())
	}
	if !in.Locations.Equal(vocab.NewSet("kitchen")) {
		t.Errorf("wanted locations {kitchen}, got %v", in.Locations.Values())
	}
	if !in.Columns.Has("location") {
		t.Error("location column should be selected")
	}
}

func TestInterpretNoDatesIsInvalid(t *testing.T) {
	text := "How many beds have potatoes or broadbeans?"
	i := testInterpreter(nil, stubResolver{})

	in, err := i.Interpret(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if in.Valid() {
		t.Fatal("a query without dates must be invalid")
	}
	want := "This query does not contain any dates. Please specify a date or date range."
	if in.Warning() != want {
		t.Errorf("wanted %q, got %q", want, in.Warning())
	}
}

func TestInterpretNoCruxIsInvalid(t *testing.T) {
	text := "When was cress sowed last year?"
	i := testInterpreter(
		map[string][]string{text: {"last year"}},
		stubResolver{"last year": date(2023, time.June, 15)},
	)

	in, err := i.Interpret(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if in.Valid() {
		t.Fatal("a query without a crux must be invalid")
	}
	if in.Warning() == "" {
		t.Error("invalid interpretation should carry a warning")
	}
}

func TestColumnsAreNotSharedBetweenQueries(t *testing.T) {
	// Each interpretation owns its column set; an earlier query must not
	// leak columns into a later one.
	first := "How much cress did I sow last year?"
	second := "How much time did I spend on maintenance last month?"

	i := testInterpreter(
		map[string][]string{first: {"last year"}, second: {"last month"}},
		stubResolver{
			"last year":  date(2023, time.June, 15),
			"last month": date(2024, time.May, 15),
		},
	)

	if _, err := i.Interpret(first); err != nil {
		t.Fatal(err)
	}
	in, err := i.Interpret(second)
	if err != nil {
		t.Fatal(err)
	}

	if in.Columns.Has("crop") || in.Columns.Has("quantity") {
		t.Errorf("columns leaked across queries: %v", in.Columns.Values())
	}
}
