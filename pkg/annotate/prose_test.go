/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package annotate

import (
	"testing"
)

func TestAnnotateLemmasAndDates(t *testing.T) {
	annotator, err := NewAnnotator()
	if err != nil {
		t.Fatalf("unable to build annotator: %v", err)
	}

	q, err := annotator.Annotate("How much cress did I sow last year?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lemmas := q.Lemmas()
	for _, want := range []string{"cress", "sow", "do"} {
		if !lemmas.Has(want) {
			t.Errorf("expected lemma %q in %v", want, lemmas.Values())
		}
	}

	dates := q.DateEntities()
	if len(dates) != 1 || dates[0] != "last year" {
		t.Errorf("wanted one date entity \"last year\", got %v", dates)
	}
}

func TestAnnotateLemmatizesPlurals(t *testing.T) {
	annotator, err := NewAnnotator()
	if err != nil {
		t.Fatalf("unable to build annotator: %v", err)
	}

	q, err := annotator.Annotate("How many beds have potatoes or broadbeans?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lemmas := q.Lemmas()
	if !lemmas.Has("potato") {
		t.Errorf("expected potatoes to lemmatize to potato, got %v", lemmas.Values())
	}
	if len(q.DateEntities()) != 0 {
		t.Errorf("expected no date entities, got %v", q.DateEntities())
	}
}
