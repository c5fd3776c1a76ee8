/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"time"

	"github.com/dburkart/furrow/pkg/annotate"
	"github.com/dburkart/furrow/pkg/datetext"
	"github.com/dburkart/furrow/pkg/vocab"
	"github.com/pkg/errors"
)

// An Interpreter composes the annotator, the date resolver and the
// vocabulary into one query front end. It is safe for concurrent use; all
// per-query state lives in the Interpretation.
type Interpreter struct {
	annotator annotate.Annotator
	resolver  datetext.Resolver
	vocab     *vocab.Vocabulary
	now       func() time.Time
}

func NewInterpreter(annotator annotate.Annotator, resolver datetext.Resolver, v *vocab.Vocabulary) *Interpreter {
	return &Interpreter{
		annotator: annotator,
		resolver:  resolver,
		vocab:     v,
		now:       time.Now,
	}
}

// WithClock fixes the interpreter's notion of "today". Tests use this to pin
// relative date arithmetic.
func (i *Interpreter) WithClock(now func() time.Time) *Interpreter {
	i.now = now
	return i
}

// An Interpretation is the structured reading of one query: the vocabulary
// terms it matched, the columns the answer table needs, the resolved date
// range, and the crux. Constructed once per submitted query, then read-only.
type Interpretation struct {
	Query *annotate.Query

	Crops     vocab.Set
	Actions   vocab.Set
	Locations vocab.Set

	// Columns accumulates across all detections: each matched dimension
	// contributes its column, and the crux contributes quantity or duration.
	Columns vocab.Set

	Dates DateResolution
	Crux  string
}

// Valid reports whether the interpretation can back a model request: a crux
// was detected and the date resolution holds one or two usable dates.
func (in *Interpretation) Valid() bool {
	return in.Crux != "" && in.Dates.Valid()
}

// Warning explains an invalid interpretation to the user.
func (in *Interpretation) Warning() string {
	if in.Valid() {
		return ""
	}
	if !in.Dates.Valid() {
		return in.Dates.Warning()
	}
	return "Unable to tell what this query is asking for. " +
		"Try starting with \"how much\" or \"how many\"."
}

// Interpret runs the full pipeline over raw text: annotate once, then match
// each vocabulary, resolve dates, and detect the crux — all reading the same
// annotated query and accumulating into one column set.
func (i *Interpreter) Interpret(text string) (*Interpretation, error) {
	q, err := i.annotator.Annotate(text)
	if err != nil {
		return nil, errors.Wrap(err, "unable to annotate query")
	}

	lemmas := q.Lemmas()
	in := &Interpretation{
		Query:   q,
		Columns: vocab.NewSet(),
	}

	in.Crops = i.matchInto(lemmas, i.vocab.Crops, "crop", in.Columns)
	in.Actions = i.matchInto(lemmas, i.vocab.Actions, "action", in.Columns)
	in.Locations = i.matchInto(lemmas, i.vocab.Locations, "location", in.Columns)

	in.Dates = ResolveDates(q.DateEntities(), i.resolver, i.now())
	in.Crux = detectCrux(q, i.vocab.Crops, in.Columns)

	return in, nil
}

// matchInto matches one vocabulary and, on any hit, marks the dimension's
// column as selected.
func (i *Interpreter) matchInto(lemmas, vocabulary vocab.Set, column string, columns vocab.Set) vocab.Set {
	matched := Match(lemmas, vocabulary)
	if len(matched) > 0 {
		columns.Add(column)
	}
	return matched
}
