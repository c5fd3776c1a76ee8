/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package annotate turns raw query text into tokens with lemmas and tagged
// entities. The interpreter only depends on the Annotator interface, so the
// backing NLP stack can be swapped without touching query logic.
package annotate

import (
	"github.com/dburkart/furrow/pkg/vocab"
)

// LabelDate tags an entity as a date mention.
const LabelDate = "DATE"

// A Token is one word of the query along with its dictionary base form.
type Token struct {
	Text  string
	Lemma string
}

// An Entity is a tagged span of the query.
type Entity struct {
	Text  string
	Label string
}

// A Query is an annotated user query. It is produced once per raw string and
// read-only afterward.
type Query struct {
	Text     string
	Tokens   []Token
	Entities []Entity
}

// Lemmas returns the set of all token lemmas.
func (q *Query) Lemmas() vocab.Set {
	lemmas := vocab.NewSet()
	for _, tok := range q.Tokens {
		lemmas.Add(tok.Lemma)
	}
	return lemmas
}

// DateEntities returns the text of every DATE entity, in query order.
func (q *Query) DateEntities() []string {
	var dates []string
	for _, ent := range q.Entities {
		if ent.Label == LabelDate {
			dates = append(dates, ent.Text)
		}
	}
	return dates
}

// An Annotator produces an annotated query from raw text.
type Annotator interface {
	Annotate(text string) (*Query, error)
}
