/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package annotate

import (
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
)

// proseAnnotator is the default Annotator: prose for tokenization, golem for
// lemmas, and the date chunker for DATE entities (prose's extractor does not
// emit date spans).
type proseAnnotator struct {
	lemmatizer *golem.Lemmatizer
}

// NewAnnotator builds the default annotator. The english lemma dictionary is
// loaded once and shared by every query.
func NewAnnotator() (Annotator, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, errors.Wrap(err, "unable to load lemma dictionary")
	}
	return &proseAnnotator{lemmatizer: lemmatizer}, nil
}

func (a *proseAnnotator) Annotate(text string) (*Query, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to tokenize query")
	}

	var tokens []Token
	for _, tok := range doc.Tokens() {
		lower := strings.ToLower(tok.Text)
		tokens = append(tokens, Token{
			Text:  tok.Text,
			Lemma: a.lemmatizer.Lemma(lower),
		})
	}

	return &Query{
		Text:     text,
		Tokens:   tokens,
		Entities: chunkDateEntities(tokens),
	}, nil
}
