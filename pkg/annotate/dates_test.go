/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package annotate

import (
	"reflect"
	"strings"
	"testing"
)

func tokenize(text string) []Token {
	var tokens []Token
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, Token{Text: word, Lemma: strings.ToLower(word)})
	}
	return tokens
}

func TestChunkDateEntities(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"How much cress did I sow last year ?", []string{"last year"}},
		{"How much time did I spend on maintenance last month ?", []string{"last month"}},
		{"How many eggs are gathered next Thursday ?", []string{"next Thursday"}},
		{"How many eggs were gathered on May Day ?", []string{"May Day"}},
		{"How many beds have potatoes or broadbeans ?", nil},
		{"Did I sow cress on 2023-04-28 ?", []string{"2023-04-28"}},
		{"What did I harvest 3 days ago ?", []string{"3 days ago"}},
		{"What was sown between last May and last June ?", []string{"last May", "last June"}},
		{"I sowed 2 sqft of cress", nil},
		{"Did I plant pumpkins in February ?", []string{"February"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got []string
			for _, ent := range chunkDateEntities(tokenize(tt.input)) {
				if ent.Label != LabelDate {
					t.Errorf("unexpected label %q", ent.Label)
				}
				got = append(got, ent.Text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wanted %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDateLiteral(t *testing.T) {
	if !isDateLiteral("2023-04-28") {
		t.Error("ISO date should be a literal")
	}
	if !isDateLiteral("28/04/2023") {
		t.Error("slash date should be a literal")
	}
	if isDateLiteral("sqft") || isDateLiteral("2") || isDateLiteral("a-b") {
		t.Error("non-dates should not be literals")
	}
}
