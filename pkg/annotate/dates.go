/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package annotate

import (
	"strings"
	"unicode"
)

// The date chunker scans the token stream for maximal runs of date-ish
// tokens. A run is kept only if it contains an anchor: a calendar unit, a
// month or weekday name, a relative day word, or a numeric date literal.
// Modifiers ("last", "next"), numbers, "ago" and commas extend a run but
// never start one on their own.

var dateAnchors = map[string]struct{}{
	"year": {}, "years": {},
	"month": {}, "months": {},
	"week": {}, "weeks": {},
	"day": {}, "days": {},
	"fortnight": {},
	"today":     {}, "yesterday": {}, "tomorrow": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
	"january": {}, "february": {}, "march": {}, "april": {},
	"may": {}, "june": {}, "july": {}, "august": {},
	"september": {}, "october": {}, "november": {}, "december": {},
	"jan": {}, "feb": {}, "mar": {}, "apr": {}, "jun": {}, "jul": {},
	"aug": {}, "sep": {}, "oct": {}, "nov": {}, "dec": {},
}

var dateModifiers = map[string]struct{}{
	"last": {}, "next": {}, "this": {}, "previous": {}, "past": {},
	"ago": {}, "the": {}, ",": {},
	"one": {}, "two": {}, "three": {}, "four": {}, "five": {},
	"six": {}, "seven": {}, "eight": {}, "nine": {}, "ten": {},
}

func isDateAnchor(text string) bool {
	lower := strings.ToLower(text)
	if _, ok := dateAnchors[lower]; ok {
		return true
	}
	return isDateLiteral(lower)
}

func isDateModifier(text string) bool {
	lower := strings.ToLower(text)
	if _, ok := dateModifiers[lower]; ok {
		return true
	}
	return isNumber(lower)
}

// isDateLiteral reports whether a single token looks like a full date,
// e.g. 2023-04-28 or 28/04/2023.
func isDateLiteral(text string) bool {
	hasDigit, hasSep := false, false
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '-' || r == '/':
			hasSep = true
		default:
			return false
		}
	}
	return hasDigit && hasSep
}

func isNumber(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// chunkDateEntities extracts DATE entities from the token stream.
func chunkDateEntities(tokens []Token) []Entity {
	var entities []Entity

	for i := 0; i < len(tokens); {
		if !isDateAnchor(tokens[i].Text) && !isDateModifier(tokens[i].Text) {
			i++
			continue
		}

		j := i
		anchored := false
		for j < len(tokens) && (isDateAnchor(tokens[j].Text) || isDateModifier(tokens[j].Text)) {
			if isDateAnchor(tokens[j].Text) {
				anchored = true
			}
			j++
		}

		if anchored {
			if text := joinSpan(tokens[i:j]); text != "" {
				entities = append(entities, Entity{Text: text, Label: LabelDate})
			}
		}
		i = j
	}

	return entities
}

// joinSpan renders a token span back to text, dropping dangling punctuation
// and articles at either end.
func joinSpan(span []Token) string {
	for len(span) > 0 && trimmable(span[0].Text) {
		span = span[1:]
	}
	for len(span) > 0 && trimmable(span[len(span)-1].Text) {
		span = span[:len(span)-1]
	}

	var b strings.Builder
	for i, tok := range span {
		if i > 0 && tok.Text != "," {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func trimmable(text string) bool {
	lower := strings.ToLower(text)
	return lower == "," || lower == "the"
}
