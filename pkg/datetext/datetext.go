/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package datetext resolves free-form date mentions ("last year", "May 1,
// 2022", "2023-04-28") to calendar dates.
package datetext

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	naturaldate "github.com/tj/go-naturaldate"
)

// A Resolver turns one date mention into a calendar date, relative to a
// reference instant. The boolean is false when the text is not recognizably
// a date.
type Resolver interface {
	Resolve(text string, ref time.Time) (time.Time, bool)
}

var numberFormats = [...]string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

var letterFormats = [...]string{
	"Jan 02, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"January 2006",
	time.RFC850,
	time.RFC1123,
}

type resolver struct{}

// NewResolver returns the default Resolver.
func NewResolver() Resolver {
	return resolver{}
}

// Resolve probes exact timestamp layouts first, then fuzzy absolute formats,
// then relative natural-language phrases.
func (resolver) Resolve(text string, ref time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if tm, ok := parseExact(text); ok {
		return tm, true
	}

	if tm, err := dateparse.ParseAny(text); err == nil {
		return tm, true
	}

	tm, err := naturaldate.Parse(text, ref, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}

// parseExact tries a fixed list of timestamp layouts, split by whether the
// text leads with a digit.
func parseExact(text string) (time.Time, bool) {
	first, _ := utf8.DecodeRuneInString(text)

	formats := letterFormats[:]
	if unicode.IsDigit(first) {
		formats = numberFormats[:]
	}

	for _, layout := range formats {
		if tm, err := time.Parse(layout, text); err == nil {
			return tm, true
		}
	}
	return time.Time{}, false
}
