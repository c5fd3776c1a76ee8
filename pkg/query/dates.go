/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"fmt"
	"time"

	"github.com/dburkart/furrow/pkg/datetext"
)

// A DateRange is an inclusive pair of calendar dates, Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Midnight(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Midnight truncates an instant to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateResolution holds the date mentions found in one query, the subset that
// resolved to usable dates, and the bounded range inferred from them. A
// usable date is one that parsed and is strictly before today; this system
// answers questions about past events.
type DateResolution struct {
	entities []string
	usable   []time.Time
	today    time.Time
}

// ResolveDates parses every date mention against the resolver. The today
// argument anchors all relative phrases and the usability cutoff.
func ResolveDates(entities []string, resolver datetext.Resolver, today time.Time) DateResolution {
	res := DateResolution{
		entities: entities,
		today:    Midnight(today),
	}

	for _, entity := range entities {
		tm, ok := resolver.Resolve(entity, today)
		if !ok {
			continue
		}
		date := Midnight(tm)
		if date.Before(res.today) {
			res.usable = append(res.usable, date)
		}
	}

	return res
}

// Valid reports whether the query carried one or two date mentions, every
// one of which produced a usable date. Three or more mentions are always
// invalid, as is a single mention that failed to parse.
func (d DateResolution) Valid() bool {
	count := len(d.entities)
	return count >= 1 && count <= 2 && len(d.usable) == count
}

// Range returns the inclusive date range to filter events by. An invalid
// resolution yields the (today, today) sentinel; callers must check Valid
// before filtering. One usable date is widened by tiered inference; two
// usable dates pass through directly.
func (d DateResolution) Range() DateRange {
	if !d.Valid() {
		return DateRange{Start: d.today, End: d.today}
	}

	if len(d.usable) == 1 {
		return d.infer(d.usable[0])
	}

	start, end := d.usable[0], d.usable[1]
	if end.Before(start) {
		start, end = end, start
	}
	return DateRange{Start: start, End: end}
}

// infer widens a single target date into a bounding period. The tier is
// chosen by how far back the target sits:
//
//	> 360 days  the whole prior calendar year (anchored to today's year,
//	            not the target's — "a year ago" means last calendar year)
//	> 8 days    the calendar month containing the target
//	otherwise   the ISO week containing the target, Monday through Sunday
func (d DateResolution) infer(target time.Time) DateRange {
	offset := int(d.today.Sub(target).Hours() / 24)

	switch {
	case offset > 360:
		lastYear := d.today.Year() - 1
		return DateRange{
			Start: time.Date(lastYear, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(lastYear, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	case offset > 8:
		year, month, _ := target.Date()
		return DateRange{
			Start: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			// Day zero of the next month is the last day of this one.
			End: time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC),
		}
	default:
		weekday := int(target.Weekday())
		if weekday == 0 {
			weekday = 7 // ISO weeks run Monday (1) through Sunday (7)
		}
		monday := target.AddDate(0, 0, 1-weekday)
		return DateRange{Start: monday, End: monday.AddDate(0, 0, 6)}
	}
}

// Warning describes why an invalid resolution failed, for display to the
// user. It is empty when the resolution is valid.
func (d DateResolution) Warning() string {
	if d.Valid() {
		return ""
	}

	switch {
	case len(d.entities) == 0:
		return "This query does not contain any dates. Please specify a date or date range."
	case len(d.usable) == 0:
		return fmt.Sprintf(
			"Date reference %q cannot be parsed as a date, or represents a future date.",
			d.entities[0],
		)
	default:
		return "Queries are limited to one date or a range of two dates, all in the past."
	}
}
