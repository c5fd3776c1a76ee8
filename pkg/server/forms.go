/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"fmt"
	"time"

	"github.com/dburkart/furrow/pkg/store"
	"github.com/dburkart/furrow/pkg/vocab"
)

// EventForm carries one submitted event, straight from an HTML form or the
// JSON API. Every field arrives as a string; validation decides which ones
// matter for the given action.
type EventForm struct {
	Date         string `form:"date" json:"date" binding:"required"`
	Action       string `form:"action" json:"action"`
	Crop         string `form:"crop" json:"crop"`
	Quantity     string `form:"quantity" json:"quantity"`
	Duration     string `form:"duration" json:"duration"`
	Location     string `form:"location" json:"location"`
	LocationType string `form:"location_type" json:"location_type"`
}

// Maintenance sessions are logged in coarse buckets rather than exact
// minutes: 1 is under half an hour, 3 is up to ninety minutes, 6 is a long
// session beyond that.
var durationChoices = vocab.NewSet("1", "3", "6")

// Validate checks the form against the vocabulary and the calendar. The
// returned error is suitable for display to the person who submitted it.
func (f *EventForm) Validate(v *vocab.Vocabulary, today time.Time) error {
	date, err := time.Parse(store.DateLayout, f.Date)
	if err != nil {
		return fmt.Errorf("date %q is not of the form YYYY-MM-DD", f.Date)
	}
	if date.After(today) {
		return fmt.Errorf("date %q lies in the future", f.Date)
	}

	if !v.Actions.Has(f.Action) {
		return fmt.Errorf("unknown action %q", f.Action)
	}

	if f.Location != "" && !v.Locations.Has(f.Location) {
		return fmt.Errorf("unknown location %q", f.Location)
	}
	if f.LocationType != "" && !v.LocationTypes.Has(f.LocationType) {
		return fmt.Errorf("unknown location type %q", f.LocationType)
	}

	switch f.Action {
	case "maintain":
		if !durationChoices.Has(f.Duration) {
			return fmt.Errorf("duration %q is not one of the offered choices", f.Duration)
		}
	default:
		if !v.Crops.Has(f.Crop) {
			return fmt.Errorf("unknown crop %q", f.Crop)
		}
		if f.Quantity == "" {
			return fmt.Errorf("quantity must not be empty")
		}
	}

	return nil
}

// Event converts a validated form into a store row.
func (f *EventForm) Event() (store.Event, error) {
	date, err := time.Parse(store.DateLayout, f.Date)
	if err != nil {
		return store.Event{}, err
	}

	return store.Event{
		Date:         date,
		Action:       f.Action,
		Crop:         f.Crop,
		Quantity:     f.Quantity,
		Duration:     f.Duration,
		Location:     f.Location,
		LocationType: f.LocationType,
	}, nil
}
