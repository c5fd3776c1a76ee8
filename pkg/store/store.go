/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package store persists event records. The store is append-only: records
// are never mutated or deleted, and reads return the full ordered history.
package store

import (
	"time"

	"github.com/dburkart/furrow/pkg/dataset"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DateLayout is the on-disk calendar date format.
const DateLayout = "2006-01-02"

// An Event is one recorded agricultural action.
type Event struct {
	Date         time.Time
	Action       string
	Crop         string
	Quantity     string
	Duration     string
	Location     string
	LocationType string
}

// Record converts the event to the dataset's row form.
func (e Event) Record() dataset.Record {
	return dataset.Record{
		Date: e.Date,
		Fields: map[string]string{
			"date":          e.Date.Format(DateLayout),
			"action":        e.Action,
			"crop":          e.Crop,
			"quantity":      e.Quantity,
			"duration":      e.Duration,
			"location":      e.Location,
			"location_type": e.LocationType,
		},
	}
}

// Records converts a read-back history to dataset rows, preserving order.
func Records(events []Event) []dataset.Record {
	records := make([]dataset.Record, 0, len(events))
	for _, e := range events {
		records = append(records, e.Record())
	}
	return records
}

// fields renders the event in FieldNames column order.
func (e Event) fields() []string {
	return []string{
		e.Date.Format(DateLayout),
		e.Action, e.Crop, e.Quantity, e.Duration, e.Location, e.LocationType,
	}
}

// A Store is an append-only event log. Append is atomic per record and
// serialized internally; a failed append surfaces an error rather than
// corrupting the log.
type Store interface {
	Append(Event) error
	ReadAll() ([]Event, error)
	Close() error
}

// Open constructs the configured backend.
func Open(log zerolog.Logger, backend, path string) (Store, error) {
	switch backend {
	case "", "csv":
		return OpenCSV(log, path)
	case "sqlite":
		return OpenSQLite(log, path)
	default:
		return nil, errors.Errorf("unknown store backend %q", backend)
	}
}
