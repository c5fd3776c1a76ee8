/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package store

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	date          TEXT NOT NULL,
	action        TEXT NOT NULL,
	crop          TEXT NOT NULL DEFAULT '',
	quantity      TEXT NOT NULL DEFAULT '',
	duration      TEXT NOT NULL DEFAULT '',
	location      TEXT NOT NULL DEFAULT '',
	location_type TEXT NOT NULL DEFAULT ''
);`

// sqliteStore keeps the history in a single-table sqlite database. The
// database/sql handle serializes writers for us.
type sqliteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (creating if necessary) the sqlite event log at path.
func OpenSQLite(log zerolog.Logger, path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open event database at %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to initialize event database")
	}

	return &sqliteStore{db: db, log: log}, nil
}

func (s *sqliteStore) Append(e Event) error {
	_, err := s.db.Exec(
		`INSERT INTO events (date, action, crop, quantity, duration, location, location_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date.Format(DateLayout),
		e.Action, e.Crop, e.Quantity, e.Duration, e.Location, e.LocationType,
	)
	if err != nil {
		return errors.Wrap(err, "unable to append event")
	}

	s.log.Debug().Str("action", e.Action).Str("crop", e.Crop).Msg("recorded event")
	return nil
}

func (s *sqliteStore) ReadAll() ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT date, action, crop, quantity, duration, location, location_type
		 FROM events ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read event database")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var rawDate string
		if err := rows.Scan(
			&rawDate, &e.Action, &e.Crop, &e.Quantity,
			&e.Duration, &e.Location, &e.LocationType,
		); err != nil {
			return nil, errors.Wrap(err, "unable to scan event row")
		}

		e.Date, err = time.Parse(DateLayout, rawDate)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed event date %q", rawDate)
		}
		events = append(events, e)
	}

	return events, errors.Wrap(rows.Err(), "unable to read event database")
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
