/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package store

import (
	"encoding/csv"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dburkart/furrow/pkg/vocab"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// csvStore keeps the history in a single headered CSV file. Writes are
// serialized by a mutex so concurrent submissions cannot interleave partial
// rows.
type csvStore struct {
	path string
	log  zerolog.Logger

	writeLock sync.Mutex
}

// OpenCSV opens (creating if necessary) the CSV event log at path. A new
// file gets the header row written immediately.
func OpenCSV(log zerolog.Logger, path string) (Store, error) {
	s := &csvStore{path: path, log: log}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeHeader(); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("created event log")
	}

	return s, nil
}

func (s *csvStore) writeHeader() error {
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "unable to create event log")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(vocab.FieldNames); err != nil {
		return errors.Wrap(err, "unable to write event log header")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "unable to write event log header")
}

func (s *csvStore) Append(e Event) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to open event log at %s", s.path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(e.fields()); err != nil {
		return errors.Wrap(err, "unable to append event")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "unable to append event")
	}

	s.log.Debug().Str("action", e.Action).Str("crop", e.Crop).Msg("recorded event")
	return nil
}

func (s *csvStore) ReadAll() ([]Event, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read event log at %s", s.path)
	}
	defer file.Close()

	r := csv.NewReader(file)

	// Skip the header.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to read event log header")
	}

	var events []Event
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "unable to read event log")
		}
		if len(row) != len(vocab.FieldNames) {
			return nil, errors.Errorf("malformed event row with %d columns", len(row))
		}

		date, err := time.Parse(DateLayout, row[0])
		if err != nil {
			return nil, errors.Wrapf(err, "malformed event date %q", row[0])
		}

		events = append(events, Event{
			Date:         date,
			Action:       row[1],
			Crop:         row[2],
			Quantity:     row[3],
			Duration:     row[4],
			Location:     row[5],
			LocationType: row[6],
		})
	}

	return events, nil
}

func (s *csvStore) Close() error {
	return nil
}
