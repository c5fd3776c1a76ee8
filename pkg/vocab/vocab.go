/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package vocab holds the closed vocabularies the query interpreter matches
// against. Vocabularies are loaded once at startup and never mutated.
package vocab

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// A Set is an unordered collection of canonical lowercase tokens.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Add(item string) {
	s[item] = struct{}{}
}

func (s Set) Remove(item string) {
	delete(s, item)
}

// Values returns the members in sorted order.
func (s Set) Values() []string {
	values := make([]string, 0, len(s))
	for item := range s {
		values = append(values, item)
	}
	sort.Strings(values)
	return values
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for item := range s {
		if !other.Has(item) {
			return false
		}
	}
	return true
}

// Vocabulary is the app-data every interpretation reads from: the closed
// crop/action/location sets, plus which stored columns each action form
// collects.
type Vocabulary struct {
	Crops         Set
	Actions       Set
	Locations     Set
	LocationTypes Set

	// ActionColumns maps an action name to the record columns its form
	// collects, in storage order.
	ActionColumns map[string][]string
}

// FieldNames is the fixed column order of the event store.
var FieldNames = []string{
	"date", "action", "crop", "quantity", "duration", "location", "location_type",
}

// Default returns the built-in vocabulary, used when no app-data file is
// configured.
func Default() *Vocabulary {
	return &Vocabulary{
		Crops:         NewSet("cress", "carrot", "potato", "zucchini", "broadbean"),
		Actions:       NewSet("sow", "plant", "harden off", "maintain", "harvest"),
		Locations:     NewSet("kitchen", "balcony", "garden", "greenhouse"),
		LocationTypes: NewSet("indoors-window-box", "outdoors-bed", "outdoors-planter"),
		ActionColumns: defaultActionColumns(),
	}
}

func defaultActionColumns() map[string][]string {
	return map[string][]string{
		"sow":      {"date", "crop", "quantity", "location", "location_type"},
		"maintain": {"date", "duration", "location", "location_type"},
		"harvest":  {"date", "crop", "quantity", "location", "location_type"},
	}
}

// appData mirrors the on-disk JSON document.
type appData struct {
	Crops         []string `json:"crops"`
	Actions       []string `json:"actions"`
	Locations     []string `json:"locations"`
	LocationTypes []string `json:"location-types"`
}

// Load reads a vocabulary from the JSON app-data file at path. A missing or
// unreadable file yields an empty vocabulary along with the error, so callers
// can log the problem and keep serving; matching against empty sets simply
// never succeeds.
func Load(path string) (*Vocabulary, error) {
	empty := &Vocabulary{
		Crops:         NewSet(),
		Actions:       NewSet(),
		Locations:     NewSet(),
		LocationTypes: NewSet(),
		ActionColumns: defaultActionColumns(),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return empty, errors.Wrap(err, "unable to read app data")
	}

	var data appData
	if err := json.Unmarshal(raw, &data); err != nil {
		return empty, errors.Wrap(err, "unable to parse app data")
	}

	return &Vocabulary{
		Crops:         NewSet(data.Crops...),
		Actions:       NewSet(data.Actions...),
		Locations:     NewSet(data.Locations...),
		LocationTypes: NewSet(data.LocationTypes...),
		ActionColumns: defaultActionColumns(),
	}, nil
}

// DisplayName renders a canonical token for form labels: first letter
// upper-cased, dashes opened up.
func DisplayName(name string) string {
	name = strings.ReplaceAll(name, "-", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Choices returns (value, label) pairs for a select field, sorted by value.
func Choices(s Set) [][2]string {
	choices := make([][2]string, 0, len(s))
	for _, value := range s.Values() {
		choices = append(choices, [2]string{value, DisplayName(value)})
	}
	return choices
}
