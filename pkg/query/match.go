/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package query interprets a natural-language question into a structured,
// bounded filter specification: matched vocabulary terms, a resolved date
// range, the aggregation crux, and the output columns the answer needs.
package query

import (
	"github.com/dburkart/furrow/pkg/vocab"
)

// Match intersects the query's token lemmas with a closed vocabulary.
// "plant" normalizes to "sow" — sowing subsumes planting as a recorded
// action. An empty result is a meaningful "no match", never an error.
func Match(lemmas, vocabulary vocab.Set) vocab.Set {
	matched := vocab.NewSet()
	for term := range vocabulary {
		if lemmas.Has(term) {
			matched.Add(term)
		}
	}

	if matched.Has("plant") {
		matched.Remove("plant")
		matched.Add("sow")
	}

	return matched
}
