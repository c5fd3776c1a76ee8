/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"strings"

	"github.com/dburkart/furrow/pkg/annotate"
	"github.com/dburkart/furrow/pkg/vocab"
)

// The crux is the aggregation question actually sent to the model.
const (
	CruxQuantity = "what is sum of quantity?"
	CruxDuration = "what is sum of duration?"
)

var quantityIndicators = [...]string{"how much", "how many"}

// detectCrux works out the aggregation intent of the query and records the
// extra column it needs on the builder. The quantity and duration checks are
// independent pattern tests: "how much time to maintain" must come out as a
// duration crux, because the quantity test demands a crop lemma right after
// the indicator phrase.
func detectCrux(q *annotate.Query, crops vocab.Set, columns vocab.Set) string {
	crux := ""

	if len(q.Tokens) >= 3 {
		opening := strings.ToLower(q.Tokens[0].Text + " " + q.Tokens[1].Text)
		for _, indicator := range quantityIndicators {
			if opening == indicator && crops.Has(q.Tokens[2].Lemma) {
				columns.Add("quantity")
				crux = CruxQuantity
				break
			}
		}
	}

	for _, tok := range q.Tokens {
		if tok.Lemma == "maintenance" || tok.Lemma == "maintain" {
			columns.Add("duration")
			crux = CruxDuration
			break
		}
	}

	return crux
}
