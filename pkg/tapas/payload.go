/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package tapas speaks to a remote tabular question-answering model: it
// builds the query+table payload, posts it with bounded retries while the
// model warms up, and classifies what comes back.
package tapas

import (
	"github.com/dburkart/furrow/pkg/dataset"
)

// DefaultModelURL is the hosted inference endpoint used when none is
// configured.
const DefaultModelURL = "https://api-inference.huggingface.co/models/google/tapas-large-finetuned-wtq"

// A Request is the inference payload: the crux as the model query, the
// pivoted table as its data, and the option asking the service to queue
// rather than reject while the model loads.
type Request struct {
	Inputs  Inputs  `json:"inputs"`
	Options Options `json:"options"`
}

type Inputs struct {
	Query string        `json:"query"`
	Table dataset.Table `json:"table"`
}

type Options struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewRequest assembles the payload for one crux over one prepared table.
func NewRequest(crux string, table dataset.Table) Request {
	return Request{
		Inputs:  Inputs{Query: crux, Table: table},
		Options: Options{WaitForModel: true},
	}
}
