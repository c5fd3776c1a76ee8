/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tapas

import "strings"

// User-facing strings for the non-answer outcomes.
const (
	MsgNoData = "No data was found based on the previous query."
	MsgReword = "Something went wrong parsing your query. Please attempt to reword it."
)

// A Response is the inference service's reply: either an answer (with
// optional aggregation detail) or an error envelope.
type Response struct {
	Answer      string  `json:"answer,omitempty"`
	Aggregator  string  `json:"aggregator,omitempty"`
	Coordinates [][]int `json:"coordinates,omitempty"`
	Cells       []string `json:"cells,omitempty"`

	Error         string  `json:"error,omitempty"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

func (r Response) HasAnswer() bool {
	return r.Error == "" && r.Answer != ""
}

// Loading reports a transient condition: the model is still warming up and
// the request should be retried after a delay.
func (r Response) Loading() bool {
	return strings.Contains(r.Error, "currently loading")
}

// TableEmpty reports that the filtered dataset held no rows.
func (r Response) TableEmpty() bool {
	return strings.Contains(r.Error, "table is empty")
}

// QueryEmpty reports that the service could not make sense of the query.
func (r Response) QueryEmpty() bool {
	return r.Error != "" && strings.Contains(r.Error, "query is empty")
}

// Message renders the response for the user: the answer verbatim, or the
// fixed string for each recognized error condition.
func (r Response) Message() string {
	switch {
	case r.Error == "":
		return r.Answer
	case r.TableEmpty():
		return MsgNoData
	case r.QueryEmpty():
		return MsgReword
	default:
		return ""
	}
}
