/*
 * Copyright (c) 2023, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	Handler() http.Handler

	// Collection
	IncQueries(outcome string)
	ObserveQueryMS(outcome string, t int64)
	IncEventsRecorded(action string)
}

type metricsStore struct {
	registry       *prometheus.Registry
	Queries        *prometheus.CounterVec
	QueryMS        *prometheus.HistogramVec
	EventsRecorded *prometheus.CounterVec
}

var (
	OutcomeLabel = "outcome"
	ActionLabel  = "action"
)

// Query outcomes used as metric label values.
const (
	OutcomeAnswered = "answered"
	OutcomeInvalid  = "invalid"
	OutcomeNoData   = "no-data"
	OutcomeError    = "error"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(250*i))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "furrow_queries",
			Help: "Query counts by outcome",
		}, []string{OutcomeLabel}),
		QueryMS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "furrow_query_ms",
			Help:    "End-to-end query handling time in milliseconds",
			Buckets: buckets,
		}, []string{OutcomeLabel}),
		EventsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "furrow_events_recorded",
			Help: "Recorded event counts by action",
		}, []string{ActionLabel}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncQueries(outcome string) {
	ms.Queries.With(prometheus.Labels{OutcomeLabel: outcome}).Inc()
}

func (ms *metricsStore) ObserveQueryMS(outcome string, t int64) {
	ms.QueryMS.With(prometheus.Labels{OutcomeLabel: outcome}).Observe(float64(t))
}

func (ms *metricsStore) IncEventsRecorded(action string) {
	ms.EventsRecorded.With(prometheus.Labels{ActionLabel: action}).Inc()
}
