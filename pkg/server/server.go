/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dburkart/furrow/pkg/dataset"
	"github.com/dburkart/furrow/pkg/query"
	"github.com/dburkart/furrow/pkg/store"
	"github.com/dburkart/furrow/pkg/tapas"
	"github.com/dburkart/furrow/pkg/vocab"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// An Oracle answers a prepared table question. Satisfied by *tapas.Client;
// tests substitute their own.
type Oracle interface {
	Ask(ctx context.Context, req tapas.Request) (tapas.Response, error)
}

const msgStorage = "Something went wrong reading the event log."
const msgModelBusy = "The language model is still warming up. Please try again in a minute."

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore

	vocab       *vocab.Vocabulary
	interpreter *query.Interpreter
	events      store.Store
	oracle      Oracle
	now         func() time.Time

	port        int
	metricsPort int
}

func New(log zerolog.Logger, v *vocab.Vocabulary, interpreter *query.Interpreter, events store.Store, oracle Oracle, port, metricsPort int) *Server {
	return &Server{
		log:         log,
		metrics:     NewMetricsStore(),
		vocab:       v,
		interpreter: interpreter,
		events:      events,
		oracle:      oracle,
		now:         time.Now,
		port:        port,
		metricsPort: metricsPort,
	}
}

// Router assembles the gin engine with all routes attached. Split out from
// Serve so tests can drive the handlers through httptest.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.indexPage)
	engine.POST("/", s.queryPage)

	for _, action := range []string{"sow", "plant", "maintain", "harvest"} {
		action := action // pre-Go 1.22 loop variables are shared across iterations
		engine.GET("/"+action, func(c *gin.Context) { s.eventPage(c, action, "") })
		engine.POST("/"+action, func(c *gin.Context) { s.recordEvent(c, action) })
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/query", s.apiQuery)
		api.GET("/events", s.apiListEvents)
		api.POST("/events", s.apiRecordEvent)
	}

	return engine
}

// Serve runs the application and metrics listeners. Blocks until the
// application listener fails.
func (s *Server) Serve() error {
	go s.serveMetrics()

	s.log.Info().Int("port", s.port).Msg("listening for connections")
	return s.Router().Run(fmt.Sprintf(":%d", s.port))
}

func (s *Server) serveMetrics() {
	s.log.Info().Int("port", s.metricsPort).Msg("/metrics endpoint started")
	http.Handle("/metrics", s.metrics.Handler())
	http.ListenAndServe(fmt.Sprintf(":%d", s.metricsPort), nil)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("request", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
	}
}

// answer runs the full query pipeline for one piece of free text and
// returns the message to show the user plus the metrics outcome.
func (s *Server) answer(ctx context.Context, text string) (string, string) {
	in, err := s.interpreter.Interpret(text)
	if err != nil {
		s.log.Error().Err(err).Msg("annotation failed")
		return tapas.MsgReword, OutcomeError
	}

	if !in.Valid() {
		return in.Warning(), OutcomeInvalid
	}

	events, err := s.events.ReadAll()
	if err != nil {
		s.log.Error().Err(err).Msg("unable to read the event log")
		return msgStorage, OutcomeError
	}

	table := dataset.ModelReady(store.Records(events), dataset.SelectionFrom(in))
	if len(table) == 0 {
		return tapas.MsgNoData, OutcomeNoData
	}

	resp, err := s.oracle.Ask(ctx, tapas.NewRequest(in.Crux, table))
	switch {
	case errors.Is(err, tapas.ErrModelNotReady):
		return msgModelBusy, OutcomeError
	case err != nil:
		s.log.Error().Err(err).Msg("model request failed")
		return tapas.MsgReword, OutcomeError
	}

	msg := resp.Message()
	if msg == "" {
		s.log.Warn().Str("error", resp.Error).Msg("unrecognized model error")
		return tapas.MsgReword, OutcomeError
	}
	return msg, OutcomeAnswered
}

func (s *Server) ask(ctx context.Context, text string) (string, string) {
	start := time.Now()
	msg, outcome := s.answer(ctx, text)
	s.metrics.IncQueries(outcome)
	s.metrics.ObserveQueryMS(outcome, time.Since(start).Milliseconds())
	return msg, outcome
}

func (s *Server) indexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{"Query": "", "Answer": ""})
}

func (s *Server) queryPage(c *gin.Context) {
	text := c.PostForm("query")
	msg, _ := s.ask(c.Request.Context(), text)
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Query":  text,
		"Answer": msg,
	})
}

func (s *Server) eventPage(c *gin.Context, action, notice string) {
	s.renderEventPage(c, http.StatusOK, action, notice)
}

func (s *Server) renderEventPage(c *gin.Context, status int, action, notice string) {
	recorded := action
	if action == "plant" {
		recorded = "sow"
	}
	fields := vocab.NewSet(s.vocab.ActionColumns[recorded]...)

	c.HTML(status, "event.tmpl", gin.H{
		"Action":        action,
		"Title":         vocab.DisplayName(action),
		"WantsCrop":     fields.Has("crop"),
		"WantsQuantity": fields.Has("quantity"),
		"WantsDuration": fields.Has("duration"),
		"WantsLocation": fields.Has("location"),
		"Crops":         vocab.Choices(s.vocab.Crops),
		"Locations":     vocab.Choices(s.vocab.Locations),
		"LocationTypes": vocab.Choices(s.vocab.LocationTypes),
		"Notice":        notice,
	})
}

func (s *Server) recordEvent(c *gin.Context, action string) {
	var form EventForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderEventPage(c, http.StatusBadRequest, action, err.Error())
		return
	}

	// The planting pages share one vocabulary term: a planted crop is
	// recorded as sown.
	form.Action = action
	if action == "plant" {
		form.Action = "sow"
	}

	if err := s.appendEvent(&form); err != nil {
		s.renderEventPage(c, http.StatusBadRequest, action, err.Error())
		return
	}
	s.eventPage(c, action, "Recorded.")
}

func (s *Server) appendEvent(form *EventForm) error {
	if err := form.Validate(s.vocab, s.now()); err != nil {
		return err
	}
	event, err := form.Event()
	if err != nil {
		return err
	}
	if err := s.events.Append(event); err != nil {
		s.log.Error().Err(err).Msg("unable to append to the event log")
		return fmt.Errorf("unable to record the event")
	}
	s.metrics.IncEventsRecorded(event.Action)
	return nil
}

func (s *Server) apiQuery(c *gin.Context) {
	var body struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, outcome := s.ask(c.Request.Context(), body.Query)
	if outcome == OutcomeInvalid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": msg})
}

func (s *Server) apiListEvents(c *gin.Context) {
	events, err := s.events.ReadAll()
	if err != nil {
		s.log.Error().Err(err).Msg("unable to read the event log")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStorage})
		return
	}

	out := make([]gin.H, 0, len(events))
	for _, e := range events {
		out = append(out, gin.H{
			"date":          e.Date.Format(store.DateLayout),
			"action":        e.Action,
			"crop":          e.Crop,
			"quantity":      e.Quantity,
			"duration":      e.Duration,
			"location":      e.Location,
			"location_type": e.LocationType,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (s *Server) apiRecordEvent(c *gin.Context) {
	var form EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if form.Action == "plant" {
		form.Action = "sow"
	}
	if err := s.appendEvent(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}
