/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dburkart/furrow/pkg/annotate"
	"github.com/dburkart/furrow/pkg/datetext"
	"github.com/dburkart/furrow/pkg/query"
	"github.com/dburkart/furrow/pkg/server"
	"github.com/dburkart/furrow/pkg/store"
	"github.com/dburkart/furrow/pkg/tapas"
	"github.com/dburkart/furrow/pkg/vocab"
)

var Command = &cobra.Command{
	Use:   "server",
	Short: "Web application for recording and querying garden events",

	RunE: func(cmd *cobra.Command, args []string) error {
		logger := viper.Get("logger").(zerolog.Logger)

		v := vocab.Default()
		if path := viper.GetString("vocab.path"); path != "" {
			loaded, err := vocab.Load(path)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("unable to load vocabulary, starting empty")
			}
			v = loaded
		}

		annotator, err := annotate.NewAnnotator()
		if err != nil {
			return err
		}

		events, err := store.Open(
			logger,
			viper.GetString("store.backend"),
			viper.GetString("store.path"),
		)
		if err != nil {
			return err
		}
		defer events.Close()

		oracle := tapas.NewClient(
			logger,
			viper.GetString("model.url"),
			viper.GetString("model.token"),
		)

		interpreter := query.NewInterpreter(annotator, datetext.NewResolver(), v)

		srv := server.New(
			logger,
			v,
			interpreter,
			events,
			oracle,
			viper.GetInt("furrow.port"),
			viper.GetInt("furrow.prom-port"),
		)

		return srv.Serve()
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", 8271, "Application server port")
	Command.Flags().Int("prom-port", 2112, "Set the port for /metrics")
	Command.Flags().StringP("store", "s", "./events.csv", "Path to the event log")
	Command.Flags().String("backend", "csv", "Event log backend (csv or sqlite)")

	// Bind flags to viper
	viper.BindPFlag("furrow.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("furrow.prom-port", Command.Flags().Lookup("prom-port"))
	viper.BindPFlag("store.path", Command.Flags().Lookup("store"))
	viper.BindPFlag("store.backend", Command.Flags().Lookup("backend"))
}
