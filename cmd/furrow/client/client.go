/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package client

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	furrow "github.com/dburkart/furrow/api"
	"github.com/dburkart/furrow/pkg/repl"
	"github.com/dburkart/furrow/pkg/store"
)

var log zerolog.Logger

var (
	Command = &cobra.Command{
		Use:   "client",
		Short: "Interactive terminal for talking to the server",

		Run: func(cmd *cobra.Command, args []string) {
			log := viper.Get("logger").(zerolog.Logger)
			output := viper.GetString("furrow.output")
			if output != "csv" && output != "text" && output != "json" {
				log.Fatal().Msg("unsupported output format")
			}

			client := furrow.NewClient(viper.GetString("furrow.host"))
			readlinePrompt(client, output)
		},
	}
)

func init() {
	log = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).
		With().
		Timestamp().
		Caller().
		Logger()

	// Flags for this command
	Command.Flags().StringP("output", "o", "text", "Output format of results [csv, json, text]")

	// Bind flags to viper
	viper.BindPFlag("furrow.output", Command.Flags().Lookup("output"))
}

// eventsTable renders an event listing with a relative-age column.
type eventsTable struct {
	Events []furrow.Event `json:"events"`
}

func (t eventsTable) Headers() []string {
	return []string{"date", "age", "action", "crop", "quantity", "duration", "location", "location type"}
}

func (t eventsTable) Values() [][]string {
	rows := make([][]string, 0, len(t.Events))
	for _, e := range t.Events {
		age := ""
		if date, err := time.Parse(store.DateLayout, e.Date); err == nil {
			age = humanize.Time(date)
		}
		rows = append(rows, []string{
			e.Date, age, e.Action, e.Crop, e.Quantity, e.Duration, e.Location, e.LocationType,
		})
	}
	return rows
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func readlinePrompt(c furrow.Client, output string) {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("ask"),
		readline.PcItem("events"),
		readline.PcItem("exit"),
	)

	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32m>\033[0m ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	// Configure output writer
	writer := repl.NewOutputWriter(os.Stdout, output)

	// Handle input
	for {
		ln := rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			break
		}
		line := strings.TrimSpace(ln.Line)

		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "help"):
			fmt.Println("usage:")
			fmt.Println("    ask <question>  ask about recorded events")
			fmt.Println("    events          list all recorded events")
			fmt.Println("    exit            leave the prompt")
			continue
		case strings.EqualFold(line, "exit"):
			os.Exit(0)
		case strings.EqualFold(line, "events"):
			events, err := c.Events()
			if err != nil {
				log.Error().Err(err).Send()
				continue
			}
			writer.Write(eventsTable{events})
		case strings.HasPrefix(strings.ToLower(line), "ask "):
			answer, err := c.Ask(strings.TrimSpace(line[4:]))
			if err != nil {
				log.Error().Err(err).Send()
				continue
			}
			fmt.Println(answer)
		default:
			// Bare text is treated as a question.
			answer, err := c.Ask(line)
			if err != nil {
				log.Error().Err(err).Send()
				continue
			}
			fmt.Println(answer)
		}
		fmt.Println()
	}
	rl.Clean()
}
