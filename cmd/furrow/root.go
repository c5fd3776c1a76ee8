/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package furrow

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dburkart/furrow/cmd/furrow/client"
	"github.com/dburkart/furrow/cmd/furrow/server"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "furrow",
		Short: "Furrow logs garden events and answers questions about them",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		Version: Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("host", "H", "http://localhost:8271", "Base URL of the furrow server")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the furrow config file (default ./config.toml)")

	// Bind viper config to the root flags
	viper.BindPFlag("furrow.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("furrow.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("furrow.host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("furrow version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	viper.AutomaticEnv()

	// Register commands on the root binary command
	server.Command.Version = rootCmd.Version
	client.Command.Version = rootCmd.Version
	rootCmd.AddCommand(server.Command)
	rootCmd.AddCommand(client.Command)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}
